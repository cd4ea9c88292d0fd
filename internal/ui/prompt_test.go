package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm_AssumeYes(t *testing.T) {
	ok, err := NewPrompter(true).Confirm("Proceed?", "details")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirm_NonInteractiveDeclines(t *testing.T) {
	p := NewPrompter(false)
	p.interactive = false

	ok, err := p.Confirm("Proceed?", "details")
	require.NoError(t, err)
	assert.False(t, ok, "without a terminal the safe answer is no")
}
