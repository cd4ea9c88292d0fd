package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	out, err := NewExecRunner(0).Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestExecRunner_FailureIncludesOutput(t *testing.T) {
	_, err := NewExecRunner(0).Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecRunner_DefaultTimeoutBoundsCommands(t *testing.T) {
	start := time.Now()
	_, err := NewExecRunner(50*time.Millisecond).Run(context.Background(), "sleep", "5")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestExecRunner_CallerDeadlineWins(t *testing.T) {
	// A caller that sets its own deadline opts out of the default
	// bound, so a command longer than the runner timeout still runs.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewExecRunner(time.Millisecond).Run(ctx, "sleep", "0.1")
	require.NoError(t, err)
}
