package prerequisites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_MissingRequiredTool(t *testing.T) {
	results := Check([]Tool{
		{Name: "definitely-not-a-real-binary-xyz", Required: true, Description: "test"},
	})

	assert.True(t, results.HasErrors())
	assert.Contains(t, results.Error(), "definitely-not-a-real-binary-xyz")
}

func TestCheck_MissingOptionalToolIsNotAnError(t *testing.T) {
	results := Check([]Tool{
		{Name: "definitely-not-a-real-binary-xyz", Required: false, Description: "test"},
	})

	assert.False(t, results.HasErrors())
	require.Len(t, results.Missing, 1)
}

func TestCheck_FindsShell(t *testing.T) {
	results := Check([]Tool{{Name: "sh", Required: true}})
	assert.False(t, results.HasErrors())
	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[0].Found)
	assert.NotEmpty(t, results.Results[0].Path)
}

func TestDefaultTools_RequiredSet(t *testing.T) {
	names := map[string]bool{}
	for _, tool := range DefaultTools() {
		names[tool.Name] = tool.Required
	}
	assert.True(t, names["systemctl"])
	assert.True(t, names["ufw"])
	assert.True(t, names["curl"])
	assert.False(t, names["certbot"], "certbot is optional")
}
