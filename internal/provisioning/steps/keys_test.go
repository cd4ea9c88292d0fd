package steps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bertffff/stackup/internal/provisioning/rollback"
)

func TestKeysStep_GenerateAndHydrate(t *testing.T) {
	ctx := testCtx(t)
	step := NewKeysStep()

	done, err := step.Probe(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, step.Execute(ctx))
	assert.NotEmpty(t, ctx.Outputs.ProxyPrivateKey)
	assert.NotEmpty(t, ctx.Outputs.ProxyPublicKey)
	assert.Len(t, ctx.Outputs.ShortIDs, shortIDCount)

	info, err := os.Stat(filepath.Join(ctx.Config.StateDir, keysFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Removal of the credential file is registered as Cleanup tier.
	cleanup := ctx.Registry.Drain(rollback.TierCleanup)
	require.Len(t, cleanup, 1)
	assert.Equal(t, rollback.ActionRemovePath, cleanup[0].Action.Kind)

	// A fresh context hydrates the same material from disk.
	fresh := testCtx(t)
	fresh.Config.StateDir = ctx.Config.StateDir
	done, err = step.Probe(fresh)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, ctx.Outputs.ProxyPrivateKey, fresh.Outputs.ProxyPrivateKey)
	assert.Equal(t, ctx.Outputs.ShortIDs, fresh.Outputs.ShortIDs)
}

func TestKeysStep_CorruptFileRegenerates(t *testing.T) {
	ctx := testCtx(t)
	path := filepath.Join(ctx.Config.StateDir, keysFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	done, err := NewKeysStep().Probe(ctx)
	require.NoError(t, err)
	assert.False(t, done)
}
