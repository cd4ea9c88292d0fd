package panel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.env")
	opts := EnvOptions{
		Port:     2053,
		Username: "admin",
		Password: "s3cret",
		CertFile: "/certs/proxy.crt",
		KeyFile:  "/certs/proxy.key",
	}

	require.NoError(t, WriteEnv(path, opts))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "env file carries credentials")

	got, err := ReadEnv(path)
	require.NoError(t, err)
	assert.Equal(t, opts, got)
}

func TestRenderEnv_Deterministic(t *testing.T) {
	opts := EnvOptions{Port: 2053, Username: "admin", Password: "p"}
	assert.Equal(t, RenderEnv(opts), RenderEnv(opts))
}

func TestReadEnv_MissingFile(t *testing.T) {
	_, err := ReadEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.True(t, os.IsNotExist(err))
}
