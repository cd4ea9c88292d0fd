package netutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSSHDConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sshd_config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDetectSSHPort_Precedence(t *testing.T) {
	sshdWithPort := writeSSHDConfig(t, "# comment\nPort 2222\n")
	sshdDefault := writeSSHDConfig(t, "#Port 22\nPermitRootLogin no\n")
	missing := filepath.Join(t.TempDir(), "absent")

	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name       string
		configured int
		sshdConfig string
		env        map[string]string
		want       int
	}{
		{
			name:       "explicit config wins over everything",
			configured: 9022,
			sshdConfig: sshdWithPort,
			env:        map[string]string{"SSH_CONNECTION": "1.2.3.4 50000 5.6.7.8 7022"},
			want:       9022,
		},
		{
			name:       "sshd_config wins over session",
			sshdConfig: sshdWithPort,
			env:        map[string]string{"SSH_CONNECTION": "1.2.3.4 50000 5.6.7.8 7022"},
			want:       2222,
		},
		{
			name:       "session port when sshd_config has no directive",
			sshdConfig: sshdDefault,
			env:        map[string]string{"SSH_CONNECTION": "1.2.3.4 50000 5.6.7.8 7022"},
			want:       7022,
		},
		{
			name:       "default when nothing else yields",
			sshdConfig: missing,
			env:        map[string]string{},
			want:       DefaultSSHPort,
		},
		{
			name:       "malformed session variable ignored",
			sshdConfig: missing,
			env:        map[string]string{"SSH_CONNECTION": "garbage"},
			want:       DefaultSSHPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectSSHPort(tt.configured, tt.sshdConfig, env(tt.env))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSSHDConfigPort_IgnoresCommentsAndCase(t *testing.T) {
	path := writeSSHDConfig(t, "# Port 9999\nport 2200\n")
	assert.Equal(t, 2200, sshdConfigPort(path))
}
