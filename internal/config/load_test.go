package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stackup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
domain: proxy.example.com
`))
	require.NoError(t, err)

	assert.Equal(t, "proxy.example.com", cfg.Domain)
	assert.Equal(t, "/var/lib/stackup", cfg.StateDir)
	assert.Equal(t, "stackup", cfg.Network.Name)
	assert.Equal(t, "172.30.0.0/24", cfg.Network.Subnet)
	assert.Equal(t, 3000, cfg.DNS.WebPort)
	assert.Equal(t, 2053, cfg.Panel.Port)
	assert.Equal(t, "admin", cfg.Panel.Username)
	assert.NotEmpty(t, cfg.Panel.Image)
}

func TestLoadFile_FullConfig(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
domain: proxy.example.com
email: ops@example.com
ssh_port: 2222
state_dir: /tmp/stackup-test
network:
  name: edge
  subnet: 10.99.0.0/24
firewall:
  extra_ports:
    - port: 8443
      comment: alt https
dns:
  enabled: true
  web_port: 3100
tunnel:
  enabled: true
panel:
  port: 8444
  username: operator
  password: secret
`))
	require.NoError(t, err)

	assert.Equal(t, 2222, cfg.SSHPort)
	assert.Equal(t, "edge", cfg.Network.Name)
	assert.True(t, cfg.DNS.Enabled)
	assert.True(t, cfg.Tunnel.Enabled)
	assert.Equal(t, "operator", cfg.Panel.Username)
	require.Len(t, cfg.Firewall.ExtraPorts, 1)
	// Protocol defaults per rule.
	assert.Equal(t, "tcp", cfg.Firewall.ExtraPorts[0].Protocol)
}

func TestLoadFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing domain", `email: ops@example.com`},
		{"bad domain", `domain: "not a domain"`},
		{"bad subnet", "domain: proxy.example.com\nnetwork:\n  subnet: not-a-cidr"},
		{"bad email", "domain: proxy.example.com\nemail: nope"},
		{"port clash", "domain: proxy.example.com\ndns:\n  enabled: true\n  web_port: 2053"},
		{"extra port duplicates ssh", "domain: proxy.example.com\nssh_port: 2222\nfirewall:\n  extra_ports:\n    - port: 2222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
