package summary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() Result {
	return Result{
		Domain:        "proxy.example.com",
		PublicIP:      "203.0.113.10",
		PanelURL:      "https://proxy.example.com:2053",
		PanelUser:     "admin",
		PanelPassword: "s3cret",
		CertFile:      "/var/lib/stackup/certs/proxy.example.com.crt",
	}
}

func TestWrite_RestrictivePermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	path, err := Write(dir, testResult())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "summary carries credentials")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Panel password: s3cret")
	assert.Contains(t, string(data), "Domain: proxy.example.com")
}

func TestRender_OptionalSections(t *testing.T) {
	r := testResult()
	out := r.Render()
	assert.NotContains(t, out, "DNS filter UI")
	assert.NotContains(t, out, "self-signed")

	r.SelfSigned = true
	r.DNSWebURL = "http://proxy.example.com:3000"
	r.TunnelActive = true
	out = r.Render()
	assert.Contains(t, out, "self-signed")
	assert.Contains(t, out, "http://proxy.example.com:3000")
	assert.Contains(t, out, "registered")
}
