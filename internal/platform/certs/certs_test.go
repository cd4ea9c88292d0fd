package certs

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noRunner struct{}

func (noRunner) Run(context.Context, string, ...string) (string, error) {
	return "", os.ErrNotExist
}

func testIssuer(t *testing.T) *Issuer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewIssuer(noRunner{}, t.TempDir(), log)
}

func TestIssue_SelfSignedFallback(t *testing.T) {
	i := testIssuer(t)
	const domain = "proxy.example.com"

	cert, err := i.Issue(context.Background(), domain, "")
	require.NoError(t, err)
	assert.True(t, cert.SelfSigned)
	assert.Equal(t, i.CertPath(domain), cert.CertFile)
	assert.Equal(t, i.KeyPath(domain), cert.KeyFile)

	keyInfo, err := os.Stat(cert.KeyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), keyInfo.Mode().Perm())

	notAfter, err := i.CheckExpiry(cert.CertFile)
	require.NoError(t, err)
	assert.True(t, notAfter.After(time.Now().Add(365*24*time.Hour)))
}

func TestInstalled(t *testing.T) {
	i := testIssuer(t)
	const domain = "proxy.example.com"

	assert.False(t, i.Installed(domain), "nothing issued yet")

	cert, err := i.Issue(context.Background(), domain, "")
	require.NoError(t, err)
	assert.True(t, i.Installed(domain))

	// Inside the renewal window the certificate counts as not installed.
	i.now = func() time.Time { return cert.NotAfter.Add(-24 * time.Hour) }
	assert.False(t, i.Installed(domain))
}

func TestInstalled_MissingKey(t *testing.T) {
	i := testIssuer(t)
	const domain = "proxy.example.com"

	_, err := i.Issue(context.Background(), domain, "")
	require.NoError(t, err)
	require.NoError(t, os.Remove(i.KeyPath(domain)))

	assert.False(t, i.Installed(domain))
}

func TestCheckExpiry_NotPEM(t *testing.T) {
	i := testIssuer(t)
	path := i.CertPath("bad.example.com")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o644))

	_, err := i.CheckExpiry(path)
	assert.Error(t, err)
}

func TestIssue_ACMEFallsBackWhenCertbotFails(t *testing.T) {
	// The runner fails every command, so ACME issuance cannot succeed
	// and the issuer must fall back to self-signed.
	i := testIssuer(t)
	cert, err := i.Issue(context.Background(), "proxy.example.com", "ops@example.com")
	require.NoError(t, err)
	assert.True(t, cert.SelfSigned)
}
