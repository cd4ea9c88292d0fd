package steps

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bertffff/stackup/internal/platform/certs"
)

type fakeIssuer struct {
	installed bool
	issued    *certs.Certificate
	issueErr  error
	dir       string
}

func (f *fakeIssuer) Installed(string) bool { return f.installed }

func (f *fakeIssuer) Issue(context.Context, string, string) (*certs.Certificate, error) {
	return f.issued, f.issueErr
}

func (f *fakeIssuer) CertPath(domain string) string { return filepath.Join(f.dir, domain+".crt") }
func (f *fakeIssuer) KeyPath(domain string) string  { return filepath.Join(f.dir, domain+".key") }

func TestCertificateStep_ProbeHydratesPaths(t *testing.T) {
	ctx := testCtx(t)
	issuer := &fakeIssuer{installed: true, dir: "/var/lib/stackup/certs"}

	done, err := NewCertificateStep(issuer).Probe(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "/var/lib/stackup/certs/proxy.example.com.crt", ctx.Outputs.CertFile)
	assert.Equal(t, "/var/lib/stackup/certs/proxy.example.com.key", ctx.Outputs.CertKeyFile)
}

func TestCertificateStep_TracksFilesBeforeIssue(t *testing.T) {
	ctx := testCtx(t)
	issuer := &fakeIssuer{dir: "/certs", issueErr: errors.New("standalone port busy")}

	err := NewCertificateStep(issuer).Execute(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{
		"/certs/proxy.example.com.crt",
		"/certs/proxy.example.com.key",
	}, ctx.Tracker.Paths())
}

func TestCertificateStep_PublishesOutputs(t *testing.T) {
	ctx := testCtx(t)
	issuer := &fakeIssuer{dir: "/certs", issued: &certs.Certificate{
		CertFile:   "/certs/proxy.example.com.crt",
		KeyFile:    "/certs/proxy.example.com.key",
		SelfSigned: true,
	}}

	require.NoError(t, NewCertificateStep(issuer).Execute(ctx))
	assert.Equal(t, "/certs/proxy.example.com.crt", ctx.Outputs.CertFile)
	assert.True(t, ctx.Outputs.CertSelfSigned)
}
