package steps

import (
	"context"

	"github.com/bertffff/stackup/internal/platform/certs"
	"github.com/bertffff/stackup/internal/provisioning"
)

// CertificateIssuer is the slice of the certs surface the step needs.
type CertificateIssuer interface {
	Installed(domain string) bool
	Issue(ctx context.Context, domain, email string) (*certs.Certificate, error)
	CertPath(domain string) string
	KeyPath(domain string) string
}

// CertificateStep obtains the TLS certificate for the stack's domain.
type CertificateStep struct {
	issuer CertificateIssuer
}

// NewCertificateStep creates the certificate step.
func NewCertificateStep(issuer CertificateIssuer) *CertificateStep {
	return &CertificateStep{issuer: issuer}
}

// Name implements provisioning.Step.
func (s *CertificateStep) Name() string { return "certificate" }

// Milestone implements provisioning.Step.
func (s *CertificateStep) Milestone() provisioning.Milestone {
	return provisioning.MilestoneCertificate
}

// Probe reports whether a usable certificate is already installed, and
// hydrates the output paths for later steps when it is.
func (s *CertificateStep) Probe(ctx *provisioning.Context) (bool, error) {
	domain := ctx.Config.Domain
	if !s.issuer.Installed(domain) {
		return false, nil
	}
	ctx.Outputs.CertFile = s.issuer.CertPath(domain)
	ctx.Outputs.CertKeyFile = s.issuer.KeyPath(domain)
	return true, nil
}

// Execute issues the certificate, tracking the created files for
// best-effort cleanup.
func (s *CertificateStep) Execute(ctx *provisioning.Context) error {
	domain := ctx.Config.Domain

	ctx.Tracker.TrackPath(s.issuer.CertPath(domain))
	ctx.Tracker.TrackPath(s.issuer.KeyPath(domain))

	cert, err := s.issuer.Issue(ctx, domain, ctx.Config.Email)
	if err != nil {
		return err
	}

	ctx.Outputs.CertFile = cert.CertFile
	ctx.Outputs.CertKeyFile = cert.KeyFile
	ctx.Outputs.CertSelfSigned = cert.SelfSigned
	if cert.SelfSigned {
		ctx.Log.Warnf("using self-signed certificate for %s", domain)
	}
	return nil
}
