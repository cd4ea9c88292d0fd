// Package certs issues TLS certificates for the stack: ACME via the
// host's certbot in standalone mode, with a self-signed fallback when
// issuance is not possible.
package certs

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bertffff/stackup/internal/platform/host"
)

// renewBefore is how close to expiry an installed certificate is
// considered due for reissue.
const renewBefore = 30 * 24 * time.Hour

// Certificate describes issued key material on disk.
type Certificate struct {
	CertFile   string
	KeyFile    string
	SelfSigned bool
	NotAfter   time.Time
}

// Issuer obtains certificates into a target directory.
type Issuer struct {
	run host.Runner
	dir string
	log logrus.FieldLogger
	now func() time.Time
}

// NewIssuer creates an issuer writing into dir.
func NewIssuer(run host.Runner, dir string, log logrus.FieldLogger) *Issuer {
	return &Issuer{run: run, dir: dir, log: log, now: time.Now}
}

// CertPath returns where the certificate for domain is installed.
func (i *Issuer) CertPath(domain string) string {
	return filepath.Join(i.dir, domain+".crt")
}

// KeyPath returns where the private key for domain is installed.
func (i *Issuer) KeyPath(domain string) string {
	return filepath.Join(i.dir, domain+".key")
}

// Installed reports whether a usable certificate for domain already
// exists: present, parseable, and not within the renewal window.
func (i *Issuer) Installed(domain string) bool {
	notAfter, err := i.CheckExpiry(i.CertPath(domain))
	if err != nil {
		return false
	}
	if _, err := os.Stat(i.KeyPath(domain)); err != nil {
		return false
	}
	return i.now().Add(renewBefore).Before(notAfter)
}

// CheckExpiry parses the certificate file and returns its NotAfter.
func (i *Issuer) CheckExpiry(certFile string) (time.Time, error) {
	data, err := os.ReadFile(certFile) // #nosec G304
	if err != nil {
		return time.Time{}, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return time.Time{}, fmt.Errorf("no PEM data in %s", certFile)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert.NotAfter, nil
}

// Issue obtains a certificate for domain. ACME issuance is attempted
// first when an email is configured; any issuance failure falls back to
// a self-signed certificate so the stack stays deployable on hosts
// without public DNS.
func (i *Issuer) Issue(ctx context.Context, domain, email string) (*Certificate, error) {
	if err := os.MkdirAll(i.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	if email != "" {
		cert, err := i.issueACME(ctx, domain, email)
		if err == nil {
			return cert, nil
		}
		i.log.Warnf("ACME issuance for %s failed, falling back to self-signed: %v", domain, err)
	}

	return i.selfSign(domain)
}

// issueACME runs certbot in standalone mode and installs the resulting
// files into the issuer directory.
func (i *Issuer) issueACME(ctx context.Context, domain, email string) (*Certificate, error) {
	_, err := i.run.Run(ctx, "certbot", "certonly", "--standalone", "--non-interactive",
		"--agree-tos", "-m", email, "-d", domain)
	if err != nil {
		return nil, err
	}

	live := filepath.Join("/etc/letsencrypt/live", domain)
	if err := i.install(filepath.Join(live, "fullchain.pem"), i.CertPath(domain), 0o644); err != nil {
		return nil, err
	}
	if err := i.install(filepath.Join(live, "privkey.pem"), i.KeyPath(domain), 0o600); err != nil {
		return nil, err
	}

	notAfter, err := i.CheckExpiry(i.CertPath(domain))
	if err != nil {
		return nil, err
	}
	return &Certificate{
		CertFile: i.CertPath(domain),
		KeyFile:  i.KeyPath(domain),
		NotAfter: notAfter,
	}, nil
}

func (i *Issuer) install(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		return fmt.Errorf("failed to install %s: %w", dst, err)
	}
	return nil
}
