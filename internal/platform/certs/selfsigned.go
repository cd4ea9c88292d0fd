package certs

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"time"
)

// selfSignedValidity keeps self-signed certificates valid long enough
// that the renewal window never immediately re-triggers issuance.
const selfSignedValidity = 2 * 365 * 24 * time.Hour

// selfSign writes a self-signed ECDSA P-256 certificate for domain.
func (i *Issuer) selfSign(domain string) (*Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	notBefore := i.now()
	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: domain},
		DNSNames:              []string{domain},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(selfSignedValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal certificate key: %w", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	if err := os.WriteFile(i.CertPath(domain), certPEM, 0o644); err != nil { // #nosec G306 -- public certificate
		return nil, fmt.Errorf("failed to write certificate: %w", err)
	}
	if err := os.WriteFile(i.KeyPath(domain), keyPEM, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write certificate key: %w", err)
	}

	return &Certificate{
		CertFile:   i.CertPath(domain),
		KeyFile:    i.KeyPath(domain),
		SelfSigned: true,
		NotAfter:   template.NotAfter,
	}, nil
}
