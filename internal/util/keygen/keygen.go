package keygen

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// KeyPair holds an X25519 key pair in the URL-safe base64 encoding the
// proxy protocol expects.
type KeyPair struct {
	Private string
	Public  string
}

// GenerateX25519 generates a new X25519 key pair. The private scalar is
// clamped per RFC 7748 before the public key is derived.
func GenerateX25519() (*KeyPair, error) {
	priv := make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(priv); err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}

	return &KeyPair{
		Private: base64.RawURLEncoding.EncodeToString(priv),
		Public:  base64.RawURLEncoding.EncodeToString(pub),
	}, nil
}

// ShortID generates a random hex identifier of n bytes (2n characters).
func ShortID(n int) (string, error) {
	if n < 1 || n > 8 {
		return "", fmt.Errorf("short id length %d out of range", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate short id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ShortIDs generates count distinct short identifiers of n bytes each.
func ShortIDs(count, n int) ([]string, error) {
	seen := make(map[string]struct{}, count)
	ids := make([]string, 0, count)
	for len(ids) < count {
		id, err := ShortID(n)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
