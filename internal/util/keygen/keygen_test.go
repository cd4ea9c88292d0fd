package keygen

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/curve25519"
)

func TestGenerateX25519(t *testing.T) {
	pair, err := GenerateX25519()
	require.NoError(t, err)

	priv, err := base64.RawURLEncoding.DecodeString(pair.Private)
	require.NoError(t, err)
	require.Len(t, priv, curve25519.ScalarSize)

	// Clamped per RFC 7748.
	assert.Zero(t, priv[0]&7)
	assert.Zero(t, priv[31]&128)
	assert.NotZero(t, priv[31]&64)

	// The public key is derivable from the private scalar.
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	require.NoError(t, err)
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(pub), pair.Public)
}

func TestGenerateX25519_PairsDiffer(t *testing.T) {
	a, err := GenerateX25519()
	require.NoError(t, err)
	b, err := GenerateX25519()
	require.NoError(t, err)
	assert.NotEqual(t, a.Private, b.Private)
}

func TestShortID(t *testing.T) {
	id, err := ShortID(4)
	require.NoError(t, err)
	assert.Len(t, id, 8)

	for _, n := range []int{0, 9, -1} {
		_, err := ShortID(n)
		assert.Error(t, err, "length %d", n)
	}
}

func TestShortIDs_Distinct(t *testing.T) {
	ids, err := ShortIDs(16, 4)
	require.NoError(t, err)
	require.Len(t, ids, 16)

	seen := make(map[string]struct{})
	for _, id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
