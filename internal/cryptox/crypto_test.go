package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("host-secret"), []byte("fixed-salt"))
	k2 := DeriveKey([]byte("host-secret"), []byte("fixed-salt"))

	require.Len(t, k1, KeySize)
	assert.True(t, bytes.Equal(k1, k2))
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	k1 := DeriveKey([]byte("host-secret"), []byte("salt-1"))
	k2 := DeriveKey([]byte("host-secret"), []byte("salt-2"))

	assert.False(t, bytes.Equal(k1, k2))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	ct, nonce, err := Seal(key, []byte("eyJhbGciOi..."))
	require.NoError(t, err)
	assert.NotContains(t, string(ct), "eyJhbGciOi")

	pt, err := Open(key, ct, nonce)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi...", string(pt))
}

func TestSeal_FreshNoncePerCall(t *testing.T) {
	key := DeriveKey([]byte("s"), []byte("salt"))

	_, n1, err := Seal(key, []byte("x"))
	require.NoError(t, err)
	_, n2, err := Seal(key, []byte("x"))
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key := DeriveKey([]byte("right"), []byte("salt"))
	other := DeriveKey([]byte("wrong"), []byte("salt"))

	ct, nonce, err := Seal(key, []byte("token"))
	require.NoError(t, err)

	_, err = Open(other, ct, nonce)
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestOpen_BadNonceFails(t *testing.T) {
	key := DeriveKey([]byte("k"), []byte("salt"))
	ct, _, err := Seal(key, []byte("token"))
	require.NoError(t, err)

	_, err = Open(key, ct, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestSeal_InvalidKeyLength(t *testing.T) {
	_, _, err := Seal([]byte("short"), []byte("x"))
	require.Error(t, err)
}
