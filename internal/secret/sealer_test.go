package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	sealer, err := NewSealer("key-material")
	require.NoError(t, err)

	sealed, err := sealer.Seal([]byte("ghp_secret"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "ghp_secret")

	again, err := sealer.Seal([]byte("ghp_secret"))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", string(opened))
}

func TestSealer_Open_Rejects(t *testing.T) {
	sealer, err := NewSealer("key-material")
	require.NoError(t, err)
	other, err := NewSealer("different-material")
	require.NoError(t, err)

	sealed, err := sealer.Seal([]byte("ghp_secret"))
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrMalformed)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	_, err = sealer.Open(tampered)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = sealer.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewSealer_EmptyKey(t *testing.T) {
	_, err := NewSealer("")
	assert.ErrorIs(t, err, ErrEmptyKey)
}
