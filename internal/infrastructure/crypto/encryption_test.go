package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewAESEncryptionService(t *testing.T) {
	_, err := NewAESEncryptionService("not-hex")
	assert.EqualError(t, err, "invalid encryption key format")

	_, err = NewAESEncryptionService("0011")
	assert.EqualError(t, err, "encryption key must be 32 bytes (64 hex chars)")

	_, err = NewAESEncryptionService(testKey)
	assert.NoError(t, err)
}

func TestAESEncryptionService_Decrypt(t *testing.T) {
	svc, err := NewAESEncryptionService(testKey)
	require.NoError(t, err)

	ciphertext, iv, err := svc.Encrypt([]byte(`{"default":"card_a"}`), []byte("user-7"))
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "card_a")

	t.Run("same associated data", func(t *testing.T) {
		plaintext, err := svc.Decrypt(ciphertext, iv, []byte("user-7"))
		require.NoError(t, err)
		assert.Equal(t, `{"default":"card_a"}`, string(plaintext))
	})

	t.Run("other user's row", func(t *testing.T) {
		_, err := svc.Decrypt(ciphertext, iv, []byte("user-8"))
		assert.Error(t, err)
	})

	t.Run("bad iv", func(t *testing.T) {
		_, err := svc.Decrypt(ciphertext, "AAAA", []byte("user-7"))
		assert.Error(t, err)
	})

	t.Run("nonce is fresh per call", func(t *testing.T) {
		_, iv2, err := svc.Encrypt([]byte("x"), nil)
		require.NoError(t, err)
		assert.False(t, strings.EqualFold(iv, iv2))
	})
}
