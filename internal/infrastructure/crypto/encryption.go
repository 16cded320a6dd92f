package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// EncryptionService seals small blobs for storage. The associated data is
// authenticated but not stored; the same value must be passed to Decrypt.
type EncryptionService interface {
	Encrypt(plaintext, associatedData []byte) (ciphertext, iv string, err error)
	Decrypt(ciphertext, iv string, associatedData []byte) ([]byte, error)
}

type AESEncryptionService struct {
	aead cipher.AEAD
}

// NewAESEncryptionService builds an AES-256-GCM service from a 64 character
// hex key.
func NewAESEncryptionService(hexKey string) (*AESEncryptionService, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, errors.New("invalid encryption key format")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESEncryptionService{aead: aead}, nil
}

func (s *AESEncryptionService) Encrypt(plaintext, associatedData []byte) (string, string, error) {
	iv := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", "", err
	}

	ciphertext := s.aead.Seal(nil, iv, plaintext, associatedData)

	return base64.StdEncoding.EncodeToString(ciphertext),
		base64.StdEncoding.EncodeToString(iv),
		nil
}

func (s *AESEncryptionService) Decrypt(ciphertextB64, ivB64 string, associatedData []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return nil, fmt.Errorf("invalid iv encoding: %w", err)
	}
	if len(iv) != s.aead.NonceSize() {
		return nil, errors.New("invalid iv length")
	}

	return s.aead.Open(nil, iv, ciphertext, associatedData)
}
