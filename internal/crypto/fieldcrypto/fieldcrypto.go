// Package fieldcrypto encrypts sensitive record fields at the persistence
// boundary. AES-256-GCM with a random nonce, base64 wire form; the key is
// derived from operator-supplied key material with Argon2id.
package fieldcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/vrushal09/passnext/internal/model"
)

// KeyLen is the AES-256 key size.
const KeyLen = 32

// Argon2id parameters for key derivation.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// DeriveKey derives a 32-byte AES key from key material and salt using Argon2id.
func DeriveKey(material, salt []byte) []byte {
	return argon2.IDKey(material, salt, argonTime, argonMemory, argonThreads, KeyLen)
}

// Cryptor seals and opens record fields with a fixed key.
type Cryptor struct {
	aead cipher.AEAD
}

// New constructs a Cryptor from a 32-byte key.
func New(key []byte) (*Cryptor, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("field key must be exactly %d bytes, got %d", KeyLen, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cryptor{aead: aead}, nil
}

// EncryptField seals plaintext and returns base64(nonce || ciphertext).
func (c *Cryptor) EncryptField(plaintext string) (string, error) {
	nonce, err := RandBytes(c.aead.NonceSize())
	if err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField reverses EncryptField.
func (c *Cryptor) DecryptField(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode field ciphertext: %w", err)
	}
	n := c.aead.NonceSize()
	if len(sealed) < n {
		return "", errors.New("field ciphertext too short")
	}
	plain, err := c.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// EncryptRecord seals Secret and Notes in place for persistence.
func (c *Cryptor) EncryptRecord(rec *model.PasswordRecord) error {
	secret, err := c.EncryptField(rec.Secret)
	if err != nil {
		return err
	}
	notes, err := c.EncryptField(rec.Notes)
	if err != nil {
		return err
	}
	rec.Secret, rec.Notes = secret, notes
	return nil
}

// DecryptRecord reverses EncryptRecord after loading.
func (c *Cryptor) DecryptRecord(rec *model.PasswordRecord) error {
	secret, err := c.DecryptField(rec.Secret)
	if err != nil {
		return err
	}
	notes, err := c.DecryptField(rec.Notes)
	if err != nil {
		return err
	}
	rec.Secret, rec.Notes = secret, notes
	return nil
}
