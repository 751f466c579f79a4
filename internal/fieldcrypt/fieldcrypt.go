// Package fieldcrypt encrypts individual sensitive columns (TIN fields) at
// the storage boundary: encrypt on write, decrypt on read.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// Codec performs AES-GCM encryption of short string values.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 256-bit key from the configured secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("fieldcrypt: secret is required")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

// Encrypt returns the base64 ciphertext of plain. Empty input stays empty.
func (c *Codec) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Undecryptable input yields an empty string
// rather than an error so a lost or rotated key never breaks reads.
func (c *Codec) Decrypt(encoded string) string {
	if encoded == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return ""
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return ""
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return ""
	}
	return string(plain)
}
