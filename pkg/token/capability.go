package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
)

// CapabilityCodec seals and opens opaque capability strings with
// authenticated symmetric encryption. The plaintext stays hidden from the
// holder, not just tamper-evident: knowledge of the link grants nothing by
// itself, the redeeming endpoint still checks the caller's identity against
// the embedded principal.
//
// The codec itself enforces no expiry; payloads carry their own (see
// payload.go).
type CapabilityCodec struct {
	aead cipher.AEAD
}

// NewCapabilityCodec builds a codec from a 16, 24 or 32 byte key
// (AES-128/192/256 respectively, in GCM mode).
func NewCapabilityCodec(key []byte) (*CapabilityCodec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &CapabilityCodec{aead: aead}, nil
}

// Seal encrypts a short string into a URL-safe token. A fresh random nonce
// is prepended to the ciphertext, so sealing the same plaintext twice
// yields different tokens.
func (c *CapabilityCodec) Seal(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts and authenticates a token produced by Seal. Malformed
// input, a wrong key or any integrity failure all yield ErrInvalidToken.
func (c *CapabilityCodec) Open(tokenString string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(tokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrInvalidToken
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	return string(plaintext), nil
}
