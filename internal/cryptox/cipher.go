// Package cryptox implements the authenticated encryption used for
// locally-held card payloads, plus the passphrase wrapping of the device
// key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"

	"github.com/saikai-app/cardvault/internal/common"
)

// Cipher encrypts and decrypts opaque byte payloads. Implementations must
// be authenticated: Decrypt fails on tampering or a key mismatch instead of
// returning garbled plaintext.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(blob []byte) ([]byte, error)
}

// KeySize is the required device key length (AES-256).
const KeySize = 32

// AESGCM is the production Cipher: AES-256-GCM with a fresh random nonce
// per call. The nonce is prefixed to the returned blob, so decryption needs
// no state beyond the key.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM builds an AESGCM over a 32-byte key.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrInvalidInput, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCM{aead: aead}, nil
}

func (c *AESGCM) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := common.GenerateRandByteArray(c.aead.NonceSize())
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *AESGCM) Decrypt(blob []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(blob) < nonceSize {
		return nil, fmt.Errorf("%w: blob too short", common.ErrAuthenticationFailed)
	}

	plaintext, err := c.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		// The concrete GCM error is deliberately not wrapped: callers only
		// ever branch on the sentinel.
		return nil, fmt.Errorf("%w: %v", common.ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}

// EncryptJSON serializes v to JSON and encrypts it with c.
func EncryptJSON(c Cipher, v any) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(plaintext)
}

// DecryptJSON decrypts blob with c and unmarshals the plaintext into v.
func DecryptJSON(c Cipher, blob []byte, v any) error {
	plaintext, err := c.Decrypt(blob)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, v)
}
