package cryptox

import (
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for the passphrase KEK. Changing these invalidates
// every wrapped key already on disk, so they are fixed.
const (
	kekTime    = 1
	kekMemory  = 64 * 1024
	kekThreads = 4
)

// SaltSize is the length of the random salt stored next to a wrapped key.
const SaltSize = 16

// DeriveKEK derives a key-encryption key from a passphrase and salt using
// argon2id.
func DeriveKEK(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, kekTime, kekMemory, kekThreads, KeySize)
}

// WrapKey encrypts the device key under the KEK. The result embeds its
// nonce and authentication tag, so UnwrapKey detects a wrong passphrase.
func WrapKey(kek, key []byte) ([]byte, error) {
	c, err := NewAESGCM(kek)
	if err != nil {
		return nil, err
	}
	return c.Encrypt(key)
}

// UnwrapKey reverses WrapKey. A wrong passphrase surfaces as
// common.ErrAuthenticationFailed from the AEAD open.
func UnwrapKey(kek, wrapped []byte) ([]byte, error) {
	c, err := NewAESGCM(kek)
	if err != nil {
		return nil, err
	}
	return c.Decrypt(wrapped)
}
