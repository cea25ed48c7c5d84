package cryptox

import (
	"encoding/base64"
	"fmt"

	"github.com/saikai-app/cardvault/internal/common"
)

// Base64Codec is a reversible encoding stand-in with no confidentiality
// whatsoever. It exists so platform bring-up and tests can run where no
// AEAD primitive is wired yet.
//
// It must never be reachable in a release build: the app bootstrap refuses
// to select it unless the binary is a dev build AND the insecure-cipher
// config flag is set.
type Base64Codec struct{}

func (Base64Codec) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(plaintext)))
	base64.StdEncoding.Encode(out, plaintext)
	return out, nil
}

func (Base64Codec) Decrypt(blob []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(blob)))
	n, err := base64.StdEncoding.Decode(out, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuthenticationFailed, err)
	}
	return out[:n], nil
}
