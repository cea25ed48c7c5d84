package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikai-app/cardvault/internal/common"
)

func newCipher(t *testing.T) (*AESGCM, []byte) {
	t.Helper()
	key := common.GenerateRandByteArray(KeySize)
	c, err := NewAESGCM(key)
	require.NoError(t, err)
	return c, key
}

func TestNewAESGCM_RejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33} {
		_, err := NewAESGCM(make([]byte, n))
		assert.ErrorIs(t, err, common.ErrInvalidInput, "key length %d", n)
	}
}

func TestAESGCM_RoundTrip(t *testing.T) {
	c, _ := newCipher(t)

	plaintext := []byte(`{"value":"090-1234-5678"}`)
	blob, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, blob)

	got, err := c.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESGCM_FreshNoncePerCall(t *testing.T) {
	c, _ := newCipher(t)

	a, err := c.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a, b), "two encryptions of the same plaintext must differ")
}

func TestAESGCM_TamperDetected(t *testing.T) {
	c, _ := newCipher(t)

	blob, err := c.Encrypt([]byte("payload"))
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0x01
	_, err = c.Decrypt(blob)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestAESGCM_WrongKeyFails(t *testing.T) {
	// A card produced on device A must be unreadable on device B. There is
	// no key export path, so a different key must fail the integrity check,
	// never return plausible plaintext.
	deviceA, _ := newCipher(t)
	deviceB, _ := newCipher(t)

	blob, err := deviceA.Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = deviceB.Decrypt(blob)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestAESGCM_TruncatedBlob(t *testing.T) {
	c, _ := newCipher(t)
	_, err := c.Decrypt([]byte{1, 2, 3})
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestEncryptDecryptJSON_RoundTrip(t *testing.T) {
	c, _ := newCipher(t)

	type payload struct {
		Value string `json:"value"`
		Notes string `json:"notes"`
	}
	in := payload{Value: "tokyo-shibuya", Notes: "met at the station"}

	blob, err := EncryptJSON(c, in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, DecryptJSON(c, blob, &out))
	assert.Equal(t, in, out)
}

func TestBase64Codec_RoundTripButNotConfidential(t *testing.T) {
	c := Base64Codec{}

	blob, err := c.Encrypt([]byte("visible"))
	require.NoError(t, err)

	got, err := c.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("visible"), got)
}

func TestBase64Codec_InvalidBlob(t *testing.T) {
	c := Base64Codec{}
	_, err := c.Decrypt([]byte("%%%not-base64%%%"))
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestKeyWrap_RoundTrip(t *testing.T) {
	passphrase := []byte("correct horse battery staple")
	salt := common.GenerateRandByteArray(SaltSize)
	key := common.GenerateRandByteArray(KeySize)

	kek := DeriveKEK(passphrase, salt)
	wrapped, err := WrapKey(kek, key)
	require.NoError(t, err)
	assert.False(t, bytes.Equal(wrapped, key))

	got, err := UnwrapKey(kek, wrapped)
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestKeyWrap_WrongPassphraseFails(t *testing.T) {
	salt := common.GenerateRandByteArray(SaltSize)
	key := common.GenerateRandByteArray(KeySize)

	wrapped, err := WrapKey(DeriveKEK([]byte("right"), salt), key)
	require.NoError(t, err)

	_, err = UnwrapKey(DeriveKEK([]byte("wrong"), salt), wrapped)
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestDeriveKEK_DeterministicPerSalt(t *testing.T) {
	pass := []byte("passphrase")
	salt := common.GenerateRandByteArray(SaltSize)

	assert.Equal(t, DeriveKEK(pass, salt), DeriveKEK(pass, salt))
	assert.NotEqual(t, DeriveKEK(pass, salt), DeriveKEK(pass, common.GenerateRandByteArray(SaltSize)))
}
