package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey("s3cret", "session")
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := DeriveKey("s3cret", "session")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := DeriveKey("s3cret", "report")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = DeriveKey("", "session")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestAESEncryptor_RoundTrip(t *testing.T) {
	enc, err := NewEncryptorFromSecret("s3cret", "session")
	require.NoError(t, err)

	sealed, err := enc.Encrypt([]byte(`{"token":"backend"}`))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "backend")

	again, err := enc.Encrypt([]byte(`{"token":"backend"}`))
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "fresh nonce per message")

	plain, err := enc.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"token":"backend"}`, string(plain))
}

func TestAESEncryptor_Rejects(t *testing.T) {
	_, err := NewAESEncryptor([]byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	enc, err := NewEncryptorFromSecret("s3cret", "session")
	require.NoError(t, err)
	other, err := NewEncryptorFromSecret("other", "session")
	require.NoError(t, err)

	sealed, err := enc.Encrypt([]byte("payload"))
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.ErrorIs(t, err, ErrDecryption)
	_, err = enc.Decrypt([]byte("x"))
	assert.ErrorIs(t, err, ErrDecryption)
}
