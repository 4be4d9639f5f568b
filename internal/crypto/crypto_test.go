package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncryptor(t *testing.T) {
	assert.Nil(t, NewEncryptor(""))
	assert.False(t, NewEncryptor("").Enabled())

	enc := NewEncryptor("ledger-passphrase")
	require.NotNil(t, enc)
	assert.True(t, enc.Enabled())
}

func TestEncryptor_RoundTrip(t *testing.T) {
	enc := NewEncryptor("ledger-passphrase")

	for _, plaintext := range []string{
		"+852 9123 4567",
		"",
		"陳大文",
		strings.Repeat("Flat A, 12/F, Block 3, ", 50),
	} {
		sealed, err := enc.Encrypt(plaintext)
		require.NoError(t, err)
		if plaintext != "" {
			assert.NotEqual(t, plaintext, sealed)
		}

		opened, err := enc.Decrypt(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, opened)
	}
}

func TestEncryptor_NilPassesThrough(t *testing.T) {
	var enc *Encryptor

	sealed, err := enc.Encrypt("91234567")
	require.NoError(t, err)
	assert.Equal(t, "91234567", sealed)

	opened, err := enc.Decrypt("91234567")
	require.NoError(t, err)
	assert.Equal(t, "91234567", opened)
}

func TestEncryptor_RejectsForeignValues(t *testing.T) {
	enc := NewEncryptor("ledger-passphrase")

	sealedElsewhere, err := NewEncryptor("another-ledger").Encrypt("secret")
	require.NoError(t, err)

	for name, input := range map[string]string{
		"clear text stored before encryption was enabled": "Chan Tai Man",
		"truncated":            "AAAA",
		"different ledger key": sealedElsewhere,
	} {
		_, err := enc.Decrypt(input)
		assert.ErrorIs(t, err, ErrCiphertext, name)
	}
}

func TestEncryptor_SameKeyAcrossRestarts(t *testing.T) {
	sealed, err := NewEncryptor("ledger-passphrase").Encrypt("91234567")
	require.NoError(t, err)

	opened, err := NewEncryptor("ledger-passphrase").Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "91234567", opened)
}

func TestEncryptor_FreshNoncePerValue(t *testing.T) {
	enc := NewEncryptor("ledger-passphrase")

	a, err := enc.Encrypt("91234567")
	require.NoError(t, err)
	b, err := enc.Encrypt("91234567")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSealOpenFields(t *testing.T) {
	enc := NewEncryptor("ledger-passphrase")

	name, phone, empty := "Chan Tai Man", "91234567", ""
	require.NoError(t, enc.SealFields(&name, &phone, &empty))
	assert.NotEqual(t, "Chan Tai Man", name)
	assert.NotEqual(t, "91234567", phone)
	assert.Empty(t, empty)

	require.NoError(t, enc.OpenFields(&name, &phone, &empty))
	assert.Equal(t, "Chan Tai Man", name)
	assert.Equal(t, "91234567", phone)
}

func TestOpenFields_StopsAtFirstBadField(t *testing.T) {
	enc := NewEncryptor("ledger-passphrase")

	good, err := enc.Encrypt("Chan Tai Man")
	require.NoError(t, err)
	bad := "not sealed"

	err = enc.OpenFields(&good, &bad)
	assert.ErrorIs(t, err, ErrCiphertext)
	assert.Equal(t, "Chan Tai Man", good)
	assert.Equal(t, "not sealed", bad)
}
