package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *CardCipher {
	t.Helper()
	c, err := NewCardCipher(bytes.Repeat([]byte("k"), 32), bytes.Repeat([]byte("i"), 16))
	require.NoError(t, err)
	return c
}

func TestCardCipherRoundTrip(t *testing.T) {
	c := testCipher(t)

	for _, plain := range []string{"4111111111111111", "123", "a", "exactly-16-bytes"} {
		enc := c.Encrypt(plain)
		assert.NotEqual(t, plain, enc)
		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		assert.Equal(t, plain, dec)
	}
}

func TestCardCipherDeterministic(t *testing.T) {
	c := testCipher(t)
	// Fixed IV means identical plaintext encrypts identically; stored
	// values stay stable across process restarts.
	assert.Equal(t, c.Encrypt("4111111111111111"), c.Encrypt("4111111111111111"))
}

func TestCardCipherRejectsBadInput(t *testing.T) {
	c := testCipher(t)

	_, err := c.Decrypt("not hex")
	assert.Error(t, err)
	_, err = c.Decrypt("abcdef") // not a whole block
	assert.Error(t, err)
	_, err = c.Decrypt("")
	assert.Error(t, err)
}

func TestNewCardCipherValidatesSizes(t *testing.T) {
	_, err := NewCardCipher([]byte("short"), bytes.Repeat([]byte("i"), 16))
	assert.Error(t, err)
	_, err = NewCardCipher(bytes.Repeat([]byte("k"), 32), []byte("short"))
	assert.Error(t, err)
}
