package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *Keycipher {
	c, err := NewKeycipher(strings.Repeat("ab", 32))
	require.Nil(t, err)
	return c
}

func TestKeycipherRoundTrip(t *testing.T) {
	t.Parallel()

	c := testCipher(t)
	sealed, err := c.Seal([]byte("0xdeadbeef"))
	require.Nil(t, err)
	require.NotContains(t, hex.EncodeToString(sealed), hex.EncodeToString([]byte("0xdeadbeef")))

	plain, err := c.Open(sealed)
	require.Nil(t, err)
	require.Equal(t, "0xdeadbeef", string(plain))
}

func TestKeycipherNoncesDiffer(t *testing.T) {
	t.Parallel()

	c := testCipher(t)
	a, err := c.Seal([]byte("same"))
	require.Nil(t, err)
	b, err := c.Seal([]byte("same"))
	require.Nil(t, err)
	require.NotEqual(t, a, b)
}

func TestKeycipherRejectsTamperedBlob(t *testing.T) {
	t.Parallel()

	c := testCipher(t)
	sealed, err := c.Seal([]byte("secret"))
	require.Nil(t, err)

	sealed[len(sealed)-1] ^= 0xFF
	_, err = c.Open(sealed)
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestKeycipherRejectsShortBlob(t *testing.T) {
	t.Parallel()

	c := testCipher(t)
	_, err := c.Open([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestKeycipherRejectsWrongKey(t *testing.T) {
	t.Parallel()

	c := testCipher(t)
	sealed, err := c.Seal([]byte("secret"))
	require.Nil(t, err)

	other, err := NewKeycipher(strings.Repeat("cd", 32))
	require.Nil(t, err)
	_, err = other.Open(sealed)
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestNewKeycipherValidatesKey(t *testing.T) {
	t.Parallel()

	_, err := NewKeycipher("zzzz")
	require.ErrorIs(t, err, ErrCipherKey)

	_, err = NewKeycipher("abcd")
	require.ErrorIs(t, err, ErrCipherKey)
}
