package randgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberBounds(t *testing.T) {
	for range 1000 {
		n, err := Number(10, 20)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(10))
		assert.LessOrEqual(t, n, int64(20))
	}
}

func TestNumberDegenerate(t *testing.T) {
	n, err := Number(7, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = Number(20, 10)
	assert.Error(t, err)
}

func TestStringLengthAndAlphabet(t *testing.T) {
	tests := []struct {
		charset Charset
		allowed string
	}{
		{Digits, "0123456789"},
		{Hex, "0123456789abcdef"},
		{Letters, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"},
	}

	for _, tt := range tests {
		t.Run(string(tt.charset), func(t *testing.T) {
			s, err := String(64, tt.charset)
			require.NoError(t, err)
			assert.Len(t, s, 64)
			for _, r := range s {
				assert.True(t, strings.ContainsRune(tt.allowed, r), "unexpected rune %q", r)
			}
		})
	}
}

func TestStringEmpty(t *testing.T) {
	s, err := String(0, Alphanumeric)
	require.NoError(t, err)
	assert.Empty(t, s)

	_, err = String(-1, Alphanumeric)
	assert.Error(t, err)
}

func TestParseCharset(t *testing.T) {
	c, err := ParseCharset("HEX")
	require.NoError(t, err)
	assert.Equal(t, Hex, c)

	_, err = ParseCharset("emoji")
	assert.Error(t, err)
}

func TestUUID(t *testing.T) {
	u := UUID()
	parsed, err := uuid.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())

	// Two draws should differ.
	assert.NotEqual(t, u, UUID())
}
