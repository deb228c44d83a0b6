// Package randgen backs the random subcommands: uniform integers, random
// strings over a chosen alphabet, and UUIDs.
package randgen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Charset names a string-generation alphabet.
type Charset string

const (
	Alphanumeric Charset = "alphanumeric"
	Letters      Charset = "letters"
	Digits       Charset = "digits"
	Hex          Charset = "hex"
)

var charsets = map[Charset]string{
	Alphanumeric: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
	Letters:      "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	Digits:       "0123456789",
	Hex:          "0123456789abcdef",
}

// ParseCharset resolves a case-insensitive charset name.
func ParseCharset(name string) (Charset, error) {
	c := Charset(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := charsets[c]; !ok {
		return "", fmt.Errorf("unknown charset %q (use alphanumeric, letters, digits, or hex)", name)
	}
	return c, nil
}

// Number returns a uniform random integer in [min, max].
func Number(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("min %d is greater than max %d", min, max)
	}
	if min == max {
		return min, nil
	}
	return min + rand.Int64N(max-min+1), nil
}

// String returns a random string of length n over the charset.
func String(n int, charset Charset) (string, error) {
	alphabet, ok := charsets[charset]
	if !ok {
		return "", fmt.Errorf("unknown charset %q", charset)
	}
	if n < 0 {
		return "", fmt.Errorf("negative length %d", n)
	}

	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String(), nil
}

// UUID returns a random (version 4) UUID string.
func UUID() string {
	return uuid.New().String()
}
