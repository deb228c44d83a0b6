// Package cipher implements the caesar subcommand.
package cipher

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const alphabetLen = 26

// Caesar shifts ASCII letters by a fixed offset. Input is transliterated to
// ASCII first so accented letters participate in the rotation.
type Caesar struct {
	Shift int
}

// Encrypt rotates letters forward by the shift.
func (c Caesar) Encrypt(value string) string {
	return rotate(value, c.Shift)
}

// Decrypt rotates letters backward by the shift.
func (c Caesar) Decrypt(value string) string {
	return rotate(value, -c.Shift)
}

func rotate(value string, shift int) string {
	value = unidecode.Unidecode(value)

	// Normalize into [0, 26) so negative shifts work.
	k := byte(((shift % alphabetLen) + alphabetLen) % alphabetLen)

	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteByte('a' + (ch-'a'+k)%alphabetLen)
		case ch >= 'A' && ch <= 'Z':
			b.WriteByte('A' + (ch-'A'+k)%alphabetLen)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
