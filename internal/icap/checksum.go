package icap

import (
	"fmt"
	"strconv"
	"strings"
)

// headLength is the number of leading characters (prefix and check digits)
// moved to the end of the digit stream.
const headLength = 4

// DigitStream rearranges s into the all-decimal string fed to Mod97.
//
// Spaces are removed, the first four characters are moved to the end, and
// every character is replaced by its value: digits map to themselves and
// upper-case letters map to 10..35. Lower-case input is not folded here;
// callers normalize first.
func DigitStream(s string) (string, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) < headLength {
		return "", fmt.Errorf("%w: need at least %d characters, got %d", ErrStructuralMismatch, headLength, len(s))
	}

	rotated := s[headLength:] + s[:headLength]

	var b strings.Builder
	b.Grow(len(rotated) * 2)
	for i := 0; i < len(rotated); i++ {
		c := rotated[i]
		switch {
		case isDigit(c):
			b.WriteByte(c)
		case isUpper(c):
			b.WriteString(strconv.Itoa(int(c-'A') + 10))
		default:
			return "", fmt.Errorf("%w %q at position %d", ErrInvalidCharacter, c, i)
		}
	}
	return b.String(), nil
}

// Mod97 reduces a decimal digit string modulo 97 one digit at a time,
// which is equivalent to reducing the full arbitrary precision integer.
func Mod97(digits string) (int, error) {
	acc := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if !isDigit(c) {
			return 0, fmt.Errorf("%w %q at position %d", ErrInvalidCharacter, c, i)
		}
		acc = (acc*10 + int(c-'0')) % 97
	}
	return acc, nil
}

// checksum returns Mod97(DigitStream(s)).
func checksum(s string) (int, error) {
	digits, err := DigitStream(s)
	if err != nil {
		return 0, err
	}
	return Mod97(digits)
}

// CheckDigitsFor computes the two check digits for body, which must be the
// identifier without prefix and check digits. The returned digits make the
// residue of Prefix+digits+body equal to 1.
func CheckDigitsFor(body string) (string, error) {
	remainder, err := checksum(Prefix + "00" + body)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d", 98-remainder), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isAlnum(c byte) bool {
	return isDigit(c) || isUpper(c)
}
