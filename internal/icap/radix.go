package icap

import (
	"fmt"
	"math/big"
	"strings"
)

// formatPadded renders n in the given base (2, 16 or 36) using lower-case
// digits, left padded with '0' to exactly width characters. Renderings wider
// than width are rejected rather than truncated.
func formatPadded(n *big.Int, base, width int) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	if n.Sign() < 0 {
		return "", fmt.Errorf("icap: negative value %s", n)
	}

	s := n.Text(base)
	if len(s) > width {
		return "", fmt.Errorf("%w: %d digits in base %d, width %d", ErrPaddingOverflow, len(s), base, width)
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}

// parseRadix parses an unsigned number in the given base. Only the
// characters 0-9, a-z and A-Z are accepted, never a sign.
func parseRadix(s string, base int) (*big.Int, error) {
	if err := checkBase(base); err != nil {
		return nil, err
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty number", ErrInvalidCharacter)
	}
	for i := 0; i < len(s); i++ {
		if digitValue(s[i]) >= base {
			return nil, fmt.Errorf("%w %q at position %d for base %d", ErrInvalidCharacter, s[i], i, base)
		}
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a base %d number", ErrInvalidCharacter, s, base)
	}
	return n, nil
}

func checkBase(base int) error {
	switch base {
	case 2, 16, 36:
		return nil
	default:
		return fmt.Errorf("icap: unsupported base %d", base)
	}
}

// digitValue returns the value of c as a base-36 digit, or 36 if c is not one.
func digitValue(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case isUpper(c):
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	default:
		return 36
	}
}
