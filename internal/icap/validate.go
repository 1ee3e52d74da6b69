package icap

import (
	"fmt"
	"strings"
)

const (
	// Prefix is the reserved two-letter marker of the ICAP namespace.
	Prefix = "XE"
	// AssetEth is the asset code every indirect identifier carries.
	AssetEth = "ETH"

	indirectLength     = 20
	directLength       = 34
	directLengthLegacy = 35
)

type options struct {
	skipChecksum bool
}

// Option tunes validation.
type Option func(*options)

// WithoutChecksum validates the grammar only.
func WithoutChecksum() Option {
	return func(o *options) {
		o.skipChecksum = true
	}
}

// Normalize removes spaces and folds ASCII letters to upper case.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return -1
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		default:
			return r
		}
	}, raw)
}

// Validate reports why raw is not a valid identifier, or nil if it is.
func Validate(raw string, opts ...Option) error {
	_, err := classify(raw, opts...)
	return err
}

// IsValid reports whether raw is a well-formed identifier with a correct checksum.
func IsValid(raw string) bool {
	return Validate(raw) == nil
}

// IsValidSkipChecksum reports whether raw matches the grammar, ignoring check digits.
func IsValidSkipChecksum(raw string) bool {
	return Validate(raw, WithoutChecksum()) == nil
}

// classify normalizes raw, runs the scanner and verifies the checksum.
func classify(raw string, opts ...Option) (Identifier, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	normalized := Normalize(raw)
	form, err := scan(normalized)
	if err != nil {
		return Identifier{}, parseError(raw, err)
	}

	if !o.skipChecksum && normalized[:2] == Prefix {
		remainder, err := checksum(normalized)
		if err != nil {
			return Identifier{}, parseError(raw, err)
		}
		if remainder != 1 {
			return Identifier{}, parseError(raw, fmt.Errorf("%w: residue %d", ErrChecksumMismatch, remainder))
		}
	}

	return Identifier{value: normalized, form: form}, nil
}

// scan checks the fixed-position grammar of a normalized identifier:
//
//	XE DD ETH ALNUM{13}   length 20, indirect
//	XE DD ALNUM{30,31}    length 34 or 35, direct
func scan(s string) (Form, error) {
	var form Form
	switch len(s) {
	case indirectLength:
		form = FormIndirect
	case directLength, directLengthLegacy:
		form = FormDirect
	default:
		return FormInvalid, fmt.Errorf("%w: length %d", ErrStructuralMismatch, len(s))
	}

	if s[:2] != Prefix {
		return FormInvalid, fmt.Errorf("%w: prefix %q", ErrStructuralMismatch, s[:2])
	}
	if !isDigit(s[2]) || !isDigit(s[3]) {
		return FormInvalid, fmt.Errorf("%w: check digits %q", ErrStructuralMismatch, s[2:4])
	}

	body := s[4:]
	if form == FormIndirect {
		if body[:3] != AssetEth {
			return FormInvalid, fmt.Errorf("%w: asset %q", ErrStructuralMismatch, body[:3])
		}
		body = body[3:]
	}
	for i := 0; i < len(body); i++ {
		if !isAlnum(body[i]) {
			return FormInvalid, fmt.Errorf("%w: character %q at position %d", ErrStructuralMismatch, body[i], len(s)-len(body)+i)
		}
	}
	return form, nil
}
