package icap

import (
	"errors"
	"fmt"
)

var (
	// ErrStructuralMismatch is returned when the input does not follow the
	// ICAP grammar (length, character classes or layout).
	ErrStructuralMismatch = errors.New("icap: structural mismatch")
	// ErrChecksumMismatch is returned when the grammar matches but the
	// mod-97 residue is not 1.
	ErrChecksumMismatch = errors.New("icap: checksum mismatch")
	// ErrNonEncodable is returned by Encode for addresses whose base-36
	// rendering is wider than the direct payload.
	ErrNonEncodable = errors.New("icap: address cannot be encoded in direct form")
	// ErrMalformedPayload is returned when a direct payload is not a base-36
	// number that fits in 160 bits.
	ErrMalformedPayload = errors.New("icap: malformed direct payload")
	// ErrNotDirect is returned when an address is requested from an indirect identifier.
	ErrNotDirect = errors.New("icap: identifier is not in direct form")
	// ErrInvalidCharacter is returned by the checksum engine for characters
	// outside 0-9 and A-Z.
	ErrInvalidCharacter = errors.New("icap: invalid character")
	// ErrInvalidAddress is returned when a hex address cannot be parsed.
	ErrInvalidAddress = errors.New("icap: invalid address")
	// ErrPaddingOverflow is returned when a value does not fit the requested width.
	ErrPaddingOverflow = errors.New("icap: value exceeds padding width")
)

// ParseError records the input that failed to parse and why.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(input string, err error) error {
	return &ParseError{Input: input, Err: err}
}
