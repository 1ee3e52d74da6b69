package icap

import (
	"fmt"
	"strings"

	"github.com/umbracle/ethgo"
)

// Form classifies a valid identifier.
type Form uint8

const (
	// FormInvalid is the form of the zero Identifier.
	FormInvalid Form = iota
	// FormDirect carries a base-36 encoded address (34 or 35 characters).
	FormDirect
	// FormIndirect carries asset, institution and client fields (20 characters).
	FormIndirect
)

func (f Form) String() string {
	switch f {
	case FormDirect:
		return "direct"
	case FormIndirect:
		return "indirect"
	default:
		return "invalid"
	}
}

// Identifier is a validated, normalized ICAP string. The zero value is not a
// valid identifier; obtain one from Parse or Encode.
type Identifier struct {
	value string
	form  Form
}

// Parse normalizes raw and returns the identifier it denotes. Failures are
// *ParseError values wrapping ErrStructuralMismatch or ErrChecksumMismatch.
func Parse(raw string, opts ...Option) (Identifier, error) {
	return classify(raw, opts...)
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(raw string) Identifier {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the normalized identifier.
func (id Identifier) String() string {
	return id.value
}

// Form returns the layout of the identifier.
func (id Identifier) Form() Form {
	return id.form
}

// IsZero reports whether id is the zero value.
func (id Identifier) IsZero() bool {
	return id.form == FormInvalid
}

// IsDirect reports whether id encodes an address.
func (id Identifier) IsDirect() bool {
	return id.form == FormDirect
}

// IsIndirect reports whether id carries institution and client fields.
func (id Identifier) IsIndirect() bool {
	return id.form == FormIndirect
}

// Prefix returns the two-letter marker.
func (id Identifier) Prefix() string {
	if id.IsZero() {
		return ""
	}
	return id.value[:2]
}

// CheckDigits returns the two check digits.
func (id Identifier) CheckDigits() string {
	if id.IsZero() {
		return ""
	}
	return id.value[2:4]
}

// ToAddress decodes a direct identifier. See Decode.
func (id Identifier) ToAddress() (ethgo.Address, error) {
	return Decode(id)
}

// PrintFormat groups the identifier in blocks of four characters, the way
// IBANs are printed on paper.
func (id Identifier) PrintFormat() string {
	var b strings.Builder
	for i := 0; i < len(id.value); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + 4
		if end > len(id.value) {
			end = len(id.value)
		}
		b.WriteString(id.value[i:end])
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler. The zero Identifier has no
// text form.
func (id Identifier) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("%w: zero identifier", ErrStructuralMismatch)
	}
	return []byte(id.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is validated.
func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
