package icap

import (
	"fmt"

	"github.com/umbracle/fastrlp"
)

// MarshalRLPWith encodes the identifier as an RLP byte string.
func (id Identifier) MarshalRLPWith(a *fastrlp.Arena) *fastrlp.Value {
	return a.NewCopyBytes([]byte(id.value))
}

// MarshalRLPTo appends the RLP encoding of the identifier to dst.
func (id Identifier) MarshalRLPTo(dst []byte) ([]byte, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("%w: zero identifier", ErrStructuralMismatch)
	}

	a := fastrlp.DefaultArenaPool.Get()
	defer fastrlp.DefaultArenaPool.Put(a)

	return id.MarshalRLPWith(a).MarshalTo(dst), nil
}

// UnmarshalRLP decodes and validates an RLP encoded identifier.
func (id *Identifier) UnmarshalRLP(buf []byte) error {
	p := fastrlp.DefaultParserPool.Get()
	defer fastrlp.DefaultParserPool.Put(p)

	v, err := p.Parse(buf)
	if err != nil {
		return fmt.Errorf("icap: decode rlp: %w", err)
	}
	return id.UnmarshalRLPFrom(v)
}

// UnmarshalRLPFrom decodes an identifier from an already parsed RLP value.
func (id *Identifier) UnmarshalRLPFrom(v *fastrlp.Value) error {
	b, err := v.Bytes()
	if err != nil {
		return fmt.Errorf("icap: decode rlp: %w", err)
	}

	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
