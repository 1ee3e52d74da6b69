package icap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/umbracle/ethgo"
)

// directPayloadLength is the width of the base-36 payload produced by Encode.
const directPayloadLength = 30

// CanEncode reports whether addr fits the 30 character direct payload.
func CanEncode(addr ethgo.Address) bool {
	return len(addressInt(addr).Text(36)) <= directPayloadLength
}

// Encode returns the direct identifier of addr. Addresses whose base-36
// rendering needs more than 30 characters fail with ErrNonEncodable.
func Encode(addr ethgo.Address) (Identifier, error) {
	payload, err := formatPadded(addressInt(addr), 36, directPayloadLength)
	if err != nil {
		if errors.Is(err, ErrPaddingOverflow) {
			return Identifier{}, fmt.Errorf("%w: %s: %v", ErrNonEncodable, addr, err)
		}
		return Identifier{}, err
	}
	payload = strings.ToUpper(payload)

	check, err := CheckDigitsFor(payload)
	if err != nil {
		return Identifier{}, err
	}

	return Identifier{value: Prefix + check + payload, form: FormDirect}, nil
}

// Decode returns the address carried by a direct identifier.
func Decode(id Identifier) (ethgo.Address, error) {
	if id.form != FormDirect {
		return ethgo.Address{}, fmt.Errorf("%w: %s form", ErrNotDirect, id.form)
	}

	payload := id.value[headLength:]
	n, err := parseRadix(payload, 36)
	if err != nil {
		return ethgo.Address{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	hexAddr, err := formatPadded(n, 16, addressHexLength)
	if err != nil {
		return ethgo.Address{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return ParseAddress(hexAddr)
}
