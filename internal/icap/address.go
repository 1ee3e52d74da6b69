package icap

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/umbracle/ethgo"
)

// addressHexLength is the number of hex digits in a 20 byte address.
const addressHexLength = 2 * len(ethgo.Address{})

// ParseAddress parses a 40 digit hex address with an optional 0x prefix.
// Unlike ethgo.HexToAddress it never silently accepts malformed input.
func ParseAddress(s string) (ethgo.Address, error) {
	var addr ethgo.Address

	digits := s
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	if len(digits) != addressHexLength {
		return addr, fmt.Errorf("%w: expected %d hex digits, got %d", ErrInvalidAddress, addressHexLength, len(digits))
	}

	b, err := hex.DecodeString(digits)
	if err != nil {
		return addr, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	copy(addr[:], b)
	return addr, nil
}

// AddressHex renders addr as 40 lower-case hex digits without prefix.
func AddressHex(addr ethgo.Address) string {
	return hex.EncodeToString(addr[:])
}

func addressInt(addr ethgo.Address) *big.Int {
	return new(big.Int).SetBytes(addr[:])
}
