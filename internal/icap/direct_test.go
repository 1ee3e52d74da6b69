package icap

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umbracle/ethgo"
)

var directVectors = []struct {
	name    string
	address string
	icap    string
}{
	{"zero prefix", "0x00c5496aee77c1ba1f0854206a26dda82a81d6d8", "XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS"},
	{"double zero prefix", "0x0000a5327eab78357cbf2ae8f3d49fd9d90c7d22", "XE0600DQK33XDTYUCRI0KYM5ELAKXDWWF6"},
	{"zero address", "0x0000000000000000000000000000000000000000", "XE50000000000000000000000000000000"},
	{"one", "0x0000000000000000000000000000000000000001", "XE23000000000000000000000000000001"},
	{"largest encodable", "0x088f924eeceeda7fe92e1f5b0fffffffffffffff", "XE43ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ"},
}

func TestEncode_Vectors(t *testing.T) {
	for _, tt := range directVectors {
		t.Run(tt.name, func(t *testing.T) {
			addr := ethgo.HexToAddress(tt.address)
			require.True(t, CanEncode(addr))

			id, err := Encode(addr)
			require.NoError(t, err)
			assert.Equal(t, tt.icap, id.String())
			assert.Len(t, id.String(), 34)
			assert.Equal(t, FormDirect, id.Form())
		})
	}
}

func TestDecode_Vectors(t *testing.T) {
	vectors := append([]struct {
		name    string
		address string
		icap    string
	}{
		{"35 characters", "0x52dc504a422f0e2a9e7632a34a50f1a82f8224c7", "XE499OG1EH8ZZI0KXC6N83EKGT1BM97P2O7"},
		{"35 characters second", "0x11c5496aee77c1ba1f0854206a26dda82a81d6d8", "XE1222Q908LN1QBBU6XUQSO1OHWJIOS46OO"},
	}, directVectors...)

	for _, tt := range vectors {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.icap)
			require.NoError(t, err)

			addr, err := id.ToAddress()
			require.NoError(t, err)
			assert.Equal(t, ethgo.HexToAddress(tt.address), addr)
		})
	}
}

func TestEncode_NonEncodable(t *testing.T) {
	for _, hexAddr := range []string{
		"0x088f924eeceeda7fe92e1f5b1000000000000000",
		"0x52dc504a422f0e2a9e7632a34a50f1a82f8224c7",
		"0xffffffffffffffffffffffffffffffffffffffff",
	} {
		addr := ethgo.HexToAddress(hexAddr)
		assert.False(t, CanEncode(addr), hexAddr)

		id, err := Encode(addr)
		assert.ErrorIs(t, err, ErrNonEncodable, hexAddr)
		assert.True(t, id.IsZero())
	}
}

func TestDecode_PayloadWiderThanAddress(t *testing.T) {
	id, err := Parse("XE00"+strings.Repeat("Z", 31), WithoutChecksum())
	require.NoError(t, err)

	_, err = Decode(id)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecode_RequiresDirectForm(t *testing.T) {
	_, err := Decode(MustParse("XE81ETHXREGGAVOFYORK"))
	assert.ErrorIs(t, err, ErrNotDirect)

	_, err = Decode(Identifier{})
	assert.ErrorIs(t, err, ErrNotDirect)
}

func TestEncode_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(97))

	encodable := 0
	for i := 0; i < 500; i++ {
		var addr ethgo.Address
		rng.Read(addr[:])
		if i%2 == 0 {
			// keep the value below 36^30 so half of the samples are encodable
			addr[0] &= 0x07
		}

		if !CanEncode(addr) {
			_, err := Encode(addr)
			assert.ErrorIs(t, err, ErrNonEncodable)
			continue
		}
		encodable++

		id, err := Encode(addr)
		require.NoError(t, err)

		again, err := Encode(addr)
		require.NoError(t, err)
		assert.Equal(t, id, again, "encode must be deterministic")

		assert.True(t, IsValid(id.String()))

		remainder, err := checksum(id.String())
		require.NoError(t, err)
		assert.Equal(t, 1, remainder)

		decoded, err := Decode(id)
		require.NoError(t, err)
		assert.Equal(t, addr, decoded)

		reparsed, err := Parse(strings.ToLower(id.PrintFormat()))
		require.NoError(t, err)
		assert.Equal(t, id, reparsed)
	}
	assert.GreaterOrEqual(t, encodable, 250)
}
