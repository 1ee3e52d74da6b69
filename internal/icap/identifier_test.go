package icap

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantForm Form
		wantErr  error
	}{
		{name: "direct", input: "XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS", wantForm: FormDirect},
		{name: "direct with leading zeros", input: "XE0600DQK33XDTYUCRI0KYM5ELAKXDWWF6", wantForm: FormDirect},
		{name: "direct 35 characters", input: "XE499OG1EH8ZZI0KXC6N83EKGT1BM97P2O7", wantForm: FormDirect},
		{name: "indirect", input: "XE81ETHXREGGAVOFYORK", wantForm: FormIndirect},
		{name: "lower case with spaces", input: " xe73 38o0 73ky gtww zn0f 2wz0 r8px 5zpp zs ", wantForm: FormDirect},
		{name: "empty", input: "", wantErr: ErrStructuralMismatch},
		{name: "illegal character", input: "XE00INVALID!!", wantErr: ErrStructuralMismatch},
		{name: "wrong check digits", input: "XE7438O073KYGTWWZN0F2WZ0R8PX5ZPPZS", wantErr: ErrChecksumMismatch},
		{name: "changed payload", input: "XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZT", wantErr: ErrChecksumMismatch},
		{name: "indirect wrong check digits", input: "XE82ETHXREGGAVOFYORK", wantErr: ErrChecksumMismatch},
		{name: "foreign prefix", input: "GB82WEST12345698765432", wantErr: ErrStructuralMismatch},
		{name: "iban-like length 20 without asset", input: "XE81BTCXREGGAVOFYORK", wantErr: ErrStructuralMismatch},
		{name: "letters in check digits", input: "XEAB38O073KYGTWWZN0F2WZ0R8PX5ZPPZS", wantErr: ErrStructuralMismatch},
		{name: "too long", input: "XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS00", wantErr: ErrStructuralMismatch},
		{name: "punctuation inside direct", input: "XE7338O073KYGTWWZN0F2WZ0R8PX5ZPP-S", wantErr: ErrStructuralMismatch},
		{name: "non ascii folding is rejected", input: "XE81ETHXREGGAVOFYORı", wantErr: ErrStructuralMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.input, parseErr.Input)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantForm, id.Form())
			assert.Equal(t, Prefix, id.Prefix())
		})
	}
}

func TestParse_SkipChecksum(t *testing.T) {
	_, err := Parse("XE7438O073KYGTWWZN0F2WZ0R8PX5ZPPZS")
	require.ErrorIs(t, err, ErrChecksumMismatch)

	id, err := Parse("XE7438O073KYGTWWZN0F2WZ0R8PX5ZPPZS", WithoutChecksum())
	require.NoError(t, err)
	assert.Equal(t, "74", id.CheckDigits())

	_, err = Parse("XE74!!", WithoutChecksum())
	assert.ErrorIs(t, err, ErrStructuralMismatch)
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("XE00INVALID!!"))
	assert.True(t, IsValid("XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS"))
	assert.False(t, IsValid("XE7438O073KYGTWWZN0F2WZ0R8PX5ZPPZS"))
	assert.True(t, IsValidSkipChecksum("XE7438O073KYGTWWZN0F2WZ0R8PX5ZPPZS"))
	assert.True(t, IsValid("XE81ETHXREGGAVOFYORK"))
	assert.False(t, IsValid("XE82ETHXREGGAVOFYORK"))
}

func TestNormalization(t *testing.T) {
	canonical := MustParse("XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS")
	variants := []string{
		"xe7338o073kygtwwzn0f2wz0r8px5zppzs",
		"XE73 38O0 73KY GTWW ZN0F 2WZ0 R8PX 5ZPP ZS",
		"  Xe7338O073KYGTWWZN0F2WZ0R8PX5ZPPZs  ",
	}
	for _, v := range variants {
		id, err := Parse(v)
		require.NoError(t, err, v)
		assert.Equal(t, canonical, id, v)
		assert.Equal(t, canonical.String(), id.String())
	}
}

func TestFormExclusivity(t *testing.T) {
	indirect := MustParse("XE81ETHXREGGAVOFYORK")
	assert.Len(t, indirect.String(), 20)
	assert.True(t, indirect.IsIndirect())
	assert.False(t, indirect.IsDirect())

	for _, raw := range []string{
		"XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS",
		"XE499OG1EH8ZZI0KXC6N83EKGT1BM97P2O7",
	} {
		direct := MustParse(raw)
		assert.True(t, direct.IsDirect())
		assert.False(t, direct.IsIndirect())

		fields, ok := direct.Indirect()
		assert.False(t, ok)
		assert.Equal(t, IndirectFields{}, fields)
	}
}

func TestIndirectFields(t *testing.T) {
	id := MustParse("xe81 ethx regg avof york")

	fields, ok := id.Indirect()
	require.True(t, ok)
	assert.Equal(t, "ETH", fields.Asset)
	assert.Equal(t, "XREG", fields.Institution)
	assert.Equal(t, "GAVOFYORK", fields.Client)
	assert.Equal(t, "81", id.CheckDigits())

	_, err := id.ToAddress()
	assert.ErrorIs(t, err, ErrNotDirect)
}

func TestZeroIdentifier(t *testing.T) {
	var id Identifier
	assert.True(t, id.IsZero())
	assert.Equal(t, FormInvalid, id.Form())
	assert.Equal(t, "", id.Prefix())
	assert.Equal(t, "", id.CheckDigits())

	_, ok := id.Indirect()
	assert.False(t, ok)

	_, err := id.ToAddress()
	assert.ErrorIs(t, err, ErrNotDirect)

	text, err := id.MarshalText()
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	assert.Nil(t, text)

	_, err = json.Marshal(struct {
		ICAP Identifier `json:"icap"`
	}{})
	assert.ErrorIs(t, err, ErrStructuralMismatch)
}

func TestPrintFormat(t *testing.T) {
	id := MustParse("XE7338O073KYGTWWZN0F2WZ0R8PX5ZPPZS")
	printed := id.PrintFormat()
	assert.Equal(t, "XE73 38O0 73KY GTWW ZN0F 2WZ0 R8PX 5ZPP ZS", printed)

	back, err := Parse(printed)
	require.NoError(t, err)
	assert.Equal(t, id, back)

	assert.Equal(t, "XE81 ETHX REGG AVOF YORK", MustParse("XE81ETHXREGGAVOFYORK").PrintFormat())
}

func TestFormString(t *testing.T) {
	assert.Equal(t, "direct", FormDirect.String())
	assert.Equal(t, "indirect", FormIndirect.String())
	assert.Equal(t, "invalid", FormInvalid.String())
}

func TestIdentifier_JSON(t *testing.T) {
	type payload struct {
		ICAP Identifier `json:"icap"`
	}

	data, err := json.Marshal(payload{ICAP: MustParse("xe81ethxreggavofyork")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"icap":"XE81ETHXREGGAVOFYORK"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"icap":"XE0600DQK33XDTYUCRI0KYM5ELAKXDWWF6"}`), &decoded))
	assert.True(t, decoded.ICAP.IsDirect())

	err = json.Unmarshal([]byte(`{"icap":"XE0700DQK33XDTYUCRI0KYM5ELAKXDWWF6"}`), &decoded)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestParseError_Message(t *testing.T) {
	_, err := Parse("XE00")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), `"XE00"`), err.Error())
	assert.True(t, strings.HasPrefix(err.Error(), "icap: structural mismatch"), err.Error())
}
