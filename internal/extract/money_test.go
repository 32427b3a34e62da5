package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney_BrazilianFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"150,00", "150"},
		{"1.234,56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"12.345.678,90", "12345678.9"},
		{"0,01", "0.01"},
	}
	for _, tt := range tests {
		d, ok := ParseMoney(tt.in)
		require.True(t, ok, "ParseMoney(%q)", tt.in)
		assert.Equal(t, tt.want, d.String(), "ParseMoney(%q)", tt.in)
	}
}

func TestParseMoney_USFormat(t *testing.T) {
	d, ok := ParseMoney("1,234.56")
	require.True(t, ok)
	assert.Equal(t, "1234.56", d.String())
}

func TestParseMoney_LoneDotIsThousands(t *testing.T) {
	d, ok := ParseMoney("1.234")
	require.True(t, ok)
	assert.Equal(t, "1234", d.String())
}

func TestParseMoney_Negative(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10,00-", "-10"},
		{"(10,00)", "-10"},
		{"(1.234,56)", "-1234.56"},
	}
	for _, tt := range tests {
		d, ok := ParseMoney(tt.in)
		require.True(t, ok, "ParseMoney(%q)", tt.in)
		assert.Equal(t, tt.want, d.String(), "ParseMoney(%q)", tt.in)
	}
}

func TestParseMoney_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12,34,56", "R$", "--"} {
		_, ok := ParseMoney(in)
		assert.False(t, ok, "ParseMoney(%q) should fail", in)
	}
}

func TestParseMoney_NonBreakingSpace(t *testing.T) {
	d, ok := ParseMoney("R$ 1.234,56")
	require.True(t, ok)
	assert.Equal(t, "1234.56", d.String())
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.5", "1.234,50"},
		{"150", "150,00"},
		{"-1234.56", "-1.234,56"},
		{"0", "0,00"},
		{"1234567.89", "1.234.567,89"},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.in)
		assert.Equal(t, tt.want, FormatBRL(d), "FormatBRL(%s)", tt.in)
	}
}

func TestFormatBRL_RoundTrip(t *testing.T) {
	for _, in := range []string{"1.234,56", "150,00", "12.345.678,90"} {
		d, ok := ParseMoney(in)
		require.True(t, ok)
		assert.Equal(t, in, FormatBRL(d))
	}
}

func TestBRLVariants(t *testing.T) {
	d := decimal.RequireFromString("1234.56")
	assert.Equal(t, []string{"1.234,56", "1234,56"}, brlVariants(&d))

	small := decimal.RequireFromString("150")
	assert.Equal(t, []string{"150,00"}, brlVariants(&small))

	assert.Nil(t, brlVariants(nil))
}
