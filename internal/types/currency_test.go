package types

import (
	"testing"

	ierr "github.com/stayquote/stayquote/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetCurrencyPrecision(t *testing.T) {
	assert.Equal(t, int32(0), GetCurrencyPrecision("JPY"))
	assert.Equal(t, int32(0), GetCurrencyPrecision(" krw "))
	assert.Equal(t, int32(0), GetCurrencyPrecision("UGX"))
	assert.Equal(t, int32(2), GetCurrencyPrecision("usd"))
	assert.Equal(t, int32(2), GetCurrencyPrecision("KES"))
}

func TestValidateCurrencyCode(t *testing.T) {
	assert.NoError(t, ValidateCurrencyCode("usd"))
	assert.NoError(t, ValidateCurrencyCode(" EUR "))

	for _, code := range []string{"", "US", "USDT", "U5D"} {
		err := ValidateCurrencyCode(code)
		assert.True(t, ierr.IsValidation(err), "code %q", code)
	}
}

func TestNormalizeCurrencyAndSymbol(t *testing.T) {
	assert.Equal(t, "EUR", NormalizeCurrency(" eur "))
	assert.Equal(t, "€", GetCurrencySymbol("EUR"))
	assert.Equal(t, "XYZ", GetCurrencySymbol("XYZ"))
}
