package format_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/payroll-engine/format"
)

func TestAmount_GroupsByLocale(t *testing.T) {
	v := decimal.RequireFromString("1423500")

	assert.Equal(t, "1,423,500", format.Amount(v, "en"))
	assert.Equal(t, "1.423.500", format.Amount(v, "es"))
}

func TestAmount_RoundsToWholeUnits(t *testing.T) {
	assert.Equal(t, "120,998", format.Amount(decimal.RequireFromString("120997.5"), "en"))
	assert.Equal(t, "0", format.Amount(decimal.RequireFromString("0.4"), "en"))
}

func TestCurrency_SymbolPlacement(t *testing.T) {
	v := decimal.RequireFromString("1509620")

	assert.Equal(t, "$1,509,620", format.Currency(v, "en", "USD"))
	assert.Equal(t, "$ 1.509.620", format.Currency(v, "es", "USD"))
}

func TestCurrency_Negative(t *testing.T) {
	got := format.Currency(decimal.RequireFromString("-2500"), "en", "USD")

	assert.Equal(t, "-$2,500", got)
}

func TestCurrency_UnknownCodeUsedVerbatim(t *testing.T) {
	got := format.Currency(decimal.RequireFromString("1000000"), "es", "abcd")

	assert.Equal(t, "ABCD 1.000.000", got)
}

func TestNewFormatter_BadLocaleFallsBack(t *testing.T) {
	f := format.NewFormatter("%%%", "USD")

	assert.NotEmpty(t, f.Amount(decimal.RequireFromString("1000000")))
}
