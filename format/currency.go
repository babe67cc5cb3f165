// Package format renders engine amounts for people. The engine itself
// returns bare decimals; only collaborators at the edge format them.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when a locale tag does not parse.
const DefaultLocale = "es-CO"

// Formatter renders whole currency amounts in one locale and currency.
// It holds no mutable state and may be shared.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	symbol  string
}

// NewFormatter builds a formatter for a BCP 47 locale and an ISO 4217 code.
// A malformed locale falls back to DefaultLocale; an unknown code is used
// verbatim as the symbol.
func NewFormatter(locale, code string) *Formatter {
	tag := parseLocale(locale)
	p := message.NewPrinter(tag)

	symbol := strings.ToUpper(strings.TrimSpace(code))
	if unit, err := currency.ParseISO(code); err == nil {
		symbol = p.Sprint(currency.NarrowSymbol(unit))
	}
	return &Formatter{tag: tag, printer: p, symbol: symbol}
}

// Amount groups digits the way the locale does: 1,423,500 or 1.423.500.
// The value is rounded to whole units first, half away from zero.
func (f *Formatter) Amount(v decimal.Decimal) string {
	return f.printer.Sprintf("%d", v.Round(0).IntPart())
}

// Currency renders v with the currency symbol. English places the symbol
// against the digits ("$1,423,500"); other locales separate it with a
// space ("$ 1.423.500"). Negative amounts lead with "-".
func (f *Formatter) Currency(v decimal.Decimal) string {
	sign := ""
	if v.Round(0).IsNegative() {
		sign = "-"
		v = v.Abs()
	}
	sep := " "
	if base, _ := f.tag.Base(); base.String() == "en" {
		sep = ""
	}
	return sign + f.symbol + sep + f.Amount(v)
}

// Amount formats v in locale without a currency symbol.
func Amount(v decimal.Decimal, locale string) string {
	return NewFormatter(locale, "").Amount(v)
}

// Currency formats v in locale with the symbol for code.
func Currency(v decimal.Decimal, locale, code string) string {
	return NewFormatter(locale, code).Currency(v)
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.MustParse(DefaultLocale)
	}
	return tag
}
