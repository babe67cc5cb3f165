package payroll

import "github.com/shopspring/decimal"

// SolidarityRate returns the solidarity fund rate for ibc. The table is
// written in minimum-wage multiples with half-open [low, high) rows, so an
// IBC of exactly 4 minimum wages already pays 1%.
func SolidarityRate(ibc decimal.Decimal, p *FiscalParameters) decimal.Decimal {
	return p.SolidarityTable.LookupScaled(ibc, p.MinimumWage).Rate
}
