/*
withholding.go - Income tax withholding depuration

PURPOSE:
  Computes the monthly income tax withheld from wages. Gross labor income
  is "depurated" stage by stage, each stage bounded by a ceiling in tax
  units (UVT), and the remaining taxable base is run through the
  progressive withholding table.

STAGES:
  1. Non-taxable income: mandatory contributions + voluntary pension
  2. Net labor income: gross - mandatory contributions
  3. Deductions: housing interest (100 UVT), prepaid medicine (16 UVT),
     dependents at 10% of net income (32 UVT)
  4. Exempt savings: voluntary pension + AFC, flat 316 UVT per month
  5. Labor exemption: 25% of (net - deductions - savings), 790 UVT/year
  6. Benefits cap: min(sum of 3-5, 40% of net, 1340 UVT/year)
  7. Taxable base: net - capped benefits, in currency then in UVT
  8. Bracket table: (base - lower) * rate + fixed, back to currency

  Annual UVT limits are applied as their monthly equivalent (limit / 12).

SEE ALSO:
  - fiscal.go: DeductionCaps and WithholdingTable
  - generic/bracket.go: Bracket evaluation
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// WithholdingInput collects what the depuration reads.
type WithholdingInput struct {
	GrossIncome            decimal.Decimal
	MandatoryContributions decimal.Decimal
	HousingInterest        decimal.Decimal
	PrepaidMedicine        decimal.Decimal
	VoluntaryPension       decimal.Decimal
	AFCSavings             decimal.Decimal
	HasDependents          bool
}

// WithholdingDetail exposes every stage for audit.
type WithholdingDetail struct {
	NonTaxableIncome decimal.Decimal `json:"non_taxable_income"`
	NetIncome        decimal.Decimal `json:"net_income"`
	HousingInterest  decimal.Decimal `json:"housing_interest"`
	PrepaidMedicine  decimal.Decimal `json:"prepaid_medicine"`
	Dependents       decimal.Decimal `json:"dependents"`
	Deductions       decimal.Decimal `json:"deductions"`
	ExemptSavings    decimal.Decimal `json:"exempt_savings"`
	LaborExemption   decimal.Decimal `json:"labor_exemption"`
	BenefitsSum      decimal.Decimal `json:"benefits_sum"`
	CappedBenefits   decimal.Decimal `json:"capped_benefits"`
	TaxableBase      decimal.Decimal `json:"taxable_base"`
	TaxableBaseUVT   decimal.Decimal `json:"taxable_base_uvt"`
	TaxUVT           decimal.Decimal `json:"tax_uvt"`
	Withholding      decimal.Decimal `json:"withholding"`
}

// ComputeWithholding runs the depuration. Withholding is rounded to whole
// currency units; intermediate stages keep full precision.
func ComputeWithholding(in WithholdingInput, p *FiscalParameters) WithholdingDetail {
	caps := p.Caps
	var d WithholdingDetail

	d.NonTaxableIncome = in.MandatoryContributions.Add(in.VoluntaryPension)
	d.NetIncome = generic.NonNegative(in.GrossIncome.Sub(in.MandatoryContributions))

	d.HousingInterest = decimal.Min(in.HousingInterest, p.UVTAmount(caps.HousingInterestMonthlyUVT))
	d.PrepaidMedicine = decimal.Min(in.PrepaidMedicine, p.UVTAmount(caps.PrepaidMedicineMonthlyUVT))
	if in.HasDependents {
		d.Dependents = decimal.Min(
			d.NetIncome.Mul(caps.DependentsRate),
			p.UVTAmount(caps.DependentsMonthlyUVT),
		)
	}
	d.Deductions = generic.SumOf(d.HousingInterest, d.PrepaidMedicine, d.Dependents)

	d.ExemptSavings = decimal.Min(
		in.VoluntaryPension.Add(in.AFCSavings),
		p.UVTAmount(caps.ExemptSavingsMonthlyUVT),
	)

	laborBase := generic.NonNegative(d.NetIncome.Sub(d.Deductions).Sub(d.ExemptSavings))
	d.LaborExemption = decimal.Min(
		laborBase.Mul(caps.LaborExemptionRate),
		p.MonthlyUVT(caps.LaborExemptionAnnualUVT),
	)

	d.BenefitsSum = generic.SumOf(d.Deductions, d.ExemptSavings, d.LaborExemption)
	d.CappedBenefits = decimal.Min(
		d.BenefitsSum,
		d.NetIncome.Mul(caps.BenefitsIncomeRate),
		p.MonthlyUVT(caps.BenefitsAnnualUVT),
	)

	d.TaxableBase = generic.NonNegative(d.NetIncome.Sub(d.CappedBenefits))
	d.TaxableBaseUVT = d.TaxableBase.Div(p.UVT)

	bracket := p.WithholdingTable.Lookup(d.TaxableBaseUVT)
	d.TaxUVT = generic.NonNegative(bracket.Apply(d.TaxableBaseUVT))
	d.Withholding = generic.RoundCurrency(p.UVTAmount(d.TaxUVT))
	return d
}
