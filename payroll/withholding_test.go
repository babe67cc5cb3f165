package payroll_test

import (
	"testing"
	"testing/quick"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

func TestComputeWithholding_BelowFirstBracketIsZero(t *testing.T) {
	// GIVEN: Gross income never above 95 UVT
	// WHEN: Running the depuration
	// THEN: Nothing is withheld

	p := payroll.Parameters2025()
	limit := p.UVT.Mul(generic.Dec(95))

	property := func(n uint32) bool {
		gross := generic.Dec(int64(n)).Mod(limit.Add(generic.Dec(1)))
		detail := payroll.ComputeWithholding(payroll.WithholdingInput{GrossIncome: gross}, p)
		return detail.Withholding.IsZero()
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestComputeWithholding_SecondBracket(t *testing.T) {
	// GIVEN: 10,000,000 gross with 900,000 of mandatory contributions
	// WHEN: Running the depuration under 2025 values
	// THEN: The labor exemption is 25% and the base falls in the 19% row

	p := payroll.Parameters2025()
	detail := payroll.ComputeWithholding(payroll.WithholdingInput{
		GrossIncome:            d("10000000"),
		MandatoryContributions: d("900000"),
	}, p)

	assert.Equal(t, "9100000", detail.NetIncome.String())
	assert.Equal(t, "2275000", detail.LaborExemption.String())
	assert.Equal(t, "2275000", detail.CappedBenefits.String())
	assert.Equal(t, "6825000", detail.TaxableBase.String())
	assert.Equal(t, "397878", detail.Withholding.String())
}

func TestComputeWithholding_DeductionCaps(t *testing.T) {
	// GIVEN: Declared deductions far above their UVT ceilings
	// THEN: Each one is limited to its ceiling

	p := payroll.Parameters2025()
	detail := payroll.ComputeWithholding(payroll.WithholdingInput{
		GrossIncome:      d("60000000"),
		HousingInterest:  d("10000000"),
		PrepaidMedicine:  d("5000000"),
		VoluntaryPension: d("20000000"),
		HasDependents:    true,
	}, p)

	assert.Equal(t, "4979900", detail.HousingInterest.String(), "100 UVT")
	assert.Equal(t, "796784", detail.PrepaidMedicine.String(), "16 UVT")
	assert.Equal(t, "1593568", detail.Dependents.String(), "32 UVT")
	assert.Equal(t, "15736484", detail.ExemptSavings.String(), "316 UVT")
	assert.Equal(t, "20000000", detail.NonTaxableIncome.String())

	// Benefits may never exceed 1340 UVT per year, as a monthly amount.
	assert.True(t, detail.CappedBenefits.Equal(p.MonthlyUVT(generic.Dec(1340))))
	assert.True(t, detail.Withholding.IsPositive())
}

func TestComputeWithholding_NeverNegative(t *testing.T) {
	p := payroll.Parameters2025()

	property := func(gross, mandatory, housing uint32) bool {
		detail := payroll.ComputeWithholding(payroll.WithholdingInput{
			GrossIncome:            generic.Dec(int64(gross)),
			MandatoryContributions: generic.Dec(int64(mandatory)),
			HousingInterest:        generic.Dec(int64(housing)),
		}, p)
		return !detail.Withholding.IsNegative() && !detail.TaxableBase.IsNegative()
	}
	require.NoError(t, quick.Check(property, nil))
}

func TestComputeWithholding_MonotonicInGrossIncome(t *testing.T) {
	p := payroll.Parameters2025()
	prev := decimal.Zero

	for gross := int64(0); gross <= 200_000_000; gross += 2_500_000 {
		w := payroll.ComputeWithholding(payroll.WithholdingInput{GrossIncome: generic.Dec(gross)}, p).Withholding
		assert.False(t, w.LessThan(prev), "withholding dropped at gross %d", gross)
		prev = w
	}
}
