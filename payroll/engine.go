package payroll

// ComputeMonthlyPayroll returns the monthly view for one contract.
// It panics if p fails Validate: a broken fiscal table is a defect, never a
// business condition. All other irregularities are absorbed by Normalize.
func ComputeMonthlyPayroll(in ContractInput, p *FiscalParameters) PayrollFinancials {
	p.mustValidate()
	return calculate(Normalize(in, p), p).monthly(p)
}

// ComputeLiquidation returns the days-driven settlement view, with
// DaysWorked taken from the contract's start and end dates (30 if unknown).
func ComputeLiquidation(in ContractInput, p *FiscalParameters) PayrollFinancials {
	p.mustValidate()
	return calculate(Normalize(in, p), p).liquidation(p)
}

// Compute returns both views from a single pass.
func Compute(in ContractInput, p *FiscalParameters) Result {
	p.mustValidate()
	b := calculate(Normalize(in, p), p)
	return Result{
		Monthly:     b.monthly(p),
		Liquidation: b.liquidation(p),
	}
}
