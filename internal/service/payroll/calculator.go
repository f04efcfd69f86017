package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
)

// CompensationInput is the single explicit shape the calculator works on.
// The orchestrator assembles it once from the employee directory and the
// generation request; the calculator never reaches into other records.
type CompensationInput struct {
	BaseSalary money.Amount
	Overtime   money.Amount
	Bonuses    money.Amount
	Allowances []payroll.Allowance
	Deductions []payroll.Deduction
}

// ComputeGross sums base salary, overtime, bonuses and all allowance
// amounts, in that order, with saturating addition.
func ComputeGross(in CompensationInput) money.Amount {
	gross := money.SumSat(in.BaseSalary, in.Overtime, in.Bonuses)
	for _, a := range in.Allowances {
		gross = money.AddSat(gross, a.Amount)
	}
	return gross
}

// ComputeTotalDeductions sums all deduction amounts.
func ComputeTotalDeductions(in CompensationInput) money.Amount {
	var total money.Amount
	for _, d := range in.Deductions {
		total = money.AddSat(total, d.Amount)
	}
	return total
}

// ComputeNet returns gross minus total deductions, floored at zero. The
// second return value is the clamped shortfall so callers can flag an
// over-deducted payroll for review instead of silently absorbing it.
func ComputeNet(in CompensationInput) (money.Amount, money.Amount) {
	return money.SubFloor(ComputeGross(in), ComputeTotalDeductions(in))
}
