package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestComputeGross(t *testing.T) {
	in := CompensationInput{
		BaseSalary: 100000,
		Overtime:   12000,
		Bonuses:    5000,
		Allowances: []payroll.Allowance{
			{Name: "Transport", Amount: 3000},
			{Name: "Meals", Amount: 2000},
		},
	}

	assert.Equal(t, money.Amount(122000), ComputeGross(in))
}

func TestComputeGross_SaturatesInsteadOfOverflowing(t *testing.T) {
	in := CompensationInput{
		BaseSalary: money.MaxAmount,
		Overtime:   1,
	}

	assert.Equal(t, money.MaxAmount, ComputeGross(in))
}

func TestComputeTotalDeductions(t *testing.T) {
	in := CompensationInput{
		Deductions: []payroll.Deduction{
			{Name: "Income Tax", Amount: 7500},
			{Name: "Pension", Amount: 8000},
			{Name: "Loan Recovery", Amount: 10000},
		},
	}

	assert.Equal(t, money.Amount(25500), ComputeTotalDeductions(in))
}

func TestComputeNet_BalanceIdentity(t *testing.T) {
	in := CompensationInput{
		BaseSalary: 100000,
		Allowances: []payroll.Allowance{{Name: "Housing", Amount: 5000}},
		Deductions: []payroll.Deduction{{Name: "Tax", Amount: 10500}},
	}

	net, shortfall := ComputeNet(in)
	assert.Equal(t, money.Amount(94500), net)
	assert.Equal(t, money.Amount(0), shortfall)

	gross := ComputeGross(in)
	total := ComputeTotalDeductions(in)
	assert.Equal(t, gross-total, net)
}

func TestComputeNet_ClampsNegativeAndReportsShortfall(t *testing.T) {
	in := CompensationInput{
		BaseSalary: 10000,
		Deductions: []payroll.Deduction{{Name: "Loan Recovery", Amount: 15000}},
	}

	net, shortfall := ComputeNet(in)
	assert.Equal(t, money.Amount(0), net)
	assert.Equal(t, money.Amount(5000), shortfall)
}

func TestDeriveStatutory_AmountsAndOrder(t *testing.T) {
	profile := config.JurisdictionProfile{
		Code: "test",
		Rates: []config.StatutoryRate{
			{Name: "Income Tax", Kind: "tax", RateBps: 750},
			{Name: "Employee Pension", Kind: "retirement", RateBps: 800},
			{Name: "Housing Levy", Kind: "insurance", RateBps: 250},
		},
	}

	rows := DeriveStatutory(100000, profile)
	assert.Len(t, rows, 3)

	assert.Equal(t, "Income Tax", rows[0].Name)
	assert.Equal(t, money.Amount(7500), rows[0].Amount)
	assert.Equal(t, payroll.DeductionKindTax, rows[0].Kind)

	assert.Equal(t, "Employee Pension", rows[1].Name)
	assert.Equal(t, money.Amount(8000), rows[1].Amount)
	assert.Equal(t, payroll.DeductionKindRetirement, rows[1].Kind)

	assert.Equal(t, "Housing Levy", rows[2].Name)
	assert.Equal(t, money.Amount(2500), rows[2].Amount)
	assert.Equal(t, payroll.DeductionKindInsurance, rows[2].Kind)
}

func TestDeriveStatutory_Idempotent(t *testing.T) {
	profile := config.DefaultJurisdictionProfile()

	first := DeriveStatutory(123456, profile)
	second := DeriveStatutory(123456, profile)

	assert.Equal(t, first, second)
}

func TestDeriveStatutory_RoundsHalfUp(t *testing.T) {
	profile := config.JurisdictionProfile{
		Code:  "test",
		Rates: []config.StatutoryRate{{Name: "Levy", Kind: "tax", RateBps: 1}},
	}

	// 33333 * 0.0001 = 3.3333 -> 3; 45000 * 0.0001 = 4.5 -> 5
	assert.Equal(t, money.Amount(3), DeriveStatutory(33333, profile)[0].Amount)
	assert.Equal(t, money.Amount(5), DeriveStatutory(45000, profile)[0].Amount)
}

func TestDeriveStatutory_UnknownKindFallsBackToOther(t *testing.T) {
	profile := config.JurisdictionProfile{
		Code:  "test",
		Rates: []config.StatutoryRate{{Name: "Solidarity Fund", Kind: "levy", RateBps: 100}},
	}

	rows := DeriveStatutory(100000, profile)
	assert.Equal(t, payroll.DeductionKindOther, rows[0].Kind)
}
