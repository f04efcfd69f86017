package finance

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoverableRequest(id string, amount, recovered money.Amount, months int, linked []string) finance.FinancialRequest {
	status := finance.RequestStatusPaid
	if recovered > 0 {
		status = finance.RequestStatusRecovering
	}
	return finance.FinancialRequest{
		ID:                id,
		EmployeeID:        "emp-1",
		RequestType:       finance.RequestTypeLoan,
		Amount:            amount,
		Status:            status,
		RepaymentType:     finance.RepaymentTypeInstallments,
		InstallmentMonths: months,
		AmountRecovered:   recovered,
		RemainingBalance:  amount - recovered,
		LinkedPayrollIDs:  linked,
	}
}

func TestRecoveryAmount_FullRepayment(t *testing.T) {
	req := finance.FinancialRequest{
		ID:               "req-1",
		RequestType:      finance.RequestTypeAdvance,
		Amount:           50000,
		Status:           finance.RequestStatusPaid,
		RepaymentType:    finance.RepaymentTypeFull,
		RemainingBalance: 50000,
	}

	assert.Equal(t, money.Amount(50000), RecoveryAmount(req))
}

func TestRecoveryAmount_EvenInstallments(t *testing.T) {
	// 90000 over 3 months: 30000, 30000, 30000
	req := recoverableRequest("req-1", 90000, 0, 3, nil)
	assert.Equal(t, money.Amount(30000), RecoveryAmount(req))

	req = recoverableRequest("req-1", 90000, 30000, 3, []string{"run-1"})
	assert.Equal(t, money.Amount(30000), RecoveryAmount(req))

	req = recoverableRequest("req-1", 90000, 60000, 3, []string{"run-1", "run-2"})
	assert.Equal(t, money.Amount(30000), RecoveryAmount(req))
}

func TestRecoveryAmount_UnevenInstallments(t *testing.T) {
	// 100000 over 3 months: 33334, 33333, 33333 - ceiling on the first,
	// remainder absorbed, final never exceeding the balance.
	req := recoverableRequest("req-1", 100000, 0, 3, nil)
	assert.Equal(t, money.Amount(33334), RecoveryAmount(req))

	req = recoverableRequest("req-1", 100000, 33334, 3, []string{"run-1"})
	assert.Equal(t, money.Amount(33333), RecoveryAmount(req))

	req = recoverableRequest("req-1", 100000, 66667, 3, []string{"run-1", "run-2"})
	assert.Equal(t, money.Amount(33333), RecoveryAmount(req))
}

func TestRecoveryAmount_StoredInstallmentOverride(t *testing.T) {
	req := recoverableRequest("req-1", 100000, 0, 10, nil)
	req.InstallmentAmount = 25000

	assert.Equal(t, money.Amount(25000), RecoveryAmount(req))
}

func TestRecoveryAmount_StaleStoredInstallmentIsRederived(t *testing.T) {
	// Stored amount no longer fits under the balance: re-derive instead.
	req := recoverableRequest("req-1", 100000, 80000, 4, []string{"a", "b", "c"})
	req.InstallmentAmount = 30000

	assert.Equal(t, money.Amount(20000), RecoveryAmount(req))
}

func TestRecoveryAmount_FinalCycleTakesBalance(t *testing.T) {
	req := recoverableRequest("req-1", 100000, 66667, 3, []string{"a", "b"})
	assert.Equal(t, req.RemainingBalance, RecoveryAmount(req))

	// More cycles applied than planned months: drain the balance.
	req = recoverableRequest("req-1", 100000, 90000, 3, []string{"a", "b", "c"})
	assert.Equal(t, money.Amount(10000), RecoveryAmount(req))
}

func TestRecoveryAmount_MalformedPlanProposesNothing(t *testing.T) {
	req := recoverableRequest("req-1", 90000, 0, 0, nil)
	assert.Equal(t, money.Amount(0), RecoveryAmount(req))
}

func TestProposeRecoveries_MultipleRequestsSortedAndTagged(t *testing.T) {
	reqs := []finance.FinancialRequest{
		recoverableRequest("req-b", 90000, 0, 3, nil),
		{
			ID:               "req-a",
			EmployeeID:       "emp-1",
			RequestType:      finance.RequestTypeAdvance,
			Amount:           50000,
			Status:           finance.RequestStatusPaid,
			RepaymentType:    finance.RepaymentTypeFull,
			RemainingBalance: 50000,
		},
	}

	rows := ProposeRecoveries(reqs)
	require.Len(t, rows, 2)

	assert.Equal(t, "req-a", rows[0].SourceRequestID)
	assert.Equal(t, money.Amount(50000), rows[0].Amount)
	assert.Equal(t, "Salary Advance Recovery", rows[0].Name)

	assert.Equal(t, "req-b", rows[1].SourceRequestID)
	assert.Equal(t, money.Amount(30000), rows[1].Amount)
	assert.Equal(t, payroll.DeductionKindLoan, rows[1].Kind)
}

func TestProposeRecoveries_SkipsNonRecoverable(t *testing.T) {
	reqs := []finance.FinancialRequest{
		{ID: "req-1", Status: finance.RequestStatusPending, Amount: 10000, RemainingBalance: 10000},
		{ID: "req-2", Status: finance.RequestStatusCompleted, Amount: 10000, RemainingBalance: 0},
		{ID: "req-3", Status: finance.RequestStatusRejected, Amount: 10000, RemainingBalance: 10000},
	}

	assert.Empty(t, ProposeRecoveries(reqs))
}

func TestProposeRecoveries_Deterministic(t *testing.T) {
	reqs := []finance.FinancialRequest{
		recoverableRequest("req-b", 90000, 30000, 3, []string{"run-1"}),
		recoverableRequest("req-a", 100000, 0, 3, nil),
	}

	first := ProposeRecoveries(reqs)
	second := ProposeRecoveries(reqs)

	assert.Equal(t, first, second)
}
