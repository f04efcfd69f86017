package finance

import (
	"sort"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// ProposeRecoveries turns the employee's recoverable financial requests
// into the loan-kind deduction rows for one payroll run. It performs no
// writes and is deterministic for a given ledger snapshot: requests are
// processed in id order and row ids are content-addressed.
func ProposeRecoveries(requests []finance.FinancialRequest) []payroll.Deduction {
	sorted := make([]finance.FinancialRequest, len(requests))
	copy(sorted, requests)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var deductions []payroll.Deduction
	for _, req := range sorted {
		if !req.Recoverable() {
			continue
		}

		amount := RecoveryAmount(req)
		if amount <= 0 {
			continue
		}

		deductions = append(deductions, payroll.Deduction{
			ID:              recoveryRowID(req.ID, len(req.LinkedPayrollIDs)),
			Name:            recoveryRowName(req.RequestType),
			Amount:          amount,
			Kind:            payroll.DeductionKindLoan,
			Description:     "cycle " + validator.Itoa(len(req.LinkedPayrollIDs)+1) + " recovery",
			SourceRequestID: req.ID,
		})
	}

	return deductions
}

// RecoveryAmount computes this cycle's deduction for a single request.
//
// Full repayment recovers the whole remaining balance in one cycle.
// Installment plans use the stored per-cycle amount when one was set
// explicitly and still fits under the balance; otherwise the schedule is
// re-derived by spreading the remaining balance over the cycles left, which
// keeps installments equal even if the plan changed after partial recovery.
// The final installment never overshoots the balance.
func RecoveryAmount(req finance.FinancialRequest) money.Amount {
	if req.RepaymentType == finance.RepaymentTypeFull {
		return req.RemainingBalance
	}

	if req.InstallmentMonths <= 0 {
		return 0
	}

	installment := req.InstallmentAmount
	if installment <= 0 || installment >= req.RemainingBalance {
		cyclesLeft := req.InstallmentMonths - len(req.LinkedPayrollIDs)
		if cyclesLeft <= 1 {
			return req.RemainingBalance
		}
		installment = money.CeilDiv(req.RemainingBalance, int64(cyclesLeft))
	}

	return money.Min(installment, req.RemainingBalance)
}

func recoveryRowID(requestID string, cycle int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("recovery/"+requestID+"/"+validator.Itoa(cycle))).String()
}

func recoveryRowName(t finance.RequestType) string {
	switch t {
	case finance.RequestTypeAdvance:
		return "Salary Advance Recovery"
	case finance.RequestTypeLoan:
		return "Loan Recovery"
	default:
		return "Financial Request Recovery"
	}
}
