package finance

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
)

// RequestType enum
type RequestType string

const (
	RequestTypeAdvance       RequestType = "advance"
	RequestTypeLoan          RequestType = "loan"
	RequestTypeReimbursement RequestType = "reimbursement"
)

// RequestStatus enum
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusApproved   RequestStatus = "approved"
	RequestStatusRejected   RequestStatus = "rejected"
	RequestStatusPaid       RequestStatus = "paid"
	RequestStatusRecovering RequestStatus = "recovering"
	RequestStatusCompleted  RequestStatus = "completed"
)

// RepaymentType enum
type RepaymentType string

const (
	RepaymentTypeFull         RepaymentType = "full"
	RepaymentTypeInstallments RepaymentType = "installments"
)

// FinancialRequest - an employee-initiated advance or loan recovered from
// future payroll runs. RemainingBalance is always amount - amountRecovered;
// LinkedPayrollIDs grows by one entry per applied recovery and is the
// at-most-once-per-cycle guard.
type FinancialRequest struct {
	ID                string
	EmployeeID        string
	RequestType       RequestType
	Amount            money.Amount
	Currency          string
	Reason            string
	Status            RequestStatus
	RepaymentType     RepaymentType
	InstallmentMonths int
	// InstallmentAmount is only non-zero when an explicit per-cycle amount
	// was set on disbursement; otherwise the scheduler re-derives it.
	InstallmentAmount    money.Amount
	AmountRecovered      money.Amount
	RemainingBalance     money.Amount
	LinkedPayrollIDs     []string
	ApprovedAt           *time.Time
	ApprovedBy           string
	PaidAt               *time.Time
	RecoveryStartDate    *time.Time
	RecoveryCompleteDate *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Recoverable reports whether the request can still contribute a deduction
// to a payroll run.
func (r *FinancialRequest) Recoverable() bool {
	return (r.Status == RequestStatusPaid || r.Status == RequestStatusRecovering) && r.RemainingBalance > 0
}

// Linked reports whether a recovery for the given payroll record was
// already applied.
func (r *FinancialRequest) Linked(payrollRecordID string) bool {
	for _, id := range r.LinkedPayrollIDs {
		if id == payrollRecordID {
			return true
		}
	}
	return false
}
