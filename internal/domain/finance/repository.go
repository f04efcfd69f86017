package finance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
)

// RepaymentPlan is the recovery schedule fixed at disbursement time.
type RepaymentPlan struct {
	Type              RepaymentType
	InstallmentMonths int
	InstallmentAmount money.Amount
}

// FinancialRequestRepository defines data access for the obligation ledger.
// Status preconditions are enforced in the UPDATE statements themselves so
// that concurrent callers cannot race past a stale read.
type FinancialRequestRepository interface {
	Create(ctx context.Context, req FinancialRequest) (FinancialRequest, error)
	GetByID(ctx context.Context, id string) (FinancialRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]FinancialRequest, int64, error)

	// ListRecoverable returns the employee's requests with status in
	// {paid, recovering} and a positive remaining balance, ordered by id.
	ListRecoverable(ctx context.Context, employeeID string) ([]FinancialRequest, error)

	Approve(ctx context.Context, id, approver string, at time.Time) (FinancialRequest, error)
	Reject(ctx context.Context, id string) (FinancialRequest, error)
	Disburse(ctx context.Context, id string, plan RepaymentPlan, at time.Time) (FinancialRequest, error)

	// ApplyRecovery decrements the remaining balance, increments the
	// recovered amount and appends payrollRecordID to the linked ids, all
	// in one guarded statement. Returns ErrAlreadyLinked when the payroll
	// record id is already present.
	ApplyRecovery(ctx context.Context, id string, amount money.Amount, payrollRecordID string, at time.Time) (FinancialRequest, error)
}
