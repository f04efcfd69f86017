package finance

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
)

// LedgerService owns the FinancialRequest lifecycle. The payroll
// orchestrator consumes ListRecoverable and ApplyRecovery; everything else
// is driven by the administrative surface.
type LedgerService interface {
	Submit(ctx context.Context, req CreateRequestRequest) (FinancialRequestResponse, error)
	Approve(ctx context.Context, id, approver string) (FinancialRequestResponse, error)
	Reject(ctx context.Context, id string) (FinancialRequestResponse, error)
	Disburse(ctx context.Context, req DisburseRequest) (FinancialRequestResponse, error)
	Get(ctx context.Context, id string) (FinancialRequestResponse, error)
	List(ctx context.Context, filter RequestFilter) (ListRequestResponse, error)

	ListRecoverable(ctx context.Context, employeeID string) ([]FinancialRequest, error)
	ApplyRecovery(ctx context.Context, id string, amount money.Amount, payrollRecordID string) (FinancialRequest, error)
}
