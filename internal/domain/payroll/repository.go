package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, periodStart time.Time) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)

	// UpdateStatus transitions payment status; paymentDate is set for paid.
	// Closing the pay period on paid happens in the same statement.
	UpdateStatus(ctx context.Context, id string, status PaymentStatus, paymentDate *time.Time) error

	SetReconciliation(ctx context.Context, id string, needs bool) error

	// ListNeedingReconciliation returns records whose ledger recoveries did
	// not fully apply, ordered by id.
	ListNeedingReconciliation(ctx context.Context) ([]PayrollRecord, error)

	// Delete removes a record; implementations reject non-pending records.
	Delete(ctx context.Context, id string) error

	Summary(ctx context.Context, periodStart time.Time) (PayrollSummaryResponse, error)
}
