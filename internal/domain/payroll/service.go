package payroll

import "context"

// PayrollService is the orchestration surface consumed by the HTTP handlers.
type PayrollService interface {
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) ([]PayrollRecordResponse, error)
	GetRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	UpdateStatus(ctx context.Context, req UpdatePaymentStatusRequest) (PayrollRecordResponse, error)
	MarkReconciled(ctx context.Context, id string) error

	// ReconcileOutstanding retries the ledger recoveries of every record
	// flagged for reconciliation, clearing the flag on success. Safe to run
	// repeatedly; applied recoveries are never applied twice.
	ReconcileOutstanding(ctx context.Context) error
	DeleteRecord(ctx context.Context, id string) error
	GetSummary(ctx context.Context, periodStart string) (PayrollSummaryResponse, error)

	// RenderPayslip returns the payslip PDF bytes and a suggested filename.
	// Only paid records have payslips.
	RenderPayslip(ctx context.Context, id string) ([]byte, string, error)
}
