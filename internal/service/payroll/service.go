package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/email"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/payslip"
	financeService "github.com/cmlabs-hris/payroll-engine-go/internal/service/finance"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	payrollRepo payroll.PayrollRepository
	directory   employee.Directory
	ledger      finance.LedgerService
	profile     config.JurisdictionProfile
	notifier    email.NotificationService
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	directory employee.Directory,
	ledger finance.LedgerService,
	profile config.JurisdictionProfile,
	notifier email.NotificationService,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo: payrollRepo,
		directory:   directory,
		ledger:      ledger,
		profile:     profile,
		notifier:    notifier,
	}
}

// ========== GENERATION ==========

// GeneratePayroll runs the engine for each requested employee: compose the
// draft from directory data and request inputs, derive statutory rows, let
// the scheduler propose recovery rows, compute totals, persist the record,
// then apply each recovery back onto the ledger. Record creation and
// recovery application are a documented two-phase sequence: a failure in
// the second phase leaves the record flagged for reconciliation instead of
// rolling anything back.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) ([]payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startDate, _ := time.Parse("2006-01-02", req.PeriodStart)
	period, err := payroll.NewPayPeriod(startDate, payroll.Cadence(req.Cadence))
	if err != nil {
		return nil, err
	}

	// Resolve every employee up front so not-found, missing-salary and
	// missing-pay-data conditions abort before any write.
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.EmployeeID)
	}
	employees, err := s.directory.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employees: %w", err)
	}
	for _, id := range ids {
		emp, ok := employees[id]
		if !ok {
			return nil, fmt.Errorf("employee %s: %w", id, employee.ErrEmployeeNotFound)
		}
		if emp.BaseSalary <= 0 {
			return nil, fmt.Errorf("employee %s: %w", id, employee.ErrEmployeeNoSalary)
		}
		if emp.Currency == "" {
			return nil, fmt.Errorf("employee %s: %w", id, employee.ErrEmployeeNoPayData)
		}
	}

	var responses []payroll.PayrollRecordResponse
	for _, item := range req.Items {
		emp := employees[item.EmployeeID]

		// Skip employees that already have a record for this period.
		_, err := s.payrollRepo.GetByEmployeePeriod(ctx, emp.ID, period.StartDate)
		if err == nil {
			continue
		}
		if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing payroll record: %w", err)
		}

		record, err := s.composeDraft(ctx, emp, item, period)
		if err != nil {
			return nil, err
		}

		created, err := s.payrollRepo.Create(ctx, record)
		if err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
				continue
			}
			return nil, fmt.Errorf("failed to create payroll record for employee %s: %w", emp.ID, err)
		}

		if err := s.applyRecoveries(ctx, created); err != nil {
			return nil, err
		}

		responses = append(responses, mapToRecordResponse(created))
	}

	return responses, nil
}

// composeDraft assembles one employee's compensation input and computes
// totals. Statutory rows are derived fresh (replacing, never appending),
// then manual deductions, then the scheduler's recovery proposals.
func (s *PayrollServiceImpl) composeDraft(ctx context.Context, emp employee.Employee, item payroll.GeneratePayrollItem, period payroll.PayPeriod) (payroll.PayrollRecord, error) {
	allowances := make([]payroll.Allowance, 0, len(item.Allowances))
	for _, a := range item.Allowances {
		allowances = append(allowances, payroll.Allowance{
			ID:          uuid.NewString(),
			Name:        a.Name,
			Amount:      money.Amount(a.Amount),
			Kind:        allowanceKind(a.Kind),
			Taxable:     a.Taxable,
			Description: a.Description,
		})
	}

	deductions := DeriveStatutory(emp.BaseSalary, s.profile)
	for _, d := range item.Deductions {
		deductions = append(deductions, payroll.Deduction{
			ID:          uuid.NewString(),
			Name:        d.Name,
			Amount:      money.Amount(d.Amount),
			Kind:        deductionKind(d.Kind),
			Description: d.Description,
		})
	}

	recoverable, err := s.ledger.ListRecoverable(ctx, emp.ID)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to list recoverable requests for employee %s: %w", emp.ID, err)
	}
	deductions = append(deductions, financeService.ProposeRecoveries(recoverable)...)

	input := CompensationInput{
		BaseSalary: emp.BaseSalary,
		Overtime:   money.Amount(item.Overtime),
		Bonuses:    money.Amount(item.Bonuses),
		Allowances: allowances,
		Deductions: deductions,
	}
	gross := ComputeGross(input)
	totalDeductions := ComputeTotalDeductions(input)
	net, shortfall := ComputeNet(input)
	if shortfall > 0 {
		slog.Warn("net pay clamped to zero, record flagged for review",
			"employee_id", emp.ID, "shortfall", int64(shortfall))
	}

	return payroll.PayrollRecord{
		ID:              uuid.NewString(),
		EmployeeID:      emp.ID,
		EmployeeName:    emp.Name,
		Department:      emp.Department,
		Position:        emp.Position,
		Period:          period,
		BaseSalary:      emp.BaseSalary,
		Overtime:        money.Amount(item.Overtime),
		Bonuses:         money.Amount(item.Bonuses),
		Allowances:      allowances,
		Deductions:      deductions,
		GrossPay:        gross,
		TotalDeductions: totalDeductions,
		NetPay:          net,
		PaymentStatus:   payroll.PaymentStatusPending,
		PaymentMethod:   item.PaymentMethod,
		Currency:        emp.Currency,
		NeedsReview:     shortfall > 0,
	}, nil
}

// applyRecoveries is phase two of a run: each recovery deduction on the
// record is applied to its financial request, keyed by the record id so a
// retry can never double-charge (AlreadyLinked is a successful no-op).
// Any other failure flags the record for reconciliation and surfaces
// ErrLedgerInconsistency; already-applied recoveries stay applied.
func (s *PayrollServiceImpl) applyRecoveries(ctx context.Context, record payroll.PayrollRecord) error {
	var failed []string
	for _, d := range record.RecoveryDeductions() {
		_, err := s.ledger.ApplyRecovery(ctx, d.SourceRequestID, d.Amount, record.ID)
		if err == nil || errors.Is(err, finance.ErrAlreadyLinked) {
			continue
		}
		slog.Error("failed to apply recovery deduction",
			"payroll_record_id", record.ID, "request_id", d.SourceRequestID, "error", err)
		failed = append(failed, d.SourceRequestID)
	}

	if len(failed) == 0 {
		return nil
	}

	if err := s.payrollRepo.SetReconciliation(ctx, record.ID, true); err != nil {
		slog.Error("failed to flag payroll record for reconciliation",
			"payroll_record_id", record.ID, "error", err)
	}
	return fmt.Errorf("payroll record %s, requests %v: %w", record.ID, failed, payroll.ErrLedgerInconsistency)
}

// ========== RECORDS ==========

func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return mapToRecordResponse(record), nil
}

func (s *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	records, totalCount, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	return payroll.ListPayrollRecordResponse{
		Data:       mapToRecordResponses(records),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// UpdateStatus drives the payment state machine. Paid sets the payment
// date, closes the period and dispatches the payslip notification;
// cancellation never reverses recovery already applied to the ledger.
func (s *PayrollServiceImpl) UpdateStatus(ctx context.Context, req payroll.UpdatePaymentStatusRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	next := payroll.PaymentStatus(req.Status)
	if !record.CanTransitionTo(next) {
		return payroll.PayrollRecordResponse{}, payroll.ErrInvalidStatusTransition
	}

	var paymentDate *time.Time
	if next == payroll.PaymentStatusPaid {
		now := time.Now().UTC()
		paymentDate = &now
	}

	if err := s.payrollRepo.UpdateStatus(ctx, req.ID, next, paymentDate); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	if next == payroll.PaymentStatusPaid {
		s.notifyPaid(ctx, record)
	}

	return s.GetRecord(ctx, req.ID)
}

// notifyPaid is fire-and-forget: dispatch failure is logged, never fatal.
func (s *PayrollServiceImpl) notifyPaid(ctx context.Context, record payroll.PayrollRecord) {
	emp, err := s.directory.GetByID(ctx, record.EmployeeID)
	if err != nil || emp.Email == "" {
		slog.Warn("skipping payslip notification, no employee email",
			"employee_id", record.EmployeeID, "error", err)
		return
	}

	if err := s.notifier.SendPayslipAvailable(emp.Email, record.EmployeeName, record.Period.Label()); err != nil {
		slog.Error("failed to dispatch payslip notification",
			"employee_id", record.EmployeeID, "payroll_record_id", record.ID, "error", err)
	}
}

func (s *PayrollServiceImpl) MarkReconciled(ctx context.Context, id string) error {
	if _, err := s.payrollRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.payrollRepo.SetReconciliation(ctx, id, false)
}

// ReconcileOutstanding is the periodic sweep behind flagged records: it
// retries every recovery deduction and clears the flag once the ledger
// has caught up. Recoveries that already applied come back as
// AlreadyLinked and count as done.
func (s *PayrollServiceImpl) ReconcileOutstanding(ctx context.Context) error {
	records, err := s.payrollRepo.ListNeedingReconciliation(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records needing reconciliation: %w", err)
	}

	for _, record := range records {
		outstanding := 0
		for _, d := range record.RecoveryDeductions() {
			_, err := s.ledger.ApplyRecovery(ctx, d.SourceRequestID, d.Amount, record.ID)
			if err == nil || errors.Is(err, finance.ErrAlreadyLinked) {
				continue
			}
			slog.Error("reconciliation retry failed",
				"payroll_record_id", record.ID, "request_id", d.SourceRequestID, "error", err)
			outstanding++
		}
		if outstanding > 0 {
			continue
		}

		if err := s.payrollRepo.SetReconciliation(ctx, record.ID, false); err != nil {
			slog.Error("failed to clear reconciliation flag",
				"payroll_record_id", record.ID, "error", err)
			continue
		}
		slog.Info("payroll record reconciled", "payroll_record_id", record.ID)
	}

	return nil
}

func (s *PayrollServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	return s.payrollRepo.Delete(ctx, id)
}

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, periodStart string) (payroll.PayrollSummaryResponse, error) {
	start, err := time.Parse("2006-01-02", periodStart)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, payroll.ErrInvalidPeriodStart
	}

	return s.payrollRepo.Summary(ctx, start)
}

// ========== PAYSLIP ==========

func (s *PayrollServiceImpl) RenderPayslip(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if record.PaymentStatus != payroll.PaymentStatusPaid {
		return nil, "", payroll.ErrPayslipNotAvailable
	}

	data, err := payslip.Render(record)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render payslip: %w", err)
	}

	return data, "payslip-" + record.ID + ".pdf", nil
}

// ========== HELPERS ==========

func allowanceKind(kind string) payroll.AllowanceKind {
	if payroll.AllowanceKind(kind) == payroll.AllowanceKindVariable {
		return payroll.AllowanceKindVariable
	}
	return payroll.AllowanceKindFixed
}

func deductionKind(kind string) payroll.DeductionKind {
	switch payroll.DeductionKind(kind) {
	case payroll.DeductionKindTax, payroll.DeductionKindInsurance,
		payroll.DeductionKindRetirement, payroll.DeductionKindLoan:
		return payroll.DeductionKind(kind)
	default:
		return payroll.DeductionKindOther
	}
}

func mapToRecordResponse(r payroll.PayrollRecord) payroll.PayrollRecordResponse {
	var paidAtStr *string
	if r.PaymentDate != nil {
		str := r.PaymentDate.Format(time.RFC3339)
		paidAtStr = &str
	}

	allowances := make([]payroll.AllowanceResponse, 0, len(r.Allowances))
	for _, a := range r.Allowances {
		allowances = append(allowances, payroll.AllowanceResponse{
			ID:          a.ID,
			Name:        a.Name,
			Amount:      int64(a.Amount),
			Kind:        string(a.Kind),
			Taxable:     a.Taxable,
			Description: a.Description,
		})
	}

	deductions := make([]payroll.DeductionResponse, 0, len(r.Deductions))
	for _, d := range r.Deductions {
		deductions = append(deductions, payroll.DeductionResponse{
			ID:              d.ID,
			Name:            d.Name,
			Amount:          int64(d.Amount),
			Kind:            string(d.Kind),
			Description:     d.Description,
			SourceRequestID: d.SourceRequestID,
		})
	}

	return payroll.PayrollRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Department:   r.Department,
		Position:     r.Position,
		Period: payroll.PayPeriodResponse{
			StartDate: r.Period.StartDate.Format("2006-01-02"),
			EndDate:   r.Period.EndDate.Format("2006-01-02"),
			PayDate:   r.Period.PayDate.Format("2006-01-02"),
			Cadence:   string(r.Period.Cadence),
			Status:    string(r.Period.Status),
		},
		BaseSalary:          int64(r.BaseSalary),
		Overtime:            int64(r.Overtime),
		Bonuses:             int64(r.Bonuses),
		Allowances:          allowances,
		Deductions:          deductions,
		GrossPay:            int64(r.GrossPay),
		TotalDeductions:     int64(r.TotalDeductions),
		NetPay:              int64(r.NetPay),
		PaymentStatus:       string(r.PaymentStatus),
		PaymentDate:         paidAtStr,
		PaymentMethod:       r.PaymentMethod,
		Currency:            r.Currency,
		NeedsReview:         r.NeedsReview,
		NeedsReconciliation: r.NeedsReconciliation,
	}
}

func mapToRecordResponses(records []payroll.PayrollRecord) []payroll.PayrollRecordResponse {
	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, mapToRecordResponse(r))
	}
	return result
}
