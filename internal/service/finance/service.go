package finance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/google/uuid"
)

type LedgerServiceImpl struct {
	requestRepo finance.FinancialRequestRepository
}

func NewLedgerService(requestRepo finance.FinancialRequestRepository) finance.LedgerService {
	return &LedgerServiceImpl{requestRepo: requestRepo}
}

func (s *LedgerServiceImpl) Submit(ctx context.Context, req finance.CreateRequestRequest) (finance.FinancialRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return finance.FinancialRequestResponse{}, err
	}

	request := finance.FinancialRequest{
		ID:               uuid.NewString(),
		EmployeeID:       req.EmployeeID,
		RequestType:      finance.RequestType(req.RequestType),
		Amount:           money.Amount(req.Amount),
		Currency:         req.Currency,
		Reason:           req.Reason,
		Status:           finance.RequestStatusPending,
		RemainingBalance: 0, // nothing owed until disbursement
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}

	return mapToRequestResponse(created), nil
}

func (s *LedgerServiceImpl) Approve(ctx context.Context, id, approver string) (finance.FinancialRequestResponse, error) {
	current, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}
	if current.Status != finance.RequestStatusPending {
		return finance.FinancialRequestResponse{}, finance.ErrInvalidTransition
	}

	updated, err := s.requestRepo.Approve(ctx, id, approver, time.Now().UTC())
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}

	return mapToRequestResponse(updated), nil
}

func (s *LedgerServiceImpl) Reject(ctx context.Context, id string) (finance.FinancialRequestResponse, error) {
	current, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}
	if current.Status != finance.RequestStatusPending {
		return finance.FinancialRequestResponse{}, finance.ErrInvalidTransition
	}

	updated, err := s.requestRepo.Reject(ctx, id)
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}

	return mapToRequestResponse(updated), nil
}

// Disburse pays an approved request out and fixes its repayment plan. The
// outstanding balance becomes the full amount from this point on.
// Reimbursements have nothing to recover and complete immediately.
func (s *LedgerServiceImpl) Disburse(ctx context.Context, req finance.DisburseRequest) (finance.FinancialRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return finance.FinancialRequestResponse{}, err
	}

	current, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}
	if current.Status != finance.RequestStatusApproved {
		return finance.FinancialRequestResponse{}, finance.ErrInvalidTransition
	}
	if current.RequestType == finance.RequestTypeReimbursement && finance.RepaymentType(req.RepaymentType) != finance.RepaymentTypeFull {
		return finance.FinancialRequestResponse{}, finance.ErrInvalidRepaymentPlan
	}

	plan := finance.RepaymentPlan{
		Type:              finance.RepaymentType(req.RepaymentType),
		InstallmentMonths: req.InstallmentMonths,
		InstallmentAmount: money.Amount(req.InstallmentAmount),
	}

	updated, err := s.requestRepo.Disburse(ctx, req.ID, plan, time.Now().UTC())
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}

	return mapToRequestResponse(updated), nil
}

func (s *LedgerServiceImpl) Get(ctx context.Context, id string) (finance.FinancialRequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return finance.FinancialRequestResponse{}, err
	}

	return mapToRequestResponse(request), nil
}

func (s *LedgerServiceImpl) List(ctx context.Context, filter finance.RequestFilter) (finance.ListRequestResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	requests, totalCount, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return finance.ListRequestResponse{}, err
	}

	result := make([]finance.FinancialRequestResponse, 0, len(requests))
	for _, r := range requests {
		result = append(result, mapToRequestResponse(r))
	}

	return finance.ListRequestResponse{
		Data:       result,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *LedgerServiceImpl) ListRecoverable(ctx context.Context, employeeID string) ([]finance.FinancialRequest, error) {
	return s.requestRepo.ListRecoverable(ctx, employeeID)
}

func (s *LedgerServiceImpl) ApplyRecovery(ctx context.Context, id string, amount money.Amount, payrollRecordID string) (finance.FinancialRequest, error) {
	if amount <= 0 || payrollRecordID == "" {
		return finance.FinancialRequest{}, finance.ErrNotRecoverable
	}

	return s.requestRepo.ApplyRecovery(ctx, id, amount, payrollRecordID, time.Now().UTC())
}

// ========== HELPERS ==========

func mapToRequestResponse(r finance.FinancialRequest) finance.FinancialRequestResponse {
	return finance.FinancialRequestResponse{
		ID:                   r.ID,
		EmployeeID:           r.EmployeeID,
		RequestType:          string(r.RequestType),
		Amount:               int64(r.Amount),
		Currency:             r.Currency,
		Reason:               r.Reason,
		Status:               string(r.Status),
		RepaymentType:        string(r.RepaymentType),
		InstallmentMonths:    r.InstallmentMonths,
		InstallmentAmount:    int64(r.InstallmentAmount),
		AmountRecovered:      int64(r.AmountRecovered),
		RemainingBalance:     int64(r.RemainingBalance),
		LinkedPayrollIDs:     r.LinkedPayrollIDs,
		ApprovedAt:           formatTimePtr(r.ApprovedAt),
		ApprovedBy:           r.ApprovedBy,
		PaidAt:               formatTimePtr(r.PaidAt),
		RecoveryStartDate:    formatTimePtr(r.RecoveryStartDate),
		RecoveryCompleteDate: formatTimePtr(r.RecoveryCompleteDate),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
