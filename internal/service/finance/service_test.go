package finance

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequestRepo keeps the ledger in a map and mirrors the guarded
// update semantics of the postgresql implementation.
type fakeRequestRepo struct {
	requests map[string]finance.FinancialRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]finance.FinancialRequest)}
}

func (f *fakeRequestRepo) Create(_ context.Context, req finance.FinancialRequest) (finance.FinancialRequest, error) {
	req.CreatedAt = time.Now().UTC()
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (finance.FinancialRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return finance.FinancialRequest{}, finance.ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeRequestRepo) List(_ context.Context, filter finance.RequestFilter) ([]finance.FinancialRequest, int64, error) {
	var result []finance.FinancialRequest
	for _, req := range f.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		result = append(result, req)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (f *fakeRequestRepo) ListRecoverable(_ context.Context, employeeID string) ([]finance.FinancialRequest, error) {
	var result []finance.FinancialRequest
	for _, req := range f.requests {
		if req.EmployeeID == employeeID && req.Recoverable() {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeRequestRepo) Approve(_ context.Context, id, approver string, at time.Time) (finance.FinancialRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return finance.FinancialRequest{}, finance.ErrRequestNotFound
	}
	if req.Status != finance.RequestStatusPending {
		return finance.FinancialRequest{}, finance.ErrInvalidTransition
	}
	req.Status = finance.RequestStatusApproved
	req.ApprovedBy = approver
	req.ApprovedAt = &at
	f.requests[id] = req
	return req, nil
}

func (f *fakeRequestRepo) Reject(_ context.Context, id string) (finance.FinancialRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return finance.FinancialRequest{}, finance.ErrRequestNotFound
	}
	if req.Status != finance.RequestStatusPending {
		return finance.FinancialRequest{}, finance.ErrInvalidTransition
	}
	req.Status = finance.RequestStatusRejected
	f.requests[id] = req
	return req, nil
}

func (f *fakeRequestRepo) Disburse(_ context.Context, id string, plan finance.RepaymentPlan, at time.Time) (finance.FinancialRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return finance.FinancialRequest{}, finance.ErrRequestNotFound
	}
	if req.Status != finance.RequestStatusApproved {
		return finance.FinancialRequest{}, finance.ErrInvalidTransition
	}
	req.Status = finance.RequestStatusPaid
	req.PaidAt = &at
	req.RepaymentType = plan.Type
	req.InstallmentMonths = plan.InstallmentMonths
	req.InstallmentAmount = plan.InstallmentAmount
	req.RemainingBalance = req.Amount
	if req.RequestType == finance.RequestTypeReimbursement {
		req.AmountRecovered = req.Amount
		req.RemainingBalance = 0
		req.Status = finance.RequestStatusCompleted
		req.RecoveryCompleteDate = &at
	}
	f.requests[id] = req
	return req, nil
}

func (f *fakeRequestRepo) ApplyRecovery(_ context.Context, id string, amount money.Amount, payrollRecordID string, at time.Time) (finance.FinancialRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return finance.FinancialRequest{}, finance.ErrRequestNotFound
	}
	if req.Linked(payrollRecordID) {
		return finance.FinancialRequest{}, finance.ErrAlreadyLinked
	}
	if !req.Recoverable() {
		return finance.FinancialRequest{}, finance.ErrNotRecoverable
	}
	if amount > req.RemainingBalance {
		return finance.FinancialRequest{}, finance.ErrRecoveryExceedsDebt
	}

	req.AmountRecovered += amount
	req.RemainingBalance -= amount
	req.LinkedPayrollIDs = append(req.LinkedPayrollIDs, payrollRecordID)
	if req.Status == finance.RequestStatusPaid {
		req.Status = finance.RequestStatusRecovering
		req.RecoveryStartDate = &at
	}
	if req.RemainingBalance == 0 {
		req.Status = finance.RequestStatusCompleted
		req.RecoveryCompleteDate = &at
	}
	f.requests[id] = req
	return req, nil
}

func disbursedLoan(t *testing.T, svc finance.LedgerService, amount int64, months int) finance.FinancialRequestResponse {
	t.Helper()
	ctx := context.Background()

	created, err := svc.Submit(ctx, finance.CreateRequestRequest{
		EmployeeID:  "emp-1",
		RequestType: "loan",
		Amount:      amount,
		Currency:    "USD",
		Reason:      "laptop",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "mgr-1")
	require.NoError(t, err)

	paid, err := svc.Disburse(ctx, finance.DisburseRequest{
		ID:                created.ID,
		RepaymentType:     "installments",
		InstallmentMonths: months,
	})
	require.NoError(t, err)
	return paid
}

func TestLedgerService_SubmitApproveDisburse(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())

	paid := disbursedLoan(t, svc, 90000, 3)

	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, int64(90000), paid.RemainingBalance)
	assert.Equal(t, int64(0), paid.AmountRecovered)
	assert.Equal(t, "mgr-1", paid.ApprovedBy)
	assert.NotNil(t, paid.PaidAt)
}

func TestLedgerService_SubmitValidation(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())

	_, err := svc.Submit(context.Background(), finance.CreateRequestRequest{
		EmployeeID:  "emp-1",
		RequestType: "mortgage",
		Amount:      -5,
	})
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), finance.CreateRequestRequest{
		EmployeeID:  "emp-1",
		RequestType: "loan",
		Amount:      30000,
		Currency:    "usd",
	})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "currency")
}

func TestLedgerService_ApproveRequiresPending(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())
	ctx := context.Background()

	paid := disbursedLoan(t, svc, 50000, 2)

	_, err := svc.Approve(ctx, paid.ID, "mgr-2")
	assert.ErrorIs(t, err, finance.ErrInvalidTransition)

	_, err = svc.Reject(ctx, paid.ID)
	assert.ErrorIs(t, err, finance.ErrInvalidTransition)
}

func TestLedgerService_DisburseRequiresApproval(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())
	ctx := context.Background()

	created, err := svc.Submit(ctx, finance.CreateRequestRequest{
		EmployeeID:  "emp-1",
		RequestType: "advance",
		Amount:      30000,
		Currency:    "USD",
	})
	require.NoError(t, err)

	_, err = svc.Disburse(ctx, finance.DisburseRequest{ID: created.ID, RepaymentType: "full"})
	assert.ErrorIs(t, err, finance.ErrInvalidTransition)
}

func TestLedgerService_ReimbursementCompletesOnDisbursement(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())
	ctx := context.Background()

	created, err := svc.Submit(ctx, finance.CreateRequestRequest{
		EmployeeID:  "emp-1",
		RequestType: "reimbursement",
		Amount:      12000,
		Currency:    "USD",
		Reason:      "travel",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, created.ID, "mgr-1")
	require.NoError(t, err)

	// Nothing is owed back, so an installment plan is meaningless.
	_, err = svc.Disburse(ctx, finance.DisburseRequest{
		ID:                created.ID,
		RepaymentType:     "installments",
		InstallmentMonths: 3,
	})
	assert.ErrorIs(t, err, finance.ErrInvalidRepaymentPlan)

	paid, err := svc.Disburse(ctx, finance.DisburseRequest{ID: created.ID, RepaymentType: "full"})
	require.NoError(t, err)
	assert.Equal(t, "completed", paid.Status)
	assert.Equal(t, int64(0), paid.RemainingBalance)

	recoverable, err := svc.ListRecoverable(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, recoverable)
}

func TestLedgerService_RecoveryLifecycle(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())
	ctx := context.Background()

	paid := disbursedLoan(t, svc, 90000, 3)

	runs := []string{"run-1", "run-2", "run-3"}
	for i, runID := range runs {
		updated, err := svc.ApplyRecovery(ctx, paid.ID, 30000, runID)
		require.NoError(t, err)

		assert.Equal(t, money.Amount(30000*int64(i+1)), updated.AmountRecovered)
		assert.Equal(t, updated.Amount-updated.AmountRecovered, updated.RemainingBalance)
		assert.Len(t, updated.LinkedPayrollIDs, i+1)

		if updated.RemainingBalance > 0 {
			assert.Equal(t, finance.RequestStatusRecovering, updated.Status)
		}
	}

	final, err := svc.Get(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", final.Status)
	assert.Equal(t, int64(0), final.RemainingBalance)
	assert.NotNil(t, final.RecoveryCompleteDate)
}

func TestLedgerService_ApplyRecoveryIsIdempotentPerPayrollRecord(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())
	ctx := context.Background()

	paid := disbursedLoan(t, svc, 90000, 3)

	first, err := svc.ApplyRecovery(ctx, paid.ID, 30000, "run-1")
	require.NoError(t, err)

	_, err = svc.ApplyRecovery(ctx, paid.ID, 30000, "run-1")
	assert.ErrorIs(t, err, finance.ErrAlreadyLinked)

	current, err := svc.Get(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(first.AmountRecovered), current.AmountRecovered)
	assert.Len(t, current.LinkedPayrollIDs, 1)
}

func TestLedgerService_ApplyRecoveryNeverExceedsDebt(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())
	ctx := context.Background()

	paid := disbursedLoan(t, svc, 90000, 3)

	_, err := svc.ApplyRecovery(ctx, paid.ID, 100000, "run-1")
	assert.ErrorIs(t, err, finance.ErrRecoveryExceedsDebt)

	_, err = svc.ApplyRecovery(ctx, paid.ID, 0, "run-1")
	assert.ErrorIs(t, err, finance.ErrNotRecoverable)
}

func TestLedgerService_ListRecoverableOrderedByID(t *testing.T) {
	svc := NewLedgerService(newFakeRequestRepo())
	ctx := context.Background()

	disbursedLoan(t, svc, 50000, 2)
	disbursedLoan(t, svc, 70000, 2)
	disbursedLoan(t, svc, 90000, 2)

	recoverable, err := svc.ListRecoverable(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, recoverable, 3)
	assert.True(t, sort.SliceIsSorted(recoverable, func(i, j int) bool {
		return recoverable[i].ID < recoverable[j].ID
	}))
}
