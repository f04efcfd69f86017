package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/jackc/pgx/v5"
)

type financialRequestRepository struct {
	db *database.DB
}

func NewFinancialRequestRepository(db *database.DB) finance.FinancialRequestRepository {
	return &financialRequestRepository{db: db}
}

const financialRequestColumns = `
	id, employee_id, request_type, amount, currency, reason, status,
	repayment_type, installment_months, installment_amount, amount_recovered,
	linked_payroll_ids, approved_at, approved_by, paid_at,
	recovery_start_date, recovery_complete_date, created_at, updated_at
`

func (r *financialRequestRepository) Create(ctx context.Context, req finance.FinancialRequest) (finance.FinancialRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO financial_requests (
			id, employee_id, request_type, amount, currency, reason, status,
			repayment_type, installment_months, installment_amount,
			amount_recovered, linked_payroll_ids
		) VALUES ($1, $2, $3, $4, $5, $6, $7, '', 0, 0, 0, '{}')
		RETURNING ` + financialRequestColumns

	row := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, string(req.RequestType), req.Amount,
		req.Currency, req.Reason, string(req.Status),
	)

	created, err := scanFinancialRequest(row)
	if err != nil {
		return finance.FinancialRequest{}, fmt.Errorf("failed to create financial request: %w", err)
	}

	return created, nil
}

func (r *financialRequestRepository) GetByID(ctx context.Context, id string) (finance.FinancialRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + financialRequestColumns + ` FROM financial_requests WHERE id = $1`

	req, err := scanFinancialRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return finance.FinancialRequest{}, finance.ErrRequestNotFound
		}
		return finance.FinancialRequest{}, fmt.Errorf("failed to get financial request: %w", err)
	}

	return req, nil
}

func (r *financialRequestRepository) List(ctx context.Context, filter finance.RequestFilter) ([]finance.FinancialRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM financial_requests WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*)" + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count financial requests: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s %s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, financialRequestColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list financial requests: %w", err)
	}
	defer rows.Close()

	var requests []finance.FinancialRequest
	for rows.Next() {
		req, err := scanFinancialRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan financial request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, totalCount, nil
}

func (r *financialRequestRepository) ListRecoverable(ctx context.Context, employeeID string) ([]finance.FinancialRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + financialRequestColumns + `
		FROM financial_requests
		WHERE employee_id = $1
			AND status IN ('paid', 'recovering')
			AND amount_recovered < amount
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recoverable requests: %w", err)
	}
	defer rows.Close()

	var requests []finance.FinancialRequest
	for rows.Next() {
		req, err := scanFinancialRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func (r *financialRequestRepository) Approve(ctx context.Context, id, approver string, at time.Time) (finance.FinancialRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE financial_requests
		SET status = 'approved', approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + financialRequestColumns

	req, err := scanFinancialRequest(q.QueryRow(ctx, query, id, approver, at))
	if err != nil {
		if err == pgx.ErrNoRows {
			return finance.FinancialRequest{}, r.transitionError(ctx, id)
		}
		return finance.FinancialRequest{}, fmt.Errorf("failed to approve financial request: %w", err)
	}

	return req, nil
}

func (r *financialRequestRepository) Reject(ctx context.Context, id string) (finance.FinancialRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE financial_requests
		SET status = 'rejected', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + financialRequestColumns

	req, err := scanFinancialRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return finance.FinancialRequest{}, r.transitionError(ctx, id)
		}
		return finance.FinancialRequest{}, fmt.Errorf("failed to reject financial request: %w", err)
	}

	return req, nil
}

// Disburse fixes the repayment plan and opens the debt. Reimbursements owe
// nothing back, so the same statement recovers them in full and completes
// them immediately.
func (r *financialRequestRepository) Disburse(ctx context.Context, id string, plan finance.RepaymentPlan, at time.Time) (finance.FinancialRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE financial_requests
		SET status = CASE WHEN request_type = 'reimbursement' THEN 'completed' ELSE 'paid' END,
			paid_at = $4,
			repayment_type = $2,
			installment_months = $3,
			installment_amount = $5,
			amount_recovered = CASE WHEN request_type = 'reimbursement' THEN amount ELSE 0 END,
			recovery_complete_date = CASE WHEN request_type = 'reimbursement' THEN $4 ELSE recovery_complete_date END,
			updated_at = NOW()
		WHERE id = $1 AND status = 'approved'
		RETURNING ` + financialRequestColumns

	req, err := scanFinancialRequest(q.QueryRow(ctx, query, id, string(plan.Type), plan.InstallmentMonths, at, plan.InstallmentAmount))
	if err != nil {
		if err == pgx.ErrNoRows {
			return finance.FinancialRequest{}, r.transitionError(ctx, id)
		}
		return finance.FinancialRequest{}, fmt.Errorf("failed to disburse financial request: %w", err)
	}

	return req, nil
}

// ApplyRecovery moves the debt in one guarded statement so concurrent runs
// cannot double-apply a cycle or overshoot the balance.
func (r *financialRequestRepository) ApplyRecovery(ctx context.Context, id string, amount money.Amount, payrollRecordID string, at time.Time) (finance.FinancialRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE financial_requests
		SET amount_recovered = amount_recovered + $2,
			linked_payroll_ids = array_append(linked_payroll_ids, $3),
			status = CASE WHEN amount_recovered + $2 >= amount THEN 'completed' ELSE 'recovering' END,
			recovery_start_date = COALESCE(recovery_start_date, $4),
			recovery_complete_date = CASE WHEN amount_recovered + $2 >= amount THEN $4 ELSE recovery_complete_date END,
			updated_at = NOW()
		WHERE id = $1
			AND status IN ('paid', 'recovering')
			AND amount_recovered + $2 <= amount
			AND NOT ($3 = ANY(linked_payroll_ids))
		RETURNING ` + financialRequestColumns

	req, err := scanFinancialRequest(q.QueryRow(ctx, query, id, amount, payrollRecordID, at))
	if err != nil {
		if err == pgx.ErrNoRows {
			return finance.FinancialRequest{}, r.recoveryError(ctx, id, amount, payrollRecordID)
		}
		return finance.FinancialRequest{}, fmt.Errorf("failed to apply recovery: %w", err)
	}

	return req, nil
}

// transitionError disambiguates a zero-row guarded update.
func (r *financialRequestRepository) transitionError(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return finance.ErrInvalidTransition
}

func (r *financialRequestRepository) recoveryError(ctx context.Context, id string, amount money.Amount, payrollRecordID string) error {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Linked(payrollRecordID) {
		return finance.ErrAlreadyLinked
	}
	if !req.Recoverable() {
		return finance.ErrNotRecoverable
	}
	if amount > req.RemainingBalance {
		return finance.ErrRecoveryExceedsDebt
	}
	return finance.ErrNotRecoverable
}

// ========== SCANNING ==========

func scanFinancialRequest(row pgx.Row) (finance.FinancialRequest, error) {
	var req finance.FinancialRequest
	var requestType, status, repaymentType string

	err := row.Scan(
		&req.ID, &req.EmployeeID, &requestType, &req.Amount, &req.Currency, &req.Reason, &status,
		&repaymentType, &req.InstallmentMonths, &req.InstallmentAmount, &req.AmountRecovered,
		&req.LinkedPayrollIDs, &req.ApprovedAt, &req.ApprovedBy, &req.PaidAt,
		&req.RecoveryStartDate, &req.RecoveryCompleteDate, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return finance.FinancialRequest{}, err
	}

	req.RequestType = finance.RequestType(requestType)
	req.Status = finance.RequestStatus(status)
	req.RepaymentType = finance.RepaymentType(repaymentType)
	// Nothing is owed before disbursement.
	if req.PaidAt != nil {
		req.RemainingBalance = req.Amount - req.AmountRecovered
	}

	return req, nil
}
