package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// allowanceRow / deductionRow are the jsonb storage shapes for the line
// item columns.
type allowanceRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
	Taxable     bool   `json:"taxable"`
	Description string `json:"description,omitempty"`
}

type deductionRow struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Amount          int64  `json:"amount"`
	Kind            string `json:"kind"`
	Description     string `json:"description,omitempty"`
	SourceRequestID string `json:"source_request_id,omitempty"`
}

const payrollRecordColumns = `
	id, employee_id, employee_name, department, position,
	period_start, period_end, pay_date, cadence, period_status,
	base_salary, overtime, bonuses, allowances, deductions,
	gross_pay, total_deductions, net_pay,
	payment_status, payment_date, payment_method, currency,
	needs_review, needs_reconciliation, created_at, updated_at
`

func (r *payrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	allowancesJSON, _ := json.Marshal(allowanceRows(record.Allowances))
	deductionsJSON, _ := json.Marshal(deductionRows(record.Deductions))

	query := `
		INSERT INTO payroll_records (
			id, employee_id, employee_name, department, position,
			period_start, period_end, pay_date, cadence, period_status,
			base_salary, overtime, bonuses, allowances, deductions,
			gross_pay, total_deductions, net_pay,
			payment_status, payment_method, currency,
			needs_review, needs_reconciliation
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING ` + payrollRecordColumns

	row := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.EmployeeName, record.Department, record.Position,
		record.Period.StartDate, record.Period.EndDate, record.Period.PayDate,
		string(record.Period.Cadence), string(payroll.PeriodStatusOpen),
		record.BaseSalary, record.Overtime, record.Bonuses, allowancesJSON, deductionsJSON,
		record.GrossPay, record.TotalDeductions, record.NetPay,
		string(record.PaymentStatus), record.PaymentMethod, record.Currency,
		record.NeedsReview, record.NeedsReconciliation,
	)

	created, err := scanPayrollRecord(row)
	if err != nil {
		if strings.Contains(err.Error(), "uk_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE id = $1`

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, periodStart time.Time) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE employee_id = $1 AND period_start = $2`

	record, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, periodStart))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_records WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND payment_status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodStart != nil {
		baseQuery += fmt.Sprintf(" AND period_start = $%d", argIdx)
		args = append(args, *filter.PeriodStart)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*)" + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	sortColumn := "created_at"
	if filter.SortBy != "" {
		allowedColumns := map[string]string{
			"created_at":    "created_at",
			"period_start":  "period_start",
			"employee_name": "employee_name",
			"net_pay":       "net_pay",
		}
		if col, ok := allowedColumns[filter.SortBy]; ok {
			sortColumn = col
		}
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
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
		ORDER BY %s %s, id
		LIMIT $%d OFFSET $%d
	`, payrollRecordColumns, baseQuery, sortColumn, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		record, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, status payroll.PaymentStatus, paymentDate *time.Time) error {
	q := GetQuerier(ctx, r.db)

	// Paid closes the pay period in the same statement. Paid and cancelled
	// are terminal, so the guard keeps a concurrent retry from moving a
	// record out of either.
	query := `
		UPDATE payroll_records
		SET payment_status = $2,
			payment_date = COALESCE($3, payment_date),
			period_status = CASE WHEN $2 = 'paid' THEN 'closed' ELSE period_status END,
			updated_at = NOW()
		WHERE id = $1 AND payment_status NOT IN ('paid', 'cancelled')
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, string(status), paymentDate).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.statusTransitionError(ctx, id)
		}
		return fmt.Errorf("failed to update payroll record status: %w", err)
	}

	return nil
}

// statusTransitionError disambiguates a zero-row status update: either the
// record is gone or it already reached a terminal status.
func (r *payrollRepository) statusTransitionError(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return payroll.ErrInvalidStatusTransition
}

func (r *payrollRepository) SetReconciliation(ctx context.Context, id string, needs bool) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE payroll_records SET needs_reconciliation = $2, updated_at = NOW() WHERE id = $1 RETURNING id`

	var updatedID string
	err := q.QueryRow(ctx, query, id, needs).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to set reconciliation flag: %w", err)
	}

	return nil
}

func (r *payrollRepository) ListNeedingReconciliation(ctx context.Context) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRecordColumns + ` FROM payroll_records WHERE needs_reconciliation ORDER BY id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list records needing reconciliation: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		record, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Delete removes a pending record. The status check and the delete run in
// one transaction with the row locked, so a concurrent status change
// cannot slip between them.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `SELECT payment_status FROM payroll_records WHERE id = $1 FOR UPDATE`, id).Scan(&status)
		if err != nil {
			if err == pgx.ErrNoRows {
				return payroll.ErrPayrollRecordNotFound
			}
			return fmt.Errorf("failed to check payroll record status: %w", err)
		}
		if status != string(payroll.PaymentStatusPending) {
			return payroll.ErrCannotDeleteNonPending
		}

		if _, err := tx.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete payroll record: %w", err)
		}
		return nil
	})
}

func (r *payrollRepository) Summary(ctx context.Context, periodStart time.Time) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) as total_employees,
			COALESCE(SUM(gross_pay), 0) as total_gross_pay,
			COALESCE(SUM(total_deductions), 0) as total_deductions,
			COALESCE(SUM(net_pay), 0) as total_net_pay,
			COUNT(*) FILTER (WHERE payment_status = 'pending') as pending_count,
			COUNT(*) FILTER (WHERE payment_status = 'paid') as paid_count,
			COUNT(*) FILTER (WHERE needs_review) as needs_review_count,
			COUNT(*) FILTER (WHERE needs_reconciliation) as reconciliation_count
		FROM payroll_records
		WHERE period_start = $1
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, periodStart).Scan(
		&summary.TotalEmployees, &summary.TotalGrossPay, &summary.TotalDeductions, &summary.TotalNetPay,
		&summary.PendingCount, &summary.PaidCount, &summary.NeedsReviewCount, &summary.ReconciliationCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.PeriodStart = periodStart.Format("2006-01-02")

	return summary, nil
}

// ========== SCANNING ==========

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	var cadence, periodStatus, paymentStatus string
	var allowancesBytes, deductionsBytes []byte

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Department, &rec.Position,
		&rec.Period.StartDate, &rec.Period.EndDate, &rec.Period.PayDate, &cadence, &periodStatus,
		&rec.BaseSalary, &rec.Overtime, &rec.Bonuses, &allowancesBytes, &deductionsBytes,
		&rec.GrossPay, &rec.TotalDeductions, &rec.NetPay,
		&paymentStatus, &rec.PaymentDate, &rec.PaymentMethod, &rec.Currency,
		&rec.NeedsReview, &rec.NeedsReconciliation, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	rec.Period.Cadence = payroll.Cadence(cadence)
	rec.Period.Status = payroll.PeriodStatus(periodStatus)
	rec.PaymentStatus = payroll.PaymentStatus(paymentStatus)

	var aRows []allowanceRow
	_ = json.Unmarshal(allowancesBytes, &aRows)
	for _, a := range aRows {
		rec.Allowances = append(rec.Allowances, payroll.Allowance{
			ID:          a.ID,
			Name:        a.Name,
			Amount:      money.Amount(a.Amount),
			Kind:        payroll.AllowanceKind(a.Kind),
			Taxable:     a.Taxable,
			Description: a.Description,
		})
	}

	var dRows []deductionRow
	_ = json.Unmarshal(deductionsBytes, &dRows)
	for _, d := range dRows {
		rec.Deductions = append(rec.Deductions, payroll.Deduction{
			ID:              d.ID,
			Name:            d.Name,
			Amount:          money.Amount(d.Amount),
			Kind:            payroll.DeductionKind(d.Kind),
			Description:     d.Description,
			SourceRequestID: d.SourceRequestID,
		})
	}

	return rec, nil
}

func allowanceRows(allowances []payroll.Allowance) []allowanceRow {
	rows := make([]allowanceRow, 0, len(allowances))
	for _, a := range allowances {
		rows = append(rows, allowanceRow{
			ID:          a.ID,
			Name:        a.Name,
			Amount:      int64(a.Amount),
			Kind:        string(a.Kind),
			Taxable:     a.Taxable,
			Description: a.Description,
		})
	}
	return rows
}

func deductionRows(deductions []payroll.Deduction) []deductionRow {
	rows := make([]deductionRow, 0, len(deductions))
	for _, d := range deductions {
		rows = append(rows, deductionRow{
			ID:              d.ID,
			Name:            d.Name,
			Amount:          int64(d.Amount),
			Kind:            string(d.Kind),
			Description:     d.Description,
			SourceRequestID: d.SourceRequestID,
		})
	}
	return rows
}
