package payroll

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// Monetary fields on the wire are int64 minor units, matching the money model.

// ========== GENERATION DTOs ==========

type AllowanceInput struct {
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"` // "fixed" or "variable"
	Taxable     bool   `json:"taxable"`
	Description string `json:"description,omitempty"`
}

type DeductionInput struct {
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"` // "tax", "insurance", "retirement", "loan", "other"
	Description string `json:"description,omitempty"`
}

type GeneratePayrollItem struct {
	EmployeeID    string           `json:"employee_id"`
	Overtime      int64            `json:"overtime"`
	Bonuses       int64            `json:"bonuses"`
	Allowances    []AllowanceInput `json:"allowances,omitempty"`
	Deductions    []DeductionInput `json:"deductions,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
}

type GeneratePayrollRequest struct {
	PeriodStart string                `json:"period_start"` // "2006-01-02"
	Cadence     string                `json:"cadence"`
	Items       []GeneratePayrollItem `json:"items"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.PeriodStart); !ok {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	switch Cadence(r.Cadence) {
	case CadenceWeekly, CadenceBiweekly, CadenceSemimonthly, CadenceMonthly:
	default:
		errs = append(errs, validator.ValidationError{Field: "cadence", Message: "must be weekly, biweekly, semimonthly or monthly"})
	}
	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{Field: "items", Message: "at least one employee is required"})
	}

	seen := make(map[string]bool)
	for i, item := range r.Items {
		field := "items[" + validator.Itoa(i) + "]"
		if validator.IsEmpty(item.EmployeeID) {
			errs = append(errs, validator.ValidationError{Field: field + ".employee_id", Message: "is required"})
		} else if seen[item.EmployeeID] {
			errs = append(errs, validator.ValidationError{Field: field + ".employee_id", Message: "is duplicated"})
		}
		seen[item.EmployeeID] = true

		if item.Overtime < 0 {
			errs = append(errs, validator.ValidationError{Field: field + ".overtime", Message: "must be non-negative"})
		}
		if item.Bonuses < 0 {
			errs = append(errs, validator.ValidationError{Field: field + ".bonuses", Message: "must be non-negative"})
		}
		for j, a := range item.Allowances {
			if validator.IsEmpty(a.Name) || a.Amount < 0 {
				errs = append(errs, validator.ValidationError{Field: field + ".allowances[" + validator.Itoa(j) + "]", Message: "requires a name and a non-negative amount"})
			}
		}
		for j, d := range item.Deductions {
			if validator.IsEmpty(d.Name) || d.Amount < 0 {
				errs = append(errs, validator.ValidationError{Field: field + ".deductions[" + validator.Itoa(j) + "]", Message: "requires a name and a non-negative amount"})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePaymentStatusRequest struct {
	ID     string
	Status string `json:"status"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	switch PaymentStatus(r.Status) {
	case PaymentStatusProcessing, PaymentStatusPaid, PaymentStatusCancelled:
	default:
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be processing, paid or cancelled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RECORD DTOs ==========

type PayPeriodResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	PayDate   string `json:"pay_date"`
	Cadence   string `json:"cadence"`
	Status    string `json:"status"`
}

type AllowanceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Amount      int64  `json:"amount"`
	Kind        string `json:"kind"`
	Taxable     bool   `json:"taxable"`
	Description string `json:"description,omitempty"`
}

type DeductionResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Amount          int64  `json:"amount"`
	Kind            string `json:"kind"`
	Description     string `json:"description,omitempty"`
	SourceRequestID string `json:"source_request_id,omitempty"`
}

type PayrollRecordResponse struct {
	ID                  string              `json:"id"`
	EmployeeID          string              `json:"employee_id"`
	EmployeeName        string              `json:"employee_name"`
	Department          string              `json:"department,omitempty"`
	Position            string              `json:"position,omitempty"`
	Period              PayPeriodResponse   `json:"period"`
	BaseSalary          int64               `json:"base_salary"`
	Overtime            int64               `json:"overtime"`
	Bonuses             int64               `json:"bonuses"`
	Allowances          []AllowanceResponse `json:"allowances"`
	Deductions          []DeductionResponse `json:"deductions"`
	GrossPay            int64               `json:"gross_pay"`
	TotalDeductions     int64               `json:"total_deductions"`
	NetPay              int64               `json:"net_pay"`
	PaymentStatus       string              `json:"payment_status"`
	PaymentDate         *string             `json:"payment_date,omitempty"`
	PaymentMethod       string              `json:"payment_method,omitempty"`
	Currency            string              `json:"currency"`
	NeedsReview         bool                `json:"needs_review"`
	NeedsReconciliation bool                `json:"needs_reconciliation"`
}

type PayrollFilter struct {
	EmployeeID  *string
	Status      *string
	PeriodStart *string
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodStart         string `json:"period_start"`
	TotalEmployees      int    `json:"total_employees"`
	TotalGrossPay       int64  `json:"total_gross_pay"`
	TotalDeductions     int64  `json:"total_deductions"`
	TotalNetPay         int64  `json:"total_net_pay"`
	PendingCount        int    `json:"pending_count"`
	PaidCount           int    `json:"paid_count"`
	NeedsReviewCount    int    `json:"needs_review_count"`
	ReconciliationCount int    `json:"reconciliation_count"`
}
