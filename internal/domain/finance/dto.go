package finance

import (
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// ========== REQUEST DTOs ==========

type CreateRequestRequest struct {
	EmployeeID  string `json:"employee_id"`
	RequestType string `json:"request_type"` // "advance", "loan" or "reimbursement"
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Reason      string `json:"reason"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	switch RequestType(r.RequestType) {
	case RequestTypeAdvance, RequestTypeLoan, RequestTypeReimbursement:
	default:
		errs = append(errs, validator.ValidationError{Field: "request_type", Message: "must be advance, loan or reimbursement"})
	}
	if r.Amount <= 0 {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if !validator.IsValidCurrency(r.Currency) {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "must be a three-letter uppercase code"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DisburseRequest carries the repayment plan set when an approved request
// is paid out. InstallmentAmount is an optional manual override; when zero
// the scheduler derives equal installments.
type DisburseRequest struct {
	ID                string
	RepaymentType     string `json:"repayment_type"` // "full" or "installments"
	InstallmentMonths int    `json:"installment_months,omitempty"`
	InstallmentAmount int64  `json:"installment_amount,omitempty"`
}

func (r *DisburseRequest) Validate() error {
	var errs validator.ValidationErrors

	switch RepaymentType(r.RepaymentType) {
	case RepaymentTypeFull:
		if r.InstallmentMonths != 0 || r.InstallmentAmount != 0 {
			errs = append(errs, validator.ValidationError{Field: "repayment_type", Message: "full repayment does not take installment fields"})
		}
	case RepaymentTypeInstallments:
		if r.InstallmentMonths <= 0 {
			errs = append(errs, validator.ValidationError{Field: "installment_months", Message: "must be positive for installment repayment"})
		}
		if r.InstallmentAmount < 0 {
			errs = append(errs, validator.ValidationError{Field: "installment_amount", Message: "must be non-negative"})
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "repayment_type", Message: "must be full or installments"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSE DTOs ==========

type FinancialRequestResponse struct {
	ID                   string   `json:"id"`
	EmployeeID           string   `json:"employee_id"`
	RequestType          string   `json:"request_type"`
	Amount               int64    `json:"amount"`
	Currency             string   `json:"currency"`
	Reason               string   `json:"reason,omitempty"`
	Status               string   `json:"status"`
	RepaymentType        string   `json:"repayment_type,omitempty"`
	InstallmentMonths    int      `json:"installment_months,omitempty"`
	InstallmentAmount    int64    `json:"installment_amount,omitempty"`
	AmountRecovered      int64    `json:"amount_recovered"`
	RemainingBalance     int64    `json:"remaining_balance"`
	LinkedPayrollIDs     []string `json:"linked_payroll_ids,omitempty"`
	ApprovedAt           *string  `json:"approved_at,omitempty"`
	ApprovedBy           string   `json:"approved_by,omitempty"`
	PaidAt               *string  `json:"paid_at,omitempty"`
	RecoveryStartDate    *string  `json:"recovery_start_date,omitempty"`
	RecoveryCompleteDate *string  `json:"recovery_complete_date,omitempty"`
}

type RequestFilter struct {
	EmployeeID *string
	Status     *string
	Page       int
	Limit      int
}

type ListRequestResponse struct {
	Data       []FinancialRequestResponse `json:"data"`
	TotalCount int64                      `json:"total_count"`
	Page       int                        `json:"page"`
	Limit      int                        `json:"limit"`
}
