package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/finance"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this employee and period")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, "Payment status transition not allowed")
	case errors.Is(err, payroll.ErrCannotDeleteNonPending):
		Conflict(w, "Only pending payroll records can be deleted")
	case errors.Is(err, payroll.ErrPayslipNotAvailable):
		Conflict(w, "Payslip is only available for paid records")
	case errors.Is(err, payroll.ErrInvalidPeriodStart):
		BadRequest(w, "Invalid period start date for the requested cadence", nil)
	case errors.Is(err, payroll.ErrInvalidCadence):
		BadRequest(w, "Invalid pay cadence", nil)
	case errors.Is(err, payroll.ErrLedgerInconsistency):
		InternalServerError(w, "Payroll record created but ledger recovery failed; record flagged for reconciliation")

	// Financial request domain errors
	case errors.Is(err, finance.ErrRequestNotFound):
		NotFound(w, "Financial request not found")
	case errors.Is(err, finance.ErrInvalidTransition):
		Conflict(w, "Financial request status transition not allowed")
	case errors.Is(err, finance.ErrInvalidRepaymentPlan):
		BadRequest(w, "Invalid repayment plan for this request type", nil)
	case errors.Is(err, finance.ErrNotRecoverable):
		Conflict(w, "Financial request is not recoverable")
	case errors.Is(err, finance.ErrRecoveryExceedsDebt):
		Conflict(w, "Recovery amount exceeds the remaining balance")
	case errors.Is(err, finance.ErrAlreadyLinked):
		Conflict(w, "Recovery already applied for this payroll record")

	// Employee directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNoSalary):
		BadRequest(w, "Employee has no base salary configured", nil)
	case errors.Is(err, employee.ErrEmployeeNoPayData):
		BadRequest(w, "Employee has no pay data", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
