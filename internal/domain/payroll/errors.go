package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrInvalidStatusTransition    = errors.New("invalid payment status transition")
	ErrCannotDeleteNonPending     = errors.New("only pending payroll records can be deleted")
	ErrPayslipNotAvailable        = errors.New("payslip is only available for paid records")
	ErrInvalidPeriodStart         = errors.New("invalid pay period start date for cadence")
	ErrInvalidCadence             = errors.New("invalid pay period cadence")
	ErrLedgerInconsistency        = errors.New("payroll record persisted but ledger recovery application failed")
)
