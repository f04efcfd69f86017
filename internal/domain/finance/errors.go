package finance

import "errors"

var (
	ErrRequestNotFound      = errors.New("financial request not found")
	ErrInvalidTransition    = errors.New("invalid financial request status transition")
	ErrInvalidRepaymentPlan = errors.New("invalid repayment plan")
	ErrNotRecoverable       = errors.New("financial request is not recoverable")
	ErrRecoveryExceedsDebt  = errors.New("recovery amount exceeds remaining balance")

	// ErrAlreadyLinked is the idempotency guard: a recovery for this
	// (request, payroll record) pair was already applied. Callers retrying
	// a run treat it as a successful no-op.
	ErrAlreadyLinked = errors.New("recovery already applied for this payroll record")
)
