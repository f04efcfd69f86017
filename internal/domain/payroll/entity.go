package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
)

// Cadence enum
type Cadence string

const (
	CadenceWeekly      Cadence = "weekly"
	CadenceBiweekly    Cadence = "biweekly"
	CadenceSemimonthly Cadence = "semimonthly"
	CadenceMonthly     Cadence = "monthly"
)

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "open"
	PeriodStatusClosed PeriodStatus = "closed"
)

// PayPeriod - the date range one payroll run covers plus its disbursement date.
// EndDate and PayDate are derived from StartDate and Cadence, never stored
// independently of them.
type PayPeriod struct {
	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time
	Cadence   Cadence
	Status    PeriodStatus
}

// AllowanceKind enum
type AllowanceKind string

const (
	AllowanceKindFixed    AllowanceKind = "fixed"
	AllowanceKindVariable AllowanceKind = "variable"
)

// Allowance - an earning line on top of base salary.
type Allowance struct {
	ID          string
	Name        string
	Amount      money.Amount
	Kind        AllowanceKind
	Taxable     bool
	Description string
}

// DeductionKind enum
type DeductionKind string

const (
	DeductionKindTax        DeductionKind = "tax"
	DeductionKindInsurance  DeductionKind = "insurance"
	DeductionKindRetirement DeductionKind = "retirement"
	DeductionKindLoan       DeductionKind = "loan"
	DeductionKindOther      DeductionKind = "other"
)

// Deduction - a single deduction line. Loan-kind rows generated by the
// recovery scheduler carry SourceRequestID pointing at the financial
// request they recover.
type Deduction struct {
	ID              string
	Name            string
	Amount          money.Amount
	Kind            DeductionKind
	Description     string
	SourceRequestID string
}

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// PayrollRecord - one finalized pay computation for one employee and one
// pay period. Immutable once paid except for status bookkeeping.
type PayrollRecord struct {
	ID              string
	EmployeeID      string
	EmployeeName    string
	Department      string
	Position        string
	Period          PayPeriod
	BaseSalary      money.Amount
	Overtime        money.Amount
	Bonuses         money.Amount
	Allowances      []Allowance
	Deductions      []Deduction
	GrossPay        money.Amount
	TotalDeductions money.Amount
	NetPay          money.Amount
	PaymentStatus   PaymentStatus
	PaymentDate     *time.Time
	PaymentMethod   string
	Currency        string

	// NeedsReview is set when net pay was clamped to zero because
	// deductions exceeded gross pay.
	NeedsReview bool
	// NeedsReconciliation is set when the record was persisted but one or
	// more ledger recovery applications failed afterwards.
	NeedsReconciliation bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo reports whether the payment status machine allows moving
// from the record's current status to next. Paid is only reachable through
// processing; paid and cancelled are terminal.
func (r *PayrollRecord) CanTransitionTo(next PaymentStatus) bool {
	switch r.PaymentStatus {
	case PaymentStatusPending:
		return next == PaymentStatusProcessing || next == PaymentStatusCancelled
	case PaymentStatusProcessing:
		return next == PaymentStatusPaid || next == PaymentStatusCancelled
	default:
		return false
	}
}

// RecoveryDeductions returns the loan-kind rows that were generated from
// financial requests.
func (r *PayrollRecord) RecoveryDeductions() []Deduction {
	var out []Deduction
	for _, d := range r.Deductions {
		if d.Kind == DeductionKindLoan && d.SourceRequestID != "" {
			out = append(out, d)
		}
	}
	return out
}
