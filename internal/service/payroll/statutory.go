package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"
	"github.com/google/uuid"
)

// DeriveStatutory produces one deduction per configured jurisdiction rate:
// amount = baseSalary * rate, rounded half-up to the minor unit. Output is
// deterministic for a given base salary and profile (stable ids, profile
// order preserved), so re-deriving is idempotent as long as the caller
// replaces prior statutory rows instead of appending. Statutory amounts are
// computed from base salary only; allowance taxability does not enter here.
func DeriveStatutory(baseSalary money.Amount, profile config.JurisdictionProfile) []payroll.Deduction {
	deductions := make([]payroll.Deduction, 0, len(profile.Rates))
	for _, rate := range profile.Rates {
		deductions = append(deductions, payroll.Deduction{
			ID:          statutoryRowID(profile.Code, rate.Name),
			Name:        rate.Name,
			Amount:      money.ApplyRate(baseSalary, rate.RateBps),
			Kind:        statutoryKind(rate.Kind),
			Description: fmt.Sprintf("%s statutory rate %d bps of base salary", profile.Code, rate.RateBps),
		})
	}
	return deductions
}

// statutoryRowID is content-addressed so that deriving twice yields
// identical rows.
func statutoryRowID(profileCode, rateName string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("statutory/"+profileCode+"/"+rateName)).String()
}

func statutoryKind(kind string) payroll.DeductionKind {
	switch payroll.DeductionKind(kind) {
	case payroll.DeductionKindTax, payroll.DeductionKindInsurance, payroll.DeductionKindRetirement:
		return payroll.DeductionKind(kind)
	default:
		return payroll.DeductionKindOther
	}
}
