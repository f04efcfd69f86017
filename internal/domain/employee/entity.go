package employee

import "github.com/cmlabs-hris/payroll-engine-go/internal/pkg/money"

// Employee is the read model this engine consumes from the platform's
// employee directory. The engine never mutates directory data.
type Employee struct {
	ID             string
	Name           string
	Email          string
	Department     string
	Position       string
	EmploymentType string
	BaseSalary     money.Amount
	Currency       string
}
