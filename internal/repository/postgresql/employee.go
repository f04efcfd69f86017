package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// employeeDirectory reads the platform's employees table. Payroll never
// writes to it.
type employeeDirectory struct {
	db *database.DB
}

func NewEmployeeDirectory(db *database.DB) employee.Directory {
	return &employeeDirectory{db: db}
}

const employeeColumns = `
	id, full_name, email, department, position, employment_type, base_salary, currency
`

func (r *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND deleted_at IS NULL`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Position,
		&emp.EmploymentType, &emp.BaseSalary, &emp.Currency,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

func (r *employeeDirectory) GetByIDs(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ANY($1) AND deleted_at IS NULL`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	employees := make(map[string]employee.Employee)
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.Name, &emp.Email, &emp.Department, &emp.Position,
			&emp.EmploymentType, &emp.BaseSalary, &emp.Currency,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees[emp.ID] = emp
	}

	return employees, nil
}
