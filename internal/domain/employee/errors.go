package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeNoSalary  = errors.New("employee has no base salary configured")
	ErrEmployeeNoPayData = errors.New("employee directory returned incomplete pay data")
)
