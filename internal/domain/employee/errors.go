package employee

import "errors"

var (
	ErrNotFound       = errors.New("employee not found")
	ErrConflict       = errors.New("national ID already registered")
	ErrInvalidFilter  = errors.New("invalid filter value")
	ErrPayrollMissing = errors.New("employee has no payroll record")
	ErrCategoryRange  = errors.New("category must be between 1 and 10")
)
