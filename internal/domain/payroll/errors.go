package payroll

import "errors"

var (
	ErrNotFound           = errors.New("payroll record not found")
	ErrCategoryOutOfRange = errors.New("category outside base schedule")
)
