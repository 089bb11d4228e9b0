package payroll

import "time"

type Record struct {
	ID         int64     `json:"id"`
	NationalID string    `json:"nationalId"`
	Salary     float64   `json:"salary"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Recompute sets Salary from the base schedule and seniority.
func (r *Record) Recompute(category int, seniorityYears float64) error {
	salary, err := ComputeSalary(category, seniorityYears)
	if err != nil {
		return err
	}
	r.Salary = salary
	return nil
}
