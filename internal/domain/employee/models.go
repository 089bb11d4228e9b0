package employee

import (
	"fmt"
	"strings"
	"time"
)

type Employee struct {
	NationalID     string    `json:"nationalId"`
	Name           string    `json:"name"`
	Sex            string    `json:"sex"`
	Category       int       `json:"category"`
	SeniorityYears float64   `json:"seniorityYears"`
	Status         Status    `json:"status"`
	Salary         *float64  `json:"salary,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (e Employee) Active() bool {
	return e.Status == StatusActive
}

// SexLabel is the display form of Sex.
func (e Employee) SexLabel() string {
	switch e.Sex {
	case SexFemale:
		return "Female"
	case SexMale:
		return "Male"
	default:
		return "N/C"
	}
}

// SetNationalID stores the ID uppercased.
func (e *Employee) SetNationalID(nationalID string) {
	e.NationalID = strings.ToUpper(nationalID)
}

// SetCategory accepts the full base schedule range, one wider than validation allows.
func (e *Employee) SetCategory(category int) error {
	if category < MinCategory || category > MaxSettableCategory {
		return fmt.Errorf("%w: got %d", ErrCategoryRange, category)
	}
	e.Category = category
	return nil
}
