package employee

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var nationalIDPattern = regexp.MustCompile(`^\d{8}[A-Z]$`)

// ValidationError lists every rule an employee violates, in field order.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// Validate returns a *ValidationError when emp breaks any rule, nil otherwise.
func Validate(emp Employee) error {
	var violations []string

	if !nationalIDPattern.MatchString(emp.NationalID) {
		violations = append(violations, "national ID must be 8 digits followed by an uppercase letter")
	}
	if strings.TrimSpace(emp.Name) == "" {
		violations = append(violations, "name must not be blank")
	}
	if utf8.RuneCountInString(emp.Name) > MaxNameLength {
		violations = append(violations, "name must be at most 50 characters")
	}
	switch emp.Sex {
	case SexMale, SexFemale, SexIndeterminate:
	default:
		violations = append(violations, "sex must be M, F or I")
	}
	if emp.Category < MinCategory {
		violations = append(violations, "category must be at least 1")
	}
	if emp.Category > MaxCategory {
		violations = append(violations, "category must be at most 9")
	}
	if math.IsNaN(emp.SeniorityYears) || emp.SeniorityYears < MinSeniorityYears {
		violations = append(violations, "seniority years must be at least 0")
	}
	if emp.SeniorityYears > MaxSeniorityYears {
		violations = append(violations, "seniority years must be at most 54")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
