package indexhandler

import "paydesk/internal/domain/employee"

// employeeRow is an employee as listed in views, with its sex label resolved.
type employeeRow struct {
	NationalID     string   `json:"nationalId"`
	Name           string   `json:"name"`
	Sex            string   `json:"sex"`
	SexLabel       string   `json:"sexLabel"`
	Category       int      `json:"category"`
	SeniorityYears float64  `json:"seniorityYears"`
	Salary         *float64 `json:"salary,omitempty"`
}

func presentOne(emp employee.Employee) employeeRow {
	return employeeRow{
		NationalID:     emp.NationalID,
		Name:           emp.Name,
		Sex:            emp.Sex,
		SexLabel:       emp.SexLabel(),
		Category:       emp.Category,
		SeniorityYears: emp.SeniorityYears,
		Salary:         emp.Salary,
	}
}

func present(employees []employee.Employee) []employeeRow {
	rows := make([]employeeRow, 0, len(employees))
	for _, emp := range employees {
		rows = append(rows, presentOne(emp))
	}
	return rows
}
