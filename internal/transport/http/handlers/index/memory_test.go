package indexhandler

import (
	"context"
	"sort"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/employee"
	"paydesk/internal/domain/payroll"
)

type memoryPayroll struct {
	records map[string]payroll.Record
	nextID  int64
}

func (m *memoryPayroll) FindByNationalID(_ context.Context, nationalID string) (payroll.Record, error) {
	rec, ok := m.records[nationalID]
	if !ok {
		return payroll.Record{}, payroll.ErrNotFound
	}
	return rec, nil
}

func (m *memoryPayroll) Save(_ context.Context, rec payroll.Record) (payroll.Record, error) {
	if rec.ID == 0 {
		m.nextID++
		rec.ID = m.nextID
	}
	m.records[rec.NationalID] = rec
	return rec, nil
}

type memoryEmployees struct {
	rows    map[string]employee.Employee
	payroll *memoryPayroll
}

func (m *memoryEmployees) withSalary(emp employee.Employee) employee.Employee {
	if rec, ok := m.payroll.records[emp.NationalID]; ok {
		salary := rec.Salary
		emp.Salary = &salary
	}
	return emp
}

func (m *memoryEmployees) List(_ context.Context, status employee.Status, filter employee.Filter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range m.rows {
		emp = m.withSalary(emp)
		if emp.Status == status && filter.Matches(emp) {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NationalID < out[j].NationalID })
	return out, nil
}

func (m *memoryEmployees) Find(_ context.Context, nationalID string) (employee.Employee, error) {
	emp, ok := m.rows[nationalID]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return m.withSalary(emp), nil
}

func (m *memoryEmployees) Save(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	emp.Salary = nil
	m.rows[emp.NationalID] = emp
	return emp, nil
}

func (m *memoryEmployees) Rename(_ context.Context, fromID, toID string) error {
	if _, taken := m.rows[toID]; taken {
		return employee.ErrConflict
	}
	emp, ok := m.rows[fromID]
	if !ok {
		return employee.ErrNotFound
	}
	delete(m.rows, fromID)
	emp.NationalID = toID
	m.rows[toID] = emp
	if rec, ok := m.payroll.records[fromID]; ok {
		delete(m.payroll.records, fromID)
		rec.NationalID = toID
		m.payroll.records[toID] = rec
	}
	return nil
}

func (m *memoryEmployees) SetStatus(_ context.Context, nationalID string, status employee.Status) error {
	emp, ok := m.rows[nationalID]
	if !ok {
		return employee.ErrNotFound
	}
	emp.Status = status
	m.rows[nationalID] = emp
	return nil
}

type adminStore struct {
	admin auth.Administrator
}

func (a adminStore) FindAdministrator(_ context.Context, nationalID, email string) (auth.Administrator, error) {
	if nationalID != a.admin.NationalID || email != a.admin.Email {
		return auth.Administrator{}, auth.ErrNotFound
	}
	return a.admin, nil
}

type recordingSink struct {
	events []audit.Event
}

func (r *recordingSink) Record(_ context.Context, evt audit.Event) error {
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingSink) actions() []string {
	out := make([]string, 0, len(r.events))
	for _, evt := range r.events {
		out = append(out, evt.Action)
	}
	return out
}

type registrationCounter struct {
	count int
}

func (c *registrationCounter) EmployeeRegistered() {
	c.count++
}
