package employee

import (
	"context"
	"errors"
	"sort"

	"paydesk/internal/domain/audit"
	"paydesk/internal/domain/payroll"
)

type fakePayroll struct {
	records map[string]payroll.Record
	nextID  int64
	saves   int
}

func newFakePayroll() *fakePayroll {
	return &fakePayroll{records: map[string]payroll.Record{}}
}

func (f *fakePayroll) FindByNationalID(_ context.Context, nationalID string) (payroll.Record, error) {
	rec, ok := f.records[nationalID]
	if !ok {
		return payroll.Record{}, payroll.ErrNotFound
	}
	return rec, nil
}

func (f *fakePayroll) Save(_ context.Context, rec payroll.Record) (payroll.Record, error) {
	f.saves++
	if rec.ID == 0 {
		f.nextID++
		rec.ID = f.nextID
	}
	f.records[rec.NationalID] = rec
	return rec, nil
}

// rename mirrors ON UPDATE CASCADE on the payroll foreign key.
func (f *fakePayroll) rename(fromID, toID string) {
	rec, ok := f.records[fromID]
	if !ok {
		return
	}
	delete(f.records, fromID)
	rec.NationalID = toID
	f.records[toID] = rec
}

type fakeEmployees struct {
	rows    map[string]Employee
	payroll *fakePayroll
	findErr error
}

func newFakeEmployees(p *fakePayroll) *fakeEmployees {
	return &fakeEmployees{rows: map[string]Employee{}, payroll: p}
}

func (f *fakeEmployees) withSalary(emp Employee) Employee {
	if rec, ok := f.payroll.records[emp.NationalID]; ok {
		salary := rec.Salary
		emp.Salary = &salary
	}
	return emp
}

func (f *fakeEmployees) List(_ context.Context, status Status, filter Filter) ([]Employee, error) {
	var out []Employee
	for _, emp := range f.rows {
		emp = f.withSalary(emp)
		if emp.Status == status && filter.Matches(emp) {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NationalID < out[j].NationalID })
	return out, nil
}

func (f *fakeEmployees) Find(_ context.Context, nationalID string) (Employee, error) {
	if f.findErr != nil {
		return Employee{}, f.findErr
	}
	emp, ok := f.rows[nationalID]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return f.withSalary(emp), nil
}

func (f *fakeEmployees) Save(_ context.Context, emp Employee) (Employee, error) {
	emp.Salary = nil
	f.rows[emp.NationalID] = emp
	return emp, nil
}

func (f *fakeEmployees) Rename(_ context.Context, fromID, toID string) error {
	if _, taken := f.rows[toID]; taken {
		return ErrConflict
	}
	emp, ok := f.rows[fromID]
	if !ok {
		return ErrNotFound
	}
	delete(f.rows, fromID)
	emp.NationalID = toID
	f.rows[toID] = emp
	f.payroll.rename(fromID, toID)
	return nil
}

func (f *fakeEmployees) SetStatus(_ context.Context, nationalID string, status Status) error {
	emp, ok := f.rows[nationalID]
	if !ok {
		return ErrNotFound
	}
	emp.Status = status
	f.rows[nationalID] = emp
	return nil
}

type fakeAudit struct {
	events []audit.Event
	err    error
}

func (f *fakeAudit) Record(_ context.Context, evt audit.Event) error {
	f.events = append(f.events, evt)
	return f.err
}

// failingTx runs fn against the plain repositories and then reports a failure,
// standing in for a commit that did not go through.
type failingTx struct {
	repos Repositories
	calls int
}

var errCommit = errors.New("commit failed")

func (f *failingTx) WithinTx(_ context.Context, fn func(Repositories) error) error {
	f.calls++
	if err := fn(f.repos); err != nil {
		return err
	}
	return errCommit
}
