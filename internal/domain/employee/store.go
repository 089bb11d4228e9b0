package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"paydesk/internal/domain/payroll"
	"paydesk/internal/platform/db"
)

const uniqueViolation = "23505"

const selectEmployee = `
    SELECT e.national_id, e.name, e.sex, e.category, e.seniority_years, e.status,
           e.created_at, e.updated_at, p.salary
    FROM employees e
    LEFT JOIN payroll_records p ON p.national_id = e.national_id
`

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) List(ctx context.Context, status Status, filter Filter) ([]Employee, error) {
	query, args := listQuery(status, filter)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

func listQuery(status Status, filter Filter) (string, []any) {
	query := selectEmployee + "    WHERE e.status = $1"
	args := []any{string(status)}
	if cond, arg, ok := filter.clause(len(args) + 1); ok {
		query += " AND " + cond
		args = append(args, arg)
	}
	query += "\n    ORDER BY e.name, e.national_id"
	return query, args
}

func (s *Store) Find(ctx context.Context, nationalID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, selectEmployee+"    WHERE e.national_id = $1", nationalID)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("find employee: %w", err)
	}
	return emp, nil
}

func (s *Store) Save(ctx context.Context, emp Employee) (Employee, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (national_id, name, sex, category, seniority_years, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (national_id) DO UPDATE
    SET name = EXCLUDED.name,
        sex = EXCLUDED.sex,
        category = EXCLUDED.category,
        seniority_years = EXCLUDED.seniority_years,
        status = EXCLUDED.status,
        updated_at = now()
    RETURNING created_at, updated_at
  `, emp.NationalID, emp.Name, emp.Sex, emp.Category, emp.SeniorityYears, string(emp.Status)).
		Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, fmt.Errorf("save employee: %w", err)
	}
	return emp, nil
}

func (s *Store) Rename(ctx context.Context, fromID, toID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET national_id = $1, updated_at = now()
    WHERE national_id = $2
  `, toID, fromID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("rename employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, nationalID string, status Status) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $1, updated_at = now()
    WHERE national_id = $2
  `, string(status), nationalID)
	if err != nil {
		return fmt.Errorf("set employee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var status string
	err := row.Scan(&emp.NationalID, &emp.Name, &emp.Sex, &emp.Category, &emp.SeniorityYears,
		&status, &emp.CreatedAt, &emp.UpdatedAt, &emp.Salary)
	emp.Status = Status(status)
	return emp, err
}

// PgTransactor binds the employee and payroll stores to one pgx transaction.
type PgTransactor struct {
	Pool *pgxpool.Pool
}

func (t PgTransactor) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return db.WithinTx(ctx, t.Pool, func(tx pgx.Tx) error {
		return fn(Repositories{
			Employees: NewStore(tx),
			Payroll:   payroll.NewStore(tx),
		})
	})
}
