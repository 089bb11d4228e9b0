package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"paydesk/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) FindByNationalID(ctx context.Context, nationalID string) (Record, error) {
	var rec Record
	err := s.DB.QueryRow(ctx, `
    SELECT id, national_id, salary, updated_at
    FROM payroll_records
    WHERE national_id = $1
  `, nationalID).Scan(&rec.ID, &rec.NationalID, &rec.Salary, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find payroll record: %w", err)
	}
	return rec, nil
}

// Save inserts records without an ID and overwrites the salary of existing ones.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == 0 {
		err := s.DB.QueryRow(ctx, `
      INSERT INTO payroll_records (national_id, salary)
      VALUES ($1, $2)
      RETURNING id, updated_at
    `, rec.NationalID, rec.Salary).Scan(&rec.ID, &rec.UpdatedAt)
		if err != nil {
			return Record{}, fmt.Errorf("insert payroll record: %w", err)
		}
		return rec, nil
	}

	err := s.DB.QueryRow(ctx, `
    UPDATE payroll_records
    SET national_id = $1, salary = $2, updated_at = now()
    WHERE id = $3
    RETURNING updated_at
  `, rec.NationalID, rec.Salary, rec.ID).Scan(&rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("update payroll record: %w", err)
	}
	return rec, nil
}
