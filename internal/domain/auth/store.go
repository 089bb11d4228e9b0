package auth

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

func (s *Store) FindAdministrator(ctx context.Context, nationalID, email string) (Administrator, error) {
	var out Administrator
	err := s.DB.QueryRow(ctx, `
    SELECT national_id, email, password_hash
    FROM administrators
    WHERE national_id = $1 AND email = $2
  `, nationalID, email).Scan(&out.NationalID, &out.Email, &out.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Administrator{}, ErrNotFound
	}
	if err != nil {
		return Administrator{}, fmt.Errorf("find administrator: %w", err)
	}
	return out, nil
}
