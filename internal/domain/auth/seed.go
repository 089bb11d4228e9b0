package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// EnsureAdministrator provisions the administrator account if it does not
// exist yet. Blank inputs are a no-op. It reports whether a row was created.
func (s *Store) EnsureAdministrator(ctx context.Context, nationalID, email, password string) (bool, error) {
	nationalID = strings.ToUpper(strings.TrimSpace(nationalID))
	email = strings.ToLower(strings.TrimSpace(email))
	if nationalID == "" || email == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}
	if !ValidNationalID(nationalID) {
		return false, errors.New("SEED_ADMIN_NATIONAL_ID must be 8 digits followed by an uppercase letter")
	}
	if !ValidEmail(email) {
		return false, errors.New("SEED_ADMIN_EMAIL is not a valid administrator email")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	tag, err := s.DB.Exec(ctx, `
    INSERT INTO administrators (national_id, email, password_hash)
    VALUES ($1, $2, $3)
    ON CONFLICT (national_id) DO NOTHING
  `, nationalID, email, hash)
	if err != nil {
		return false, fmt.Errorf("seed administrator: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
