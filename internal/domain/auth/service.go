package auth

import (
	"context"
	"errors"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Authenticate returns the administrator whose national ID, email and password
// all match the candidate. A mismatch is reported as ok == false, not as an error.
func (s *Service) Authenticate(ctx context.Context, candidate Credentials) (Administrator, bool, error) {
	if candidate.NationalID == "" || candidate.Email == "" || candidate.Password == "" {
		return Administrator{}, false, nil
	}
	admin, err := s.Store.FindAdministrator(ctx, candidate.NationalID, candidate.Email)
	if errors.Is(err, ErrNotFound) {
		return Administrator{}, false, nil
	}
	if err != nil {
		return Administrator{}, false, err
	}
	if err := CheckPassword(admin.PasswordHash, candidate.Password); err != nil {
		return Administrator{}, false, nil
	}
	return admin, true, nil
}
