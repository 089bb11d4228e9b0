package auth

import "regexp"

var (
	nationalIDPattern = regexp.MustCompile(`^\d{8}[A-Z]$`)
	emailPattern      = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,3}$`)
)

type Administrator struct {
	NationalID   string `json:"nationalId"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Credentials is a login attempt as submitted by the login form.
type Credentials struct {
	NationalID string
	Email      string
	Password   string
}

func ValidNationalID(value string) bool {
	return nationalIDPattern.MatchString(value)
}

func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}
