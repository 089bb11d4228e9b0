package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims reference a stored session; expiry lives on the session record.
type Claims struct {
	jwt.RegisteredClaims
}

func GenerateToken(secret []byte, s Session, issuedAt time.Time) (string, error) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:       s.ID,
		Subject:  s.AdminID,
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
