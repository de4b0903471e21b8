package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized  = errors.New("admin login required")
	ErrWrongPassword = errors.New("wrong admin password")
	ErrNoAdminSecret = errors.New("admin password is not configured")
)

// AdminAuthenticator checks the shared staff password against a bcrypt hash.
// Attempts are not throttled.
type AdminAuthenticator struct {
	hash []byte
}

// NewAdminAuthenticator prefers a ready bcrypt hash and otherwise hashes the
// plain secret once at start-up.
func NewAdminAuthenticator(hash, plain string) (*AdminAuthenticator, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &AdminAuthenticator{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, ErrNoAdminSecret
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminAuthenticator{hash: h}, nil
}

func (a *AdminAuthenticator) Check(password string) error {
	if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return ErrWrongPassword
	}
	return nil
}
