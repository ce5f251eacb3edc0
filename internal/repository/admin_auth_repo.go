package repository

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}

type AdminAuthRepository interface {
	GetByEmail(email string) (*Admin, error)
}

// adminAuthRepository serves the single owner account configured through the
// environment. There is no admins table.
type adminAuthRepository struct {
	admin *Admin
}

func NewAdminAuthRepository(email, passwordHash string) AdminAuthRepository {
	if email == "" || passwordHash == "" {
		return &adminAuthRepository{}
	}
	return &adminAuthRepository{admin: &Admin{ID: 1, Email: email, PasswordHash: passwordHash}}
}

// GetByEmail returns nil, nil for an unknown email.
func (r *adminAuthRepository) GetByEmail(email string) (*Admin, error) {
	if r.admin == nil || !strings.EqualFold(strings.TrimSpace(email), r.admin.Email) {
		return nil, nil
	}
	cp := *r.admin
	return &cp, nil
}

// HashPassword produces a value suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
