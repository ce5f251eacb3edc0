package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"movextransfer/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const adminTokenTTL = time.Hour

type AdminAuthService interface {
	Login(email, password string) (string, error)
}

type adminAuthService struct {
	repo   repository.AdminAuthRepository
	secret []byte
	now    func() time.Time
}

func NewAdminAuthService(repo repository.AdminAuthRepository, jwtSecret string) AdminAuthService {
	return &adminAuthService{repo: repo, secret: []byte(jwtSecret), now: time.Now}
}

func (s *adminAuthService) Login(email, password string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("JWT_SECRET not set")
	}

	admin, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if admin == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"iat":      s.now().Unix(),
		"exp":      s.now().Add(adminTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
