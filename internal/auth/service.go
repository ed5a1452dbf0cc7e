package auth

import (
	"golang.org/x/crypto/bcrypt"

	"social-api/internal/apperr"
	"social-api/internal/shared/jwt"
	"social-api/internal/user"
)

type Service interface {
	Signup(email, password string) (string, error)
	Login(email, password string) (string, error)
}

type service struct {
	users  user.Repository
	tokens *jwt.Manager
}

func NewService(users user.Repository, tokens *jwt.Manager) Service {
	return &service{users: users, tokens: tokens}
}

func (s *service) Signup(email, password string) (string, error) {
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apperr.Wrap(apperr.ErrConflict, "user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	u, err := s.users.Create(&user.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(u.ID, u.Email)
}

func (s *service) Login(email, password string) (string, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", apperr.Wrap(apperr.ErrUnauthenticated, "wrong email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", apperr.Wrap(apperr.ErrUnauthenticated, "wrong email or password")
	}
	return s.tokens.Issue(u.ID, u.Email)
}
