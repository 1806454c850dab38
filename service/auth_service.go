package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxifrota/pkg/auth"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin operator"`
}

type Session struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      *models.AdminUser `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Authenticate(token string) (*auth.Claims, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*models.AdminUser, error)
	ListUsers(ctx context.Context) ([]*models.AdminUser, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type authService struct {
	stg storage.IStorage
	d   *deps
	log logger.ILogger
}

func NewAuthService(stg storage.IStorage, d *deps, log logger.ILogger) AuthService {
	return &authService{stg: stg, d: d, log: log}
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	user, err := s.stg.AdminUser().GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active || !auth.CheckPassword(user.PasswordHash, in.Password) {
		s.log.Warning("rejected admin login", logger.String("email", in.Email))
		return nil, ErrUnauthorized
	}

	token, expires, err := s.d.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// Authenticate verifies a bearer token issued by Login.
func (s *authService) Authenticate(token string) (*auth.Claims, error) {
	claims, err := s.d.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

func (s *authService) CreateUser(ctx context.Context, in CreateUserInput) (*models.AdminUser, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleOperator
	}

	user, err := s.stg.AdminUser().Create(ctx, &models.AdminUser{
		Email:        strings.TrimSpace(in.Email),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("admin user created", logger.String("email", user.Email), logger.String("role", user.Role))
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]*models.AdminUser, error) {
	return s.stg.AdminUser().GetAll(ctx)
}

func (s *authService) SetActive(ctx context.Context, id string, active bool) error {
	return s.stg.AdminUser().SetActive(ctx, id, active)
}
