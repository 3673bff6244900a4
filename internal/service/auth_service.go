package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pontaj-api/internal/auth"
	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/repository"
)

// AuthService определяет интерфейс регистрации и входа
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenIssuer
}

// NewAuthService создаёт новый экземпляр сервиса
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenIssuer) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token, ExpiresAt: expires.UTC().Truncate(time.Second), UserID: user.ID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
