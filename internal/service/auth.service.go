package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"laundromat/internal/domain"
	"laundromat/internal/repo"
	"laundromat/pkg/token"
)

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type authService struct {
	users  repo.UserRepo
	tokens *token.Manager
}

func NewAuthService(users repo.UserRepo, tokens *token.Manager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, fmt.Errorf("username, password and email are required: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		Phone:        in.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
