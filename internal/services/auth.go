package services

import (
	"context"

	"github.com/gotrs-io/gotrs-console/internal/models"
)

// AuthService handles the authentication endpoints.
type AuthService struct {
	api API
}

// Login exchanges credentials for a token and user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var result models.AuthResponse
	err := s.api.Post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns its token and user.
func (s *AuthService) Register(ctx context.Context, request models.RegisterRequest) (*models.AuthResponse, error) {
	var result models.AuthResponse
	if err := s.api.Post(ctx, "/auth/register", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the user owning the session token.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var result models.User
	if err := s.api.Get(ctx, "/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
