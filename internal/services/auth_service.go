package services

import (
	"context"
	"errors"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
)

// authService exchanges credentials for bearer tokens.
type authService struct {
	users  UserServicer
	tokens *auth.TokenManager
}

// NewAuthService creates a new AuthServicer that checks credentials against
// users and signs tokens with tokens.
func NewAuthService(users UserServicer, tokens *auth.TokenManager) AuthServicer {
	return &authService{users: users, tokens: tokens}
}

// Login verifies email and password and issues a token for the user. It
// reads the credential store and never writes to it.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			logger.Get().Infow("login failed: unknown email", "email", email)
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		logger.Get().Infow("login failed: bad password", "email", email)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}
