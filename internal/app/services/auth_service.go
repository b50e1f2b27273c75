package services

import (
	"context"
	"errors"

	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/repositories"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/auth"
	"github.com/isms-esp/diploma-registry/internal/pkg/logger"
)

// AuthService authenticates registry accounts.
type AuthService struct {
	users      *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates an auth service.
func NewAuthService(users *repositories.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{users: users, jwtService: jwtService}
}

// Login verifies credentials and returns a signed access token. Wrong
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn().Str("email", req.Email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		FullName:    user.FullName,
		Role:        user.Role,
	}, nil
}
