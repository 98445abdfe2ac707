package services

import (
	"context"
	"fmt"

	"todo-stream.com/todo-stream/internal/auth"
	dto "todo-stream.com/todo-stream/internal/data_models"
	"todo-stream.com/todo-stream/internal/errors"
	model "todo-stream.com/todo-stream/internal/models"
	repository "todo-stream.com/todo-stream/internal/repositories"
)

// AuthService is the credential store boundary: it owns registration,
// password verification and bearer token issuance.
type AuthService struct {
	users  *repository.UserRepository
	hasher *auth.PasswordHasher
	jwt    *auth.JWTManager
}

func NewAuthService(
	users *repository.UserRepository,
	hasher *auth.PasswordHasher,
	jwt *auth.JWTManager,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" {
		return nil, errors.Validation("username is required")
	}
	if len(password) < 8 {
		return nil, errors.Validation("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return nil, errors.Validation("password must be at most 72 characters")
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, errors.ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(ctx, username, hash)
}

// Login checks the credentials and issues a token pair. An unknown
// username and a wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, errors.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// ValidateToken resolves a bearer access token to its principal.
func (s *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwt.ValidateAccessToken(token)
}

func (s *AuthService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenTTLSeconds(),
		TokenType:    "Bearer",
	}, nil
}
