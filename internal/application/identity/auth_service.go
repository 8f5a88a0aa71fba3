package identity

import (
	"context"
	"fmt"

	"github.com/waterworks/backend/internal/application/audit"
	domainaudit "github.com/waterworks/backend/internal/domain/audit"
	"github.com/waterworks/backend/internal/domain/identity"
	"github.com/waterworks/backend/internal/domain/shared"
	"github.com/waterworks/backend/internal/infrastructure/auth"
)

// AuthService authenticates users and issues token pairs
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	recorder   *audit.Recorder
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, recorder *audit.Recorder) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		recorder:   recorder,
	}
}

// LoginResult carries the issued tokens and the authenticated user
type LoginResult struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   *identity.User  `json:"user"`
}

// Login verifies credentials and issues a token pair. Unknown usernames
// and wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.Active || !user.CheckPassword(password) {
		return nil, shared.ErrUnauthorized
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.recorder.Record(ctx, domainaudit.ActionLogin,
		fmt.Sprintf("User %s logged in", user.Username), user.Username)
	return &LoginResult{Tokens: tokens, User: user}, nil
}

// Refresh exchanges a refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	// Re-check the user so a deactivated account cannot keep refreshing
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, shared.ErrUnauthorized
	}

	return s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	})
}
