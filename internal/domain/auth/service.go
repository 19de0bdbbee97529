package auth

import (
	"context"
)

// AuthService defines business logic for authentication operations
type AuthService interface {
	// Register creates a new employee account and issues tokens
	Register(ctx context.Context, req RegisterRequest, sessionReq SessionTrackingRequest) (TokenResponse, error)

	// Login verifies credentials and issues tokens
	Login(ctx context.Context, req LoginRequest, sessionReq SessionTrackingRequest) (TokenResponse, error)

	// RefreshToken exchanges a valid refresh token for a new access token
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// Logout revokes the refresh token
	Logout(ctx context.Context, token string) error
}
