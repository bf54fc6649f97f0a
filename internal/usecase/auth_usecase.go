// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"tokengate/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=100"`
	Password  string `json:"password" validate:"required,maxbytes=72"`
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// AuthUsecase is the credential gate: it checks credentials and tokens and
// asks the token service for fresh pairs. Tokens travel in and out as raw
// strings; attaching them to cookies is the transport's job.
type AuthUsecase interface {
	// Login verifies the credentials and returns a new access/refresh pair.
	// Unknown users and wrong passwords fail identically.
	Login(ctx context.Context, input *LoginInput) (*entity.TokenPair, error)

	// Register creates a user. It does not log the user in.
	Register(ctx context.Context, input *RegisterInput) error

	// Refresh exchanges a refresh token for a new pair. The refresh token's
	// expiry is not enforced; its signature and the user's existence are.
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)

	// WhoAmI resolves an unexpired access token to the caller's profile.
	WhoAmI(ctx context.Context, accessToken string) (*entity.UserProfile, error)

	// Logout has no server-side effect; tokens stay valid until they expire.
	Logout(ctx context.Context) error
}
