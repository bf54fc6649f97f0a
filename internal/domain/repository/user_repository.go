// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tokengate/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the operations the credential gate needs from the user store.
type UserRepository interface {
	// FindByID retrieves a user by numeric ID. Returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByUsername retrieves a user by exact username. Returns ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// ExistsByUsernameOrEmail reports whether any user has the username or the email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Create persists a new user and sets its ID.
	// A uniqueness violation is reported as domain ErrUserAlreadyExists.
	Create(ctx context.Context, user *entity.User) error
}
