// Package memory is an in-process user store for local runs and tests.
// It enforces the same uniqueness rules as the PostgreSQL schema.
package memory

import (
	"context"
	"maps"
	"sync"

	"tokengate/internal/domain/entity"
	domainerrors "tokengate/internal/domain/errors"
	"tokengate/internal/domain/repository"
)

// Store holds users keyed by ID. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	nextID int64
	users  map[int64]entity.User
}

func NewStore() *Store {
	return &Store{users: make(map[int64]entity.User)}
}

// NewUserRepository exposes the store through the domain interface.
func NewUserRepository(s *Store) repository.UserRepository {
	return s
}

func (s *Store) FindByID(_ context.Context, id int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return &u, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (s *Store) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.conflictLocked(username, email), nil
}

func (s *Store) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflictLocked(user.Username, user.Email) {
		return domainerrors.ErrUserAlreadyExists.WrapMessage("username or email already exists")
	}

	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user

	return nil
}

// Delete removes a user directly from the store. It is not part of the
// repository contract; nothing in the request path deletes users.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)

	return nil
}

// conflictLocked mirrors the PostgreSQL UNIQUE constraints, which compare exactly.
func (s *Store) conflictLocked(username, email string) bool {
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true
		}
	}

	return false
}

func (s *Store) snapshot() (map[int64]entity.User, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.users), s.nextID
}

func (s *Store) restore(users map[int64]entity.User, nextID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = users
	s.nextID = nextID
}
