package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"tokengate/config"
	"tokengate/internal/domain/entity"
	"tokengate/internal/domain/repository"
	mockRepo "tokengate/internal/mocks/repository"
	mockSvc "tokengate/internal/mocks/service"
	"tokengate/internal/usecase"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:   4,
			AccessTTL:    15 * time.Minute,
			RefreshTTL:   30 * 24 * time.Hour,
			StoreTimeout: time.Second,
		},
	}
}

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	txManager    *mockRepo.MockTransactionManager
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	service := NewAuthService(AuthServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      service,
		txManager:    txManager,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

// runInTx makes the mocked transaction manager hand fn a factory backed by txUserRepo.
func runInTx(t *testing.T, txUserRepo repository.UserRepository) func(context.Context, func(repository.RepositoryFactory) error) error {
	return func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
		factory := mockRepo.NewMockRepositoryFactory(t)
		factory.EXPECT().UserRepo().Return(txUserRepo)

		return fn(factory)
	}
}

func issued(kind entity.TokenKind, value string, ttl time.Duration) entity.IssuedToken {
	return entity.IssuedToken{Kind: kind, Value: value, ExpiresAt: time.Now().Add(ttl)}
}

func testUser() *entity.User {
	return &entity.User{
		ID:           42,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "stored-hash",
		FirstName:    "Alice",
		LastName:     "Liddell",
	}
}
