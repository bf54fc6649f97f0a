package memory

import (
	"context"

	"tokengate/internal/domain/repository"
)

// transactionManager serializes transactions and restores a snapshot on failure.
type transactionManager struct {
	store *Store
}

func NewTransactionManager(s *Store) repository.TransactionManager {
	return &transactionManager{store: s}
}

type repositoryFactory struct {
	store *Store
}

func (f repositoryFactory) UserRepo() repository.UserRepository {
	return f.store
}

func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	users, nextID := tm.store.snapshot()

	defer func() {
		if r := recover(); r != nil {
			tm.store.restore(users, nextID)
			panic(r)
		}
	}()

	if err := fn(repositoryFactory{store: tm.store}); err != nil {
		tm.store.restore(users, nextID)

		return err
	}

	return nil
}
