package executor_factory

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/caseproof/caseproof-backend/repositories"
)

// ExecutorFactoryStub satisfies both factory interfaces for unit tests that
// mock the repository layer. The executors it hands out are nil: tests pairing
// it with repository mocks never touch them.
type ExecutorFactoryStub struct{}

func NewExecutorFactoryStub() ExecutorFactoryStub {
	return ExecutorFactoryStub{}
}

func (stub ExecutorFactoryStub) NewExecutor() repositories.Executor {
	return nil
}

func (stub ExecutorFactoryStub) Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error {
	return fn(transactionStub{})
}

type transactionStub struct {
	repositories.Executor
}

func (transactionStub) RawTx() pgx.Tx { return nil }
