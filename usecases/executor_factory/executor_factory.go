package executor_factory

import (
	"context"

	"github.com/caseproof/caseproof-backend/repositories"
)

type ExecutorFactory interface {
	NewExecutor() repositories.Executor
}

type TransactionFactory interface {
	Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error
}

// DbExecutorFactory adapts the pgx backed ExecutorGetter to the two factory
// interfaces consumed by the usecases.
type DbExecutorFactory struct {
	getter repositories.ExecutorGetter
}

func NewDbExecutorFactory(getter repositories.ExecutorGetter) DbExecutorFactory {
	return DbExecutorFactory{getter: getter}
}

func (f DbExecutorFactory) NewExecutor() repositories.Executor {
	return f.getter.GetExecutor()
}

func (f DbExecutorFactory) Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error {
	return f.getter.Transaction(ctx, fn)
}
