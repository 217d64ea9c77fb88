package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/utils"
)

type CaseTimeoutRepository interface {
	ListStaleProcessingCases(ctx context.Context, exec repositories.Executor,
		cutoff time.Time) ([]models.Case, error)
	GetCaseById(ctx context.Context, exec repositories.Executor, caseId string) (models.Case, error)
	UpdateCaseLifecycle(ctx context.Context, exec repositories.Executor, caseId string,
		lifecycle models.CaseLifecycle, update repositories.CaseLifecycleUpdate) error
	CreateCaseEvent(ctx context.Context, exec repositories.Executor, attrs models.CreateCaseEventAttributes) error
}

// CaseTimeoutUsecase is the watchdog behind the Timeout status. Instead of one
// scheduled callback per submission, a periodic sweep picks up every case that
// has sat in Processing past the deadline without any job activity, so a
// backend that never calls back cannot strand a case.
type CaseTimeoutUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         CaseTimeoutRepository
}

// SweepStaleProcessingCases times out stale cases one by one and returns the
// number of cases moved. Each case is re-read in its own transaction: a
// webhook landing mid-sweep wins.
func (uc CaseTimeoutUsecase) SweepStaleProcessingCases(ctx context.Context, olderThan time.Duration) (int, error) {
	logger := utils.LoggerFromContext(ctx)
	cutoff := time.Now().Add(-olderThan)

	stale, err := uc.repository.ListStaleProcessingCases(ctx, uc.executorFactory.NewExecutor(), cutoff)
	if err != nil {
		return 0, err
	}

	timedOut := 0
	for _, candidate := range stale {
		err := uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
			c, err := uc.repository.GetCaseById(ctx, tx, candidate.Id)
			if err != nil {
				return err
			}
			next, err := models.NextCaseLifecycle(c.Lifecycle(),
				models.CaseLifecycleEvent{Kind: models.LifecycleEventWatchdogExpired})
			if err != nil {
				// The case moved since the listing, nothing to do.
				return nil
			}
			err = uc.repository.UpdateCaseLifecycle(ctx, tx, c.Id, next, repositories.CaseLifecycleUpdate{})
			if err != nil {
				return err
			}
			err = uc.repository.CreateCaseEvent(ctx, tx, models.CreateCaseEventAttributes{
				CaseId:    c.Id,
				UserId:    c.OwnerId,
				EventType: models.CaseEventAnalysisFailed,
				Payload:   fmt.Sprintf("analysis timed out after %s without backend activity", olderThan),
			})
			if err != nil {
				return err
			}
			timedOut++
			return nil
		})
		if err != nil {
			logger.ErrorContext(ctx, fmt.Sprintf("could not time out case %s: %v", candidate.Id, err))
		}
	}

	if timedOut > 0 {
		logger.InfoContext(ctx, fmt.Sprintf("timed out %d stale processing cases", timedOut))
	}
	return timedOut, nil
}
