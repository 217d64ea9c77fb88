// Package worker_jobs holds the river workers running outside the request
// path.
package worker_jobs

import (
	"context"
	"time"

	"github.com/riverqueue/river"

	"github.com/caseproof/caseproof-backend/models"
)

const caseTimeoutSweepInterval = 10 * time.Minute

func NewCaseTimeoutPeriodicJob() *river.PeriodicJob {
	return river.NewPeriodicJob(
		river.PeriodicInterval(caseTimeoutSweepInterval),
		func() (river.JobArgs, *river.InsertOpts) {
			return models.CaseTimeoutSweepArgs{},
				&river.InsertOpts{
					UniqueOpts: river.UniqueOpts{
						ByPeriod: caseTimeoutSweepInterval,
					},
				}
		},
		&river.PeriodicJobOpts{RunOnStart: true},
	)
}

type staleCaseSweeper interface {
	SweepStaleProcessingCases(ctx context.Context, olderThan time.Duration) (int, error)
}

type CaseTimeoutWorker struct {
	river.WorkerDefaults[models.CaseTimeoutSweepArgs]

	sweeper staleCaseSweeper
	timeout time.Duration
}

func NewCaseTimeoutWorker(sweeper staleCaseSweeper, timeout time.Duration) *CaseTimeoutWorker {
	return &CaseTimeoutWorker{sweeper: sweeper, timeout: timeout}
}

func (w *CaseTimeoutWorker) Timeout(job *river.Job[models.CaseTimeoutSweepArgs]) time.Duration {
	return 5 * time.Minute
}

func (w *CaseTimeoutWorker) Work(ctx context.Context, job *river.Job[models.CaseTimeoutSweepArgs]) error {
	_, err := w.sweeper.SweepStaleProcessingCases(ctx, w.timeout)
	return err
}
