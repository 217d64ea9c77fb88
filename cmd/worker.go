package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"

	"github.com/caseproof/caseproof-backend/infra"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases"
	"github.com/caseproof/caseproof-backend/usecases/worker_jobs"
	"github.com/caseproof/caseproof-backend/utils"
)

func RunTaskQueue() error {
	appConfig := readAppConfiguration()

	logger := utils.NewLogger(appConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(appConfig.sentryDsn, appConfig.env)
	defer sentry.Flush(3 * time.Second)

	pool, err := infra.NewPostgresConnectionPool(ctx, appConfig.pgConfig.GetConnectionString(),
		appConfig.pgConfig.MaxPoolConnections)
	if err != nil {
		return err
	}

	workers := river.NewWorkers()
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		RescueStuckJobsAfter: 10 * time.Minute,
		PeriodicJobs: []*river.PeriodicJob{
			worker_jobs.NewCaseTimeoutPeriodicJob(),
		},
		WorkerMiddleware: []rivertype.WorkerMiddleware{
			worker_jobs.NewSentryMiddleware(),
			worker_jobs.NewLoggerMiddleware(logger),
			worker_jobs.NewRecovererMiddleware(),
		},
		Workers: workers,
	})
	if err != nil {
		return errors.Wrap(err, "could not create river client")
	}

	repos := repositories.NewRepositories(pool,
		repositories.WithAnalysisBackend(appConfig.analysisBackendUrl),
		repositories.WithNotificationWebhook(appConfig.notificationWebhookUrl),
		repositories.WithRiverClient(riverClient),
	)
	uc := usecases.NewUsecases(repos,
		usecases.WithCaseStorageBucket(appConfig.caseStorageBucketUrl),
		usecases.WithCaseProcessingTimeout(appConfig.caseProcessingTimeout),
	)

	river.AddWorker(workers,
		worker_jobs.NewCaseTimeoutWorker(uc.NewCaseTimeoutUsecase(), uc.CaseProcessingTimeout()))
	river.AddWorker(workers,
		worker_jobs.NewFailureNotificationWorker(repos.NotificationRepository))

	if err := riverClient.Start(ctx); err != nil {
		return errors.Wrap(err, "could not start river client")
	}
	logger.InfoContext(ctx, "task queue worker started")

	notifyCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-notifyCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return riverClient.Stop(shutdownCtx)
}
