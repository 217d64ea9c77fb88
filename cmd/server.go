package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/caseproof/caseproof-backend/api"
	"github.com/caseproof/caseproof-backend/infra"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases"
	"github.com/caseproof/caseproof-backend/utils"
)

func RunServer() error {
	appConfig := readAppConfiguration()
	apiConfig := api.Configuration{
		Env:              appConfig.env,
		AppName:          appName,
		Port:             utils.GetRequiredEnv[string]("PORT"),
		JwtSigningSecret: utils.GetRequiredEnv[string]("AUTHENTICATION_JWT_SIGNING_SECRET"),
		JobWebhookSecret: utils.GetEnv("JOB_WEBHOOK_SECRET", ""),
		AllowedOrigins:   []string{utils.GetEnv("APP_URL", "")},
		DefaultTimeout:   time.Duration(utils.GetEnv("DEFAULT_TIMEOUT_SECOND", 60)) * time.Second,
		MaxCaseFileSize:  int64(utils.GetEnv("MAX_CASE_FILE_SIZE", 0)),
	}

	logger := utils.NewLogger(appConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(appConfig.sentryDsn, appConfig.env)
	defer sentry.Flush(3 * time.Second)

	pool, err := infra.NewPostgresConnectionPool(ctx, appConfig.pgConfig.GetConnectionString(),
		appConfig.pgConfig.MaxPoolConnections)
	if err != nil {
		return err
	}

	// Insert-only river client: the server enqueues notification jobs, the
	// worker binary runs them.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
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

	router := api.InitRouter(ctx, apiConfig)
	auth := api.NewAuthentication(apiConfig)
	server := api.NewServer(router, apiConfig, uc, auth)

	go func() {
		logger.InfoContext(ctx, "starting server", "port", apiConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "server error", "error", err.Error())
		}
	}()

	notifyCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-notifyCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server shutdown failed")
	}
	return nil
}
