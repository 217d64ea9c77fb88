package cmd

import (
	"time"

	"github.com/caseproof/caseproof-backend/infra"
	"github.com/caseproof/caseproof-backend/utils"
)

const appName = "caseproof-backend"

type appConfiguration struct {
	env           string
	loggingFormat string
	sentryDsn     string

	pgConfig infra.PgConfig

	caseStorageBucketUrl   string
	analysisBackendUrl     string
	notificationWebhookUrl string
	caseProcessingTimeout  time.Duration
}

func readAppConfiguration() appConfiguration {
	return appConfiguration{
		env:           utils.GetEnv("ENV", "development"),
		loggingFormat: utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:     utils.GetEnv("SENTRY_DSN", ""),
		pgConfig: infra.PgConfig{
			ConnectionString:   utils.GetEnv("PG_CONNECTION_STRING", ""),
			Database:           utils.GetEnv("PG_DATABASE", "caseproof"),
			Hostname:           utils.GetEnv("PG_HOSTNAME", ""),
			Password:           utils.GetEnv("PG_PASSWORD", ""),
			Port:               utils.GetEnv("PG_PORT", "5432"),
			User:               utils.GetEnv("PG_USER", ""),
			SslMode:            utils.GetEnv("PG_SSL_MODE", "prefer"),
			MaxPoolConnections: utils.GetEnv("PG_MAX_POOL_SIZE", infra.DEFAULT_MAX_CONNECTIONS),
		},
		caseStorageBucketUrl:   utils.GetRequiredEnv[string]("CASE_STORAGE_BUCKET_URL"),
		analysisBackendUrl:     utils.GetRequiredEnv[string]("ANALYSIS_BACKEND_URL"),
		notificationWebhookUrl: utils.GetEnv("NOTIFICATION_WEBHOOK_URL", ""),
		caseProcessingTimeout: time.Duration(
			utils.GetEnv("CASE_PROCESSING_TIMEOUT_MINUTE", 120)) * time.Minute,
	}
}
