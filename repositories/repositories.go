package repositories

import (
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
)

type Repositories struct {
	ExecutorGetter            ExecutorGetter
	CaseproofDbRepository     *CaseproofDbRepository
	BlobRepository            BlobRepository
	AnalysisBackendRepository AnalysisBackendRepository
	NotificationRepository    NotificationRepository
	RiverClient               *river.Client[pgx.Tx]
}

type Option func(*options)

type options struct {
	analysisBackendUrl     string
	notificationWebhookUrl string
	httpClient             *http.Client
	riverClient            *river.Client[pgx.Tx]
}

func WithAnalysisBackend(url string) Option {
	return func(o *options) {
		o.analysisBackendUrl = url
	}
}

func WithNotificationWebhook(url string) Option {
	return func(o *options) {
		o.notificationWebhookUrl = url
	}
}

func WithHttpClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

func WithRiverClient(client *river.Client[pgx.Tx]) Option {
	return func(o *options) {
		o.riverClient = client
	}
}

func NewRepositories(pool *pgxpool.Pool, opts ...Option) Repositories {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return Repositories{
		ExecutorGetter:            NewExecutorGetter(pool),
		CaseproofDbRepository:     NewCaseproofDbRepository(),
		BlobRepository:            NewBlobRepository(),
		AnalysisBackendRepository: NewAnalysisBackendRepository(o.analysisBackendUrl, o.httpClient),
		NotificationRepository:    NewNotificationRepository(o.notificationWebhookUrl, o.httpClient),
		RiverClient:               o.riverClient,
	}
}
