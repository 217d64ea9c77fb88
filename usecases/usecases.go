package usecases

import (
	"context"
	"time"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/usecases/security"
)

const DefaultCaseProcessingTimeout = 2 * time.Hour

type Usecases struct {
	Repositories          repositories.Repositories
	caseStorageBucketUrl  string
	caseProcessingTimeout time.Duration
}

type Option func(*Usecases)

func WithCaseStorageBucket(bucketUrl string) Option {
	return func(u *Usecases) {
		u.caseStorageBucketUrl = bucketUrl
	}
}

func WithCaseProcessingTimeout(timeout time.Duration) Option {
	return func(u *Usecases) {
		u.caseProcessingTimeout = timeout
	}
}

func NewUsecases(repos repositories.Repositories, opts ...Option) Usecases {
	u := Usecases{
		Repositories:          repos,
		caseProcessingTimeout: DefaultCaseProcessingTimeout,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func (u Usecases) NewExecutorFactory() executor_factory.DbExecutorFactory {
	return executor_factory.NewDbExecutorFactory(u.Repositories.ExecutorGetter)
}

func (u Usecases) CaseProcessingTimeout() time.Duration {
	return u.caseProcessingTimeout
}

// NewJobStatusUsecase has no credentials: the job webhook is authenticated at
// the transport level with a shared secret.
func (u Usecases) NewJobStatusUsecase() JobStatusUsecase {
	return JobStatusUsecase{
		executorFactory:    u.NewExecutorFactory(),
		transactionFactory: u.NewExecutorFactory(),
		repository:         u.Repositories.CaseproofDbRepository,
		blobRepository:     u.Repositories.BlobRepository,
		fetcher:            u.Repositories.AnalysisBackendRepository,
		notifications:      u.Repositories.NotificationRepository,
		riverClient:        u.Repositories.RiverClient,
		bucketUrl:          u.caseStorageBucketUrl,
	}
}

func (u Usecases) NewCaseTimeoutUsecase() CaseTimeoutUsecase {
	return CaseTimeoutUsecase{
		executorFactory:    u.NewExecutorFactory(),
		transactionFactory: u.NewExecutorFactory(),
		repository:         u.Repositories.CaseproofDbRepository,
	}
}

// UsecasesWithCreds is the per-request view of the usecases, bound to the
// caller's credentials.
type UsecasesWithCreds struct {
	Usecases
	Credentials models.Credentials
}

func (u Usecases) NewUsecasesWithCreds(creds models.Credentials) UsecasesWithCreds {
	return UsecasesWithCreds{
		Usecases:    u,
		Credentials: creds,
	}
}

func (u UsecasesWithCreds) enforceSecurity() security.EnforceSecurity {
	return security.EnforceSecurity{Credentials: u.Credentials}
}

// SweepStaleCasesNow lets an admin run the timeout watchdog on demand instead
// of waiting for the next periodic sweep.
func (u UsecasesWithCreds) SweepStaleCasesNow(ctx context.Context) (int, error) {
	if err := u.enforceSecurity().SweepCases(); err != nil {
		return 0, err
	}
	return u.NewCaseTimeoutUsecase().SweepStaleProcessingCases(ctx, u.caseProcessingTimeout)
}

func (u UsecasesWithCreds) NewCaseUsecase() CaseUsecase {
	return CaseUsecase{
		enforceSecurity:    u.enforceSecurity(),
		executorFactory:    u.NewExecutorFactory(),
		transactionFactory: u.NewExecutorFactory(),
		repository:         u.Repositories.CaseproofDbRepository,
		blobRepository:     u.Repositories.BlobRepository,
		bucketUrl:          u.caseStorageBucketUrl,
	}
}

func (u UsecasesWithCreds) NewCaseFileUsecase() CaseFileUsecase {
	return CaseFileUsecase{
		enforceSecurity:    u.enforceSecurity(),
		executorFactory:    u.NewExecutorFactory(),
		transactionFactory: u.NewExecutorFactory(),
		repository:         u.Repositories.CaseproofDbRepository,
		blobRepository:     u.Repositories.BlobRepository,
		bucketUrl:          u.caseStorageBucketUrl,
	}
}

func (u UsecasesWithCreds) NewCaseReviewUsecase() CaseReviewUsecase {
	return CaseReviewUsecase{
		enforceSecurity: u.enforceSecurity(),
		executorFactory: u.NewExecutorFactory(),
		repository:      u.Repositories.CaseproofDbRepository,
		blobRepository:  u.Repositories.BlobRepository,
		bucketUrl:       u.caseStorageBucketUrl,
	}
}

func (u UsecasesWithCreds) NewCaseWorkflowUsecase() CaseWorkflowUsecase {
	return CaseWorkflowUsecase{
		enforceSecurity:    u.enforceSecurity(),
		executorFactory:    u.NewExecutorFactory(),
		transactionFactory: u.NewExecutorFactory(),
		repository:         u.Repositories.CaseproofDbRepository,
		blobRepository:     u.Repositories.BlobRepository,
		dispatcher:         u.Repositories.AnalysisBackendRepository,
		notifications:      u.Repositories.NotificationRepository,
		riverClient:        u.Repositories.RiverClient,
		files:              u.NewCaseFileUsecase(),
		bucketUrl:          u.caseStorageBucketUrl,
	}
}
