package worker_jobs

import (
	"context"
	"time"

	"github.com/riverqueue/river"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
)

type FailureNotificationWorker struct {
	river.WorkerDefaults[models.FailureNotificationArgs]

	notifications repositories.NotificationRepository
}

func NewFailureNotificationWorker(notifications repositories.NotificationRepository) *FailureNotificationWorker {
	return &FailureNotificationWorker{notifications: notifications}
}

func (w *FailureNotificationWorker) Timeout(job *river.Job[models.FailureNotificationArgs]) time.Duration {
	return 30 * time.Second
}

func (w *FailureNotificationWorker) Work(ctx context.Context, job *river.Job[models.FailureNotificationArgs]) error {
	return w.notifications.SendFailureNotification(ctx, repositories.FailureNotification{
		CaseId:       job.Args.CaseId,
		Task:         job.Args.Task,
		ArchiveUrl:   job.Args.ArchiveUrl,
		ErrorMessage: job.Args.ErrorMessage,
	})
}
