package usecases

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/pure_utils"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/archive"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/utils"
)

type ResultArchiveFetcher interface {
	DownloadArchive(ctx context.Context, url string) ([]byte, error)
}

type JobStatusRepository interface {
	GetCaseById(ctx context.Context, exec repositories.Executor, caseId string) (models.Case, error)
	GetJobById(ctx context.Context, exec repositories.Executor, jobId string) (*models.AnalysisJob, error)
	InsertJob(ctx context.Context, exec repositories.Executor, update models.JobUpdate) error
	UpdateJob(ctx context.Context, exec repositories.Executor, update models.JobUpdate) error
	UpdateCaseLifecycle(ctx context.Context, exec repositories.Executor, caseId string,
		lifecycle models.CaseLifecycle, update repositories.CaseLifecycleUpdate) error
	CreateCaseEvent(ctx context.Context, exec repositories.Executor, attrs models.CreateCaseEventAttributes) error
	BatchCreateCaseCsvFiles(ctx context.Context, exec repositories.Executor,
		inputs []models.CreateCaseCsvFileInput) error
}

// JobStatusUsecase reconciles job webhook deliveries with the case state.
// Deliveries may arrive duplicated or out of order; the rules are:
//
//   - a terminal job status is never overwritten, a STARTED arriving after
//     SUCCEEDED or FAILED is a no-op
//   - replaying a terminal delivery refreshes the job row but re-applies no
//     case side effects
//   - a case transition the lifecycle table rejects is logged and skipped,
//     the job row is still recorded
type JobStatusUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         JobStatusRepository
	blobRepository     repositories.BlobRepository
	fetcher            ResultArchiveFetcher
	notifications      repositories.NotificationRepository
	riverClient        *river.Client[pgx.Tx]
	bucketUrl          string
}

func (uc JobStatusUsecase) HandleJobUpdate(ctx context.Context, update models.JobUpdate) (models.AnalysisJob, error) {
	if update.JobId == "" {
		return models.AnalysisJob{}, errors.Wrap(models.BadParameterError, "job id is required")
	}
	if update.Task == models.TaskUnknown {
		return models.AnalysisJob{}, errors.Wrap(models.BadParameterError, "unknown task type")
	}
	if update.Status == "" {
		return models.AnalysisJob{}, errors.Wrap(models.BadParameterError, "unknown job status")
	}
	if err := utils.ValidateUuid(update.CaseId); err != nil {
		return models.AnalysisJob{}, err
	}
	if err := utils.ValidateUuid(update.UserId); err != nil {
		return models.AnalysisJob{}, err
	}

	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, update.CaseId)
	if err != nil {
		return models.AnalysisJob{}, err
	}

	// The result archive is fetched and unpacked before the transaction so
	// that a case only ever reaches Review with its CSV rows already
	// extracted. Blob writes are keyed deterministically, a replay overwrites
	// the same objects.
	var csvInputs []models.CreateCaseCsvFileInput
	if update.Status == models.JobSucceeded && update.Task == models.TaskInitialParse {
		existing, err := uc.repository.GetJobById(ctx, exec, update.JobId)
		if err != nil {
			return models.AnalysisJob{}, err
		}
		if existing == nil || !existing.Status.IsTerminal() {
			csvInputs, err = uc.extractResults(ctx, c, update.ResultUrl)
			if err != nil {
				return models.AnalysisJob{}, err
			}
		}
	}

	notifyDirectly := false
	job, err := executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.AnalysisJob, error) {
			existing, err := uc.repository.GetJobById(ctx, tx, update.JobId)
			if err != nil {
				return models.AnalysisJob{}, err
			}

			if existing != nil && existing.Status.IsTerminal() {
				if !update.Status.IsTerminal() {
					return *existing, nil
				}
				if existing.Status == update.Status {
					if err := uc.repository.UpdateJob(ctx, tx, update); err != nil {
						return models.AnalysisJob{}, err
					}
					return uc.mustGetJob(ctx, tx, update.JobId)
				}
				// Two different terminal statuses for the same job: first
				// writer wins.
				utils.LoggerFromContext(ctx).WarnContext(ctx, fmt.Sprintf(
					"job %s already terminal with %s, ignoring %s",
					existing.Id, existing.Status, update.Status))
				return *existing, nil
			}

			if existing == nil {
				if err := uc.repository.InsertJob(ctx, tx, update); err != nil {
					return models.AnalysisJob{}, err
				}
			} else if err := uc.repository.UpdateJob(ctx, tx, update); err != nil {
				return models.AnalysisJob{}, err
			}

			c, err := uc.repository.GetCaseById(ctx, tx, update.CaseId)
			if err != nil {
				return models.AnalysisJob{}, err
			}

			applied, err := uc.applyCaseSideEffects(ctx, tx, c, update, csvInputs)
			if err != nil {
				return models.AnalysisJob{}, err
			}
			notifyDirectly = applied && update.Status == models.JobFailed &&
				update.Task.LongRunning() && uc.riverClient == nil

			return uc.mustGetJob(ctx, tx, update.JobId)
		})
	if err != nil {
		return models.AnalysisJob{}, err
	}

	if notifyDirectly {
		uc.sendFailureNotification(ctx, update)
	}
	return job, nil
}

// applyCaseSideEffects moves the case along the lifecycle table and records
// the matching audit events. It reports whether the transition was applied: a
// rejected transition only means the delivery arrived late, the job row is
// kept and the webhook still succeeds.
func (uc JobStatusUsecase) applyCaseSideEffects(
	ctx context.Context,
	tx repositories.Transaction,
	c models.Case,
	update models.JobUpdate,
	csvInputs []models.CreateCaseCsvFileInput,
) (bool, error) {
	event := models.CaseLifecycleEvent{Task: update.Task}
	switch update.Status {
	case models.JobStarted:
		event.Kind = models.LifecycleEventJobStarted
	case models.JobSucceeded:
		event.Kind = models.LifecycleEventJobSucceeded
		event.ExtractionOk = update.Task != models.TaskInitialParse || len(csvInputs) > 0
	case models.JobFailed:
		event.Kind = models.LifecycleEventJobFailed
	}

	next, err := models.NextCaseLifecycle(c.Lifecycle(), event)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCaseTransition) || errors.Is(err, models.ErrCaseAlreadyProcessing) {
			utils.LoggerFromContext(ctx).WarnContext(ctx, fmt.Sprintf(
				"job %s: dropping %s transition for case %s in status %s",
				update.JobId, event.Kind, c.Id, c.Status))
			return false, nil
		}
		return false, err
	}

	lifecycleUpdate := repositories.CaseLifecycleUpdate{}
	var auditEvent *models.CreateCaseEventAttributes

	switch update.Status {
	case models.JobSucceeded:
		if update.Task == models.TaskInitialParse {
			if event.ExtractionOk {
				if err := uc.repository.BatchCreateCaseCsvFiles(ctx, tx, csvInputs); err != nil {
					return false, err
				}
				lifecycleUpdate.CsvZipUrl = &update.ResultUrl
				auditEvent = &models.CreateCaseEventAttributes{
					EventType: models.CaseEventReviewReady,
					Payload:   fmt.Sprintf("%d documents parsed", len(csvInputs)),
				}
			} else {
				auditEvent = &models.CreateCaseEventAttributes{
					EventType: models.CaseEventAnalysisFailed,
					Payload:   models.ErrResultExtractionFailed.Error(),
				}
			}
		} else {
			lifecycleUpdate.ResultZipUrl = &update.ResultUrl
			auditEvent = &models.CreateCaseEventAttributes{
				EventType: models.CaseEventAnalysisReady,
				Payload:   string(update.Task),
			}
		}

	case models.JobFailed:
		auditEvent = &models.CreateCaseEventAttributes{
			EventType: models.CaseEventAnalysisFailed,
			Payload:   update.ErrorMessage,
		}
		if update.Task.LongRunning() && uc.riverClient != nil {
			_, err := uc.riverClient.InsertTx(ctx, tx.RawTx(), models.FailureNotificationArgs{
				CaseId:       c.Id,
				Task:         string(update.Task),
				ArchiveUrl:   update.InputUrl,
				ErrorMessage: update.ErrorMessage,
			}, nil)
			if err != nil {
				utils.LoggerFromContext(ctx).ErrorContext(ctx, fmt.Sprintf(
					"could not enqueue failure notification for case %s: %v", c.Id, err))
			}
		}
	}

	if err := uc.repository.UpdateCaseLifecycle(ctx, tx, c.Id, next, lifecycleUpdate); err != nil {
		return false, err
	}
	if auditEvent != nil {
		auditEvent.CaseId = c.Id
		auditEvent.UserId = update.UserId
		if err := uc.repository.CreateCaseEvent(ctx, tx, *auditEvent); err != nil {
			return false, err
		}
	}
	return true, nil
}

// extractResults downloads the result archive and persists its CSV entries
// under deterministic keys. A download error is returned as is so the delivery
// gets retried; an unreadable or empty archive yields no inputs, which the
// caller turns into a Failed case.
func (uc JobStatusUsecase) extractResults(
	ctx context.Context,
	c models.Case,
	resultUrl string,
) ([]models.CreateCaseCsvFileInput, error) {
	logger := utils.LoggerFromContext(ctx)
	if resultUrl == "" {
		logger.WarnContext(ctx, fmt.Sprintf("case %s: succeeded job without result url", c.Id))
		return nil, nil
	}

	content, err := uc.fetcher.DownloadArchive(ctx, resultUrl)
	if err != nil {
		return nil, err
	}

	extraction, err := archive.ExtractCsvEntries(content)
	if err != nil {
		logger.WarnContext(ctx, fmt.Sprintf("case %s: unreadable result archive: %v", c.Id, err))
		return nil, nil
	}
	for _, name := range extraction.Skipped {
		logger.WarnContext(ctx, fmt.Sprintf("case %s: skipped result entry %s", c.Id, name))
	}
	if !extraction.Ok() {
		logger.WarnContext(ctx, fmt.Sprintf(
			"case %s: result archive yielded no usable entries (%d candidates)", c.Id, extraction.Candidates))
		return nil, nil
	}

	inputs := make([]models.CreateCaseCsvFileInput, 0, len(extraction.Entries))
	for _, entry := range extraction.Entries {
		key := csvOriginalKey(c.OwnerId, c.Id, entry.Name)
		if err := writeBlob(ctx, uc.blobRepository, uc.bucketUrl, key, entry.Content); err != nil {
			return nil, err
		}
		inputs = append(inputs, models.CreateCaseCsvFileInput{
			Id:              uuid.NewString(),
			CaseId:          c.Id,
			PdfFileName:     pure_utils.CsvNameToDocumentName(entry.Name),
			OriginalFileRef: key,
		})
	}
	return inputs, nil
}

func (uc JobStatusUsecase) mustGetJob(ctx context.Context, exec repositories.Executor, jobId string) (models.AnalysisJob, error) {
	job, err := uc.repository.GetJobById(ctx, exec, jobId)
	if err != nil {
		return models.AnalysisJob{}, err
	}
	if job == nil {
		return models.AnalysisJob{}, errors.Wrapf(models.NotFoundError, "job %s not found after upsert", jobId)
	}
	return *job, nil
}

func (uc JobStatusUsecase) sendFailureNotification(ctx context.Context, update models.JobUpdate) {
	err := uc.notifications.SendFailureNotification(ctx, repositories.FailureNotification{
		CaseId:       update.CaseId,
		Task:         string(update.Task),
		ArchiveUrl:   update.InputUrl,
		ErrorMessage: update.ErrorMessage,
	})
	if err != nil {
		utils.LoggerFromContext(ctx).ErrorContext(ctx, fmt.Sprintf(
			"could not send failure notification for case %s: %v", update.CaseId, err))
	}
}
