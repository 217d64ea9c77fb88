package usecases

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/archive"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/usecases/security"
	"github.com/caseproof/caseproof-backend/utils"
)

type AnalysisDispatcher interface {
	SubmitTask(ctx context.Context, task models.TaskType, caseId, archiveUrl, userId string) (string, error)
}

type CaseWorkflowRepository interface {
	GetCaseById(ctx context.Context, exec repositories.Executor, caseId string) (models.Case, error)
	UpdateCaseLifecycle(ctx context.Context, exec repositories.Executor, caseId string,
		lifecycle models.CaseLifecycle, update repositories.CaseLifecycleUpdate) error
	CreateCaseEvent(ctx context.Context, exec repositories.Executor, attrs models.CreateCaseEventAttributes) error
	ListCaseCsvFiles(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseCsvFile, error)
}

// CaseWorkflowUsecase drives the analysis pipeline: it bundles case documents
// into archives, hands them to the analysis backend and moves the case into
// Processing. Everything after dispatch is reported back asynchronously
// through the job webhook.
type CaseWorkflowUsecase struct {
	enforceSecurity    security.EnforceSecurity
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         CaseWorkflowRepository
	blobRepository     repositories.BlobRepository
	dispatcher         AnalysisDispatcher
	notifications      repositories.NotificationRepository
	riverClient        *river.Client[pgx.Tx]
	files              CaseFileUsecase
	bucketUrl          string
}

// SubmitCaseForAnalysis uploads the given documents to the case, bundles them
// into an input archive and dispatches it to the analysis backend. With hitl
// set, the archive goes through the human reviewed initial-parse pipeline;
// otherwise it goes straight to statement parsing.
//
// The status transition is re-checked inside the transaction, so two
// concurrent submissions on the same case serialize: the second one finds the
// case already Processing and fails with a conflict.
func (uc CaseWorkflowUsecase) SubmitCaseForAnalysis(
	ctx context.Context,
	caseId string,
	files []multipart.FileHeader,
	passwords map[string]string,
	hitl bool,
) (models.Case, error) {
	if err := utils.ValidateUuid(caseId); err != nil {
		return models.Case{}, err
	}

	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, caseId)
	if err != nil {
		return models.Case{}, err
	}
	if err := uc.enforceSecurity.ModifyCase(c); err != nil {
		return models.Case{}, err
	}

	task := models.TaskParseStatements
	if hitl {
		task = models.TaskInitialParse
	}
	event := models.CaseLifecycleEvent{Kind: models.LifecycleEventSubmitFiles, Task: task}

	// Fail before any upload if the case cannot accept a submission.
	if _, err := models.NextCaseLifecycle(c.Lifecycle(), event); err != nil {
		return models.Case{}, err
	}

	entries, err := readArchiveEntries(files)
	if err != nil {
		return models.Case{}, err
	}
	if _, err := uc.files.storeEntries(ctx, c, entries); err != nil {
		return models.Case{}, err
	}

	archiveContent, err := archive.Build(entries, sanitizePasswords(passwords))
	if err != nil {
		return models.Case{}, err
	}
	archiveKey := inputArchiveKey(c.OwnerId, c.Id, time.Now())
	if err := writeBlob(ctx, uc.blobRepository, uc.bucketUrl, archiveKey, archiveContent); err != nil {
		return models.Case{}, err
	}
	archiveUrl, err := uc.blobRepository.GenerateSignedUrl(ctx, uc.bucketUrl, archiveKey,
		repositories.SignedUrlExpiryInputArchive)
	if err != nil {
		return models.Case{}, err
	}

	updated, err := uc.transitionToProcessing(ctx, caseId, event, archiveKey)
	if err != nil {
		return models.Case{}, err
	}

	if _, err := uc.dispatcher.SubmitTask(ctx, task, c.Id, archiveUrl,
		uc.enforceSecurity.Credentials.UserId); err != nil {
		return models.Case{}, uc.markDispatchFailed(ctx, caseId, task, archiveUrl, err)
	}
	return updated, nil
}

// ProceedToFinalAnalysis closes the review stage: it bundles the effective CSV
// set, corrected files taking precedence over originals, and dispatches the
// final analysis task.
func (uc CaseWorkflowUsecase) ProceedToFinalAnalysis(ctx context.Context, caseId string) (models.Case, error) {
	if err := utils.ValidateUuid(caseId); err != nil {
		return models.Case{}, err
	}

	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, caseId)
	if err != nil {
		return models.Case{}, err
	}
	if err := uc.enforceSecurity.ModifyCase(c); err != nil {
		return models.Case{}, err
	}

	event := models.CaseLifecycleEvent{Kind: models.LifecycleEventProceedToFinal, Task: models.TaskFinalAnalysis}
	if _, err := models.NextCaseLifecycle(c.Lifecycle(), event); err != nil {
		return models.Case{}, err
	}

	csvFiles, err := uc.repository.ListCaseCsvFiles(ctx, exec, caseId)
	if err != nil {
		return models.Case{}, err
	}
	if len(csvFiles) == 0 {
		return models.Case{}, errors.Wrap(models.UnprocessableEntityError,
			"case has no parsed documents to analyze")
	}

	entries := make([]models.ArchiveEntry, 0, len(csvFiles))
	for _, csvFile := range csvFiles {
		ref := csvFile.EffectiveFileRef()
		content, err := uc.readBlob(ctx, ref)
		if err != nil {
			return models.Case{}, err
		}
		entries = append(entries, models.ArchiveEntry{Name: path.Base(ref), Content: content})
	}

	archiveContent, err := archive.Build(entries, nil)
	if err != nil {
		return models.Case{}, err
	}
	archiveKey := reviewArchiveKey(c.OwnerId, c.Id, time.Now())
	if err := writeBlob(ctx, uc.blobRepository, uc.bucketUrl, archiveKey, archiveContent); err != nil {
		return models.Case{}, err
	}
	archiveUrl, err := uc.blobRepository.GenerateSignedUrl(ctx, uc.bucketUrl, archiveKey,
		repositories.SignedUrlExpiryInputArchive)
	if err != nil {
		return models.Case{}, err
	}

	updated, err := uc.transitionToProcessing(ctx, caseId, event, archiveKey)
	if err != nil {
		return models.Case{}, err
	}

	if _, err := uc.dispatcher.SubmitTask(ctx, models.TaskFinalAnalysis, c.Id, archiveUrl,
		uc.enforceSecurity.Credentials.UserId); err != nil {
		return models.Case{}, uc.markDispatchFailed(ctx, caseId, models.TaskFinalAnalysis, archiveUrl, err)
	}
	return updated, nil
}

func (uc CaseWorkflowUsecase) transitionToProcessing(
	ctx context.Context,
	caseId string,
	event models.CaseLifecycleEvent,
	archiveKey string,
) (models.Case, error) {
	return executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.Case, error) {
			c, err := uc.repository.GetCaseById(ctx, tx, caseId)
			if err != nil {
				return models.Case{}, err
			}
			next, err := models.NextCaseLifecycle(c.Lifecycle(), event)
			if err != nil {
				return models.Case{}, err
			}
			err = uc.repository.UpdateCaseLifecycle(ctx, tx, caseId, next,
				repositories.CaseLifecycleUpdate{InputArchiveKey: &archiveKey})
			if err != nil {
				return models.Case{}, err
			}
			err = uc.repository.CreateCaseEvent(ctx, tx, models.CreateCaseEventAttributes{
				CaseId:    caseId,
				UserId:    uc.enforceSecurity.Credentials.UserId,
				EventType: models.CaseEventAnalysisSubmitted,
				Payload:   string(event.Task),
			})
			if err != nil {
				return models.Case{}, err
			}
			return uc.repository.GetCaseById(ctx, tx, caseId)
		})
}

// markDispatchFailed moves a case whose backend submission was rejected to
// Failed and, for the long running tasks, opens an operator ticket. It always
// returns the dispatch error: the caller's submission did fail.
func (uc CaseWorkflowUsecase) markDispatchFailed(
	ctx context.Context,
	caseId string,
	task models.TaskType,
	archiveUrl string,
	cause error,
) error {
	logger := utils.LoggerFromContext(ctx)

	txErr := uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		c, err := uc.repository.GetCaseById(ctx, tx, caseId)
		if err != nil {
			return err
		}
		next, err := models.NextCaseLifecycle(c.Lifecycle(),
			models.CaseLifecycleEvent{Kind: models.LifecycleEventJobFailed, Task: task})
		if err != nil {
			// The case moved on in the meantime, leave it alone.
			return nil
		}
		err = uc.repository.UpdateCaseLifecycle(ctx, tx, caseId, next, repositories.CaseLifecycleUpdate{})
		if err != nil {
			return err
		}
		err = uc.repository.CreateCaseEvent(ctx, tx, models.CreateCaseEventAttributes{
			CaseId:    caseId,
			UserId:    uc.enforceSecurity.Credentials.UserId,
			EventType: models.CaseEventAnalysisFailed,
			Payload:   cause.Error(),
		})
		if err != nil {
			return err
		}

		if task.LongRunning() && uc.riverClient != nil {
			_, err := uc.riverClient.InsertTx(ctx, tx.RawTx(), models.FailureNotificationArgs{
				CaseId:       caseId,
				Task:         string(task),
				ArchiveUrl:   archiveUrl,
				ErrorMessage: cause.Error(),
			}, nil)
			if err != nil {
				logger.ErrorContext(ctx, fmt.Sprintf("could not enqueue failure notification: %v", err))
			}
		}
		return nil
	})
	if txErr != nil {
		logger.ErrorContext(ctx, fmt.Sprintf("could not mark case %s failed after dispatch error: %v", caseId, txErr))
	}

	if task.LongRunning() && uc.riverClient == nil {
		err := uc.notifications.SendFailureNotification(ctx, repositories.FailureNotification{
			CaseId:       caseId,
			Task:         string(task),
			ArchiveUrl:   archiveUrl,
			ErrorMessage: cause.Error(),
		})
		if err != nil {
			logger.ErrorContext(ctx, fmt.Sprintf("could not send failure notification: %v", err))
		}
	}

	return cause
}

func (uc CaseWorkflowUsecase) readBlob(ctx context.Context, key string) ([]byte, error) {
	blob, err := uc.blobRepository.GetBlob(ctx, uc.bucketUrl, key)
	if err != nil {
		return nil, err
	}
	defer blob.ReadCloser.Close()

	content, err := io.ReadAll(blob.ReadCloser)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read blob %s", key)
	}
	return content, nil
}
