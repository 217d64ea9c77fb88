package usecases

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/usecases/security"
	"github.com/caseproof/caseproof-backend/utils"
)

type CaseUseCaseRepository interface {
	ListOrganizationCases(ctx context.Context, exec repositories.Executor,
		filters models.CaseFilters) ([]models.Case, error)
	GetCaseById(ctx context.Context, exec repositories.Executor, caseId string) (models.Case, error)
	CreateCase(ctx context.Context, exec repositories.Executor,
		attrs models.CreateCaseAttributes, newCaseId string) error
	UpdateCase(ctx context.Context, exec repositories.Executor, attrs models.UpdateCaseAttributes) error
	UpdateCaseLifecycle(ctx context.Context, exec repositories.Executor, caseId string,
		lifecycle models.CaseLifecycle, update repositories.CaseLifecycleUpdate) error
	DeleteCase(ctx context.Context, exec repositories.Executor, caseId string) error
	CreateCaseEvent(ctx context.Context, exec repositories.Executor,
		attrs models.CreateCaseEventAttributes) error
	ListCaseFiles(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseFile, error)
	GetCaseFileById(ctx context.Context, exec repositories.Executor, fileId string) (models.CaseFile, error)
	ListCaseCsvFiles(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseCsvFile, error)
	ListCaseEvents(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseEvent, error)
}

type CaseUsecase struct {
	enforceSecurity    security.EnforceSecurity
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         CaseUseCaseRepository
	blobRepository     repositories.BlobRepository
	bucketUrl          string
}

func (uc CaseUsecase) ListCases(ctx context.Context, statuses []string) ([]models.Case, error) {
	sanitizedStatuses, err := models.ValidateCaseStatuses(statuses)
	if err != nil {
		return nil, err
	}

	return uc.repository.ListOrganizationCases(ctx, uc.executorFactory.NewExecutor(), models.CaseFilters{
		OrganizationId: uc.enforceSecurity.Credentials.OrganizationId,
		OwnerId:        uc.enforceSecurity.Credentials.UserId,
		Statuses:       sanitizedStatuses,
	})
}

// GetCase returns the case with its files, CSV outputs and audit trail.
func (uc CaseUsecase) GetCase(ctx context.Context, caseId string) (models.Case, error) {
	if err := utils.ValidateUuid(caseId); err != nil {
		return models.Case{}, err
	}

	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, caseId)
	if err != nil {
		return models.Case{}, err
	}
	if err := uc.enforceSecurity.ReadCase(c); err != nil {
		return models.Case{}, err
	}

	if c.Files, err = uc.repository.ListCaseFiles(ctx, exec, caseId); err != nil {
		return models.Case{}, err
	}
	if c.CsvFiles, err = uc.repository.ListCaseCsvFiles(ctx, exec, caseId); err != nil {
		return models.Case{}, err
	}
	if c.Events, err = uc.repository.ListCaseEvents(ctx, exec, caseId); err != nil {
		return models.Case{}, err
	}
	return c, nil
}

func (uc CaseUsecase) CreateCase(ctx context.Context, attrs models.CreateCaseAttributes) (models.Case, error) {
	if err := uc.enforceSecurity.CreateCase(); err != nil {
		return models.Case{}, err
	}
	if attrs.Name == "" {
		return models.Case{}, errors.Wrap(models.BadParameterError, "case name is required")
	}
	attrs.OwnerId = uc.enforceSecurity.Credentials.UserId
	attrs.OrganizationId = uc.enforceSecurity.Credentials.OrganizationId

	newCaseId := uuid.NewString()
	return executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.Case, error) {
			if err := uc.repository.CreateCase(ctx, tx, attrs, newCaseId); err != nil {
				return models.Case{}, err
			}
			err := uc.repository.CreateCaseEvent(ctx, tx, models.CreateCaseEventAttributes{
				CaseId:    newCaseId,
				UserId:    attrs.OwnerId,
				EventType: models.CaseEventCreated,
			})
			if err != nil {
				return models.Case{}, err
			}
			return uc.repository.GetCaseById(ctx, tx, newCaseId)
		})
}

func (uc CaseUsecase) UpdateCase(ctx context.Context, attrs models.UpdateCaseAttributes) (models.Case, error) {
	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, attrs.Id)
	if err != nil {
		return models.Case{}, err
	}
	if err := uc.enforceSecurity.ModifyCase(c); err != nil {
		return models.Case{}, err
	}

	if err := uc.repository.UpdateCase(ctx, exec, attrs); err != nil {
		return models.Case{}, err
	}
	return uc.repository.GetCaseById(ctx, exec, attrs.Id)
}

func (uc CaseUsecase) ArchiveCase(ctx context.Context, caseId string) (models.Case, error) {
	return uc.applyLifecycleEvent(ctx, caseId, models.LifecycleEventArchive)
}

func (uc CaseUsecase) UnarchiveCase(ctx context.Context, caseId string) (models.Case, error) {
	return uc.applyLifecycleEvent(ctx, caseId, models.LifecycleEventUnarchive)
}

func (uc CaseUsecase) applyLifecycleEvent(
	ctx context.Context,
	caseId string,
	kind models.CaseLifecycleEventKind,
) (models.Case, error) {
	if err := utils.ValidateUuid(caseId); err != nil {
		return models.Case{}, err
	}

	return executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.Case, error) {
			c, err := uc.repository.GetCaseById(ctx, tx, caseId)
			if err != nil {
				return models.Case{}, err
			}
			if err := uc.enforceSecurity.ModifyCase(c); err != nil {
				return models.Case{}, err
			}

			next, err := models.NextCaseLifecycle(c.Lifecycle(), models.CaseLifecycleEvent{Kind: kind})
			if err != nil {
				return models.Case{}, err
			}
			err = uc.repository.UpdateCaseLifecycle(ctx, tx, caseId, next, repositories.CaseLifecycleUpdate{})
			if err != nil {
				return models.Case{}, err
			}
			return uc.repository.GetCaseById(ctx, tx, caseId)
		})
}

func (uc CaseUsecase) AddCaseNote(ctx context.Context, caseId, note string) error {
	if note == "" {
		return errors.Wrap(models.BadParameterError, "note is empty")
	}

	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, caseId)
	if err != nil {
		return err
	}
	if err := uc.enforceSecurity.ModifyCase(c); err != nil {
		return err
	}

	return uc.repository.CreateCaseEvent(ctx, exec, models.CreateCaseEventAttributes{
		CaseId:    caseId,
		UserId:    uc.enforceSecurity.Credentials.UserId,
		EventType: models.CaseEventNoteAdded,
		Payload:   note,
	})
}

// DeleteCase removes the case rows and then best-effort sweeps the case's blob
// prefix. A failed blob delete is logged, not surfaced: the rows are the
// source of truth and orphaned blobs are harmless.
func (uc CaseUsecase) DeleteCase(ctx context.Context, caseId string) error {
	if err := utils.ValidateUuid(caseId); err != nil {
		return err
	}

	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, caseId)
	if err != nil {
		return err
	}
	if err := uc.enforceSecurity.DeleteCase(c); err != nil {
		return err
	}

	if err := uc.repository.DeleteCase(ctx, exec, caseId); err != nil {
		return err
	}

	logger := utils.LoggerFromContext(ctx)
	keys, err := uc.blobRepository.ListFiles(ctx, uc.bucketUrl, casePrefix(c.OwnerId, c.Id))
	if err != nil {
		logger.WarnContext(ctx, fmt.Sprintf("could not list blobs of deleted case %s: %v", c.Id, err))
		return nil
	}
	for _, key := range keys {
		if err := uc.blobRepository.DeleteFile(ctx, uc.bucketUrl, key); err != nil {
			logger.WarnContext(ctx, fmt.Sprintf("could not delete blob %s: %v", key, err))
		}
	}
	return nil
}

// GetFileDownloadUrl returns a short lived signed url for previewing one
// uploaded document.
func (uc CaseUsecase) GetFileDownloadUrl(ctx context.Context, fileId string) (string, error) {
	if err := utils.ValidateUuid(fileId); err != nil {
		return "", err
	}

	exec := uc.executorFactory.NewExecutor()
	file, err := uc.repository.GetCaseFileById(ctx, exec, fileId)
	if err != nil {
		return "", err
	}
	c, err := uc.repository.GetCaseById(ctx, exec, file.CaseId)
	if err != nil {
		return "", err
	}
	if err := uc.enforceSecurity.ReadCase(c); err != nil {
		return "", err
	}

	return uc.blobRepository.GenerateSignedUrl(ctx, uc.bucketUrl, file.FileReference,
		repositories.SignedUrlExpiryPreview)
}
