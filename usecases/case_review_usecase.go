package usecases

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/cockroachdb/errors"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/usecases/security"
	"github.com/caseproof/caseproof-backend/utils"
)

type CaseReviewRepository interface {
	GetCaseById(ctx context.Context, exec repositories.Executor, caseId string) (models.Case, error)
	ListCaseCsvFiles(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseCsvFile, error)
	GetCaseCsvFileById(ctx context.Context, exec repositories.Executor, csvFileId string) (models.CaseCsvFile, error)
	UpdateCaseCsvFileCorrection(ctx context.Context, exec repositories.Executor,
		csvFileId string, correctedFileRef string) error
	CreateCaseEvent(ctx context.Context, exec repositories.Executor, attrs models.CreateCaseEventAttributes) error
}

// CaseReviewUsecase covers the human-in-the-loop stage between the initial
// parse and the final analysis: analysts download the extracted CSVs, fix
// them, and upload corrected versions.
type CaseReviewUsecase struct {
	enforceSecurity security.EnforceSecurity
	executorFactory executor_factory.ExecutorFactory
	repository      CaseReviewRepository
	blobRepository  repositories.BlobRepository
	bucketUrl       string
}

func (uc CaseReviewUsecase) ListCaseCsvFiles(ctx context.Context, caseId string) ([]models.CaseCsvFile, error) {
	if err := utils.ValidateUuid(caseId); err != nil {
		return nil, err
	}

	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, caseId)
	if err != nil {
		return nil, err
	}
	if err := uc.enforceSecurity.ReadCase(c); err != nil {
		return nil, err
	}
	return uc.repository.ListCaseCsvFiles(ctx, exec, caseId)
}

// GetCsvFileDownloadUrl signs a download link for one CSV. With corrected set,
// the corrected version is required to exist.
func (uc CaseReviewUsecase) GetCsvFileDownloadUrl(ctx context.Context, csvFileId string, corrected bool) (string, error) {
	if err := utils.ValidateUuid(csvFileId); err != nil {
		return "", err
	}

	exec := uc.executorFactory.NewExecutor()
	csvFile, err := uc.repository.GetCaseCsvFileById(ctx, exec, csvFileId)
	if err != nil {
		return "", err
	}
	c, err := uc.repository.GetCaseById(ctx, exec, csvFile.CaseId)
	if err != nil {
		return "", err
	}
	if err := uc.enforceSecurity.ReadCase(c); err != nil {
		return "", err
	}

	ref := csvFile.OriginalFileRef
	if corrected {
		if csvFile.CorrectedFileRef == nil {
			return "", errors.Wrapf(models.NotFoundError, "csv file %s has no corrected version", csvFileId)
		}
		ref = *csvFile.CorrectedFileRef
	}
	return uc.blobRepository.GenerateSignedUrl(ctx, uc.bucketUrl, ref, repositories.SignedUrlExpiryCsvArtifact)
}

// UploadCorrectedCsv replaces the effective content of one parsed document
// with an analyst corrected CSV. Only allowed while the case is in review; the
// original file is kept untouched for audit.
func (uc CaseReviewUsecase) UploadCorrectedCsv(
	ctx context.Context,
	csvFileId string,
	file multipart.FileHeader,
) (models.CaseCsvFile, error) {
	if err := utils.ValidateUuid(csvFileId); err != nil {
		return models.CaseCsvFile{}, err
	}

	exec := uc.executorFactory.NewExecutor()
	csvFile, err := uc.repository.GetCaseCsvFileById(ctx, exec, csvFileId)
	if err != nil {
		return models.CaseCsvFile{}, err
	}
	c, err := uc.repository.GetCaseById(ctx, exec, csvFile.CaseId)
	if err != nil {
		return models.CaseCsvFile{}, err
	}
	if err := uc.enforceSecurity.ModifyCase(c); err != nil {
		return models.CaseCsvFile{}, err
	}
	if c.Status != models.CaseReview {
		return models.CaseCsvFile{}, errors.WithDetail(models.ErrCaseNotInReview,
			"corrections are only accepted while the case is in review")
	}

	entries, err := readArchiveEntries([]multipart.FileHeader{file})
	if err != nil {
		return models.CaseCsvFile{}, err
	}
	entry := entries[0]

	key := csvCorrectedKey(c.OwnerId, c.Id, entry.Name)
	if err := writeBlob(ctx, uc.blobRepository, uc.bucketUrl, key, entry.Content); err != nil {
		return models.CaseCsvFile{}, err
	}

	if err := uc.repository.UpdateCaseCsvFileCorrection(ctx, exec, csvFileId, key); err != nil {
		return models.CaseCsvFile{}, err
	}
	err = uc.repository.CreateCaseEvent(ctx, exec, models.CreateCaseEventAttributes{
		CaseId:    c.Id,
		UserId:    uc.enforceSecurity.Credentials.UserId,
		EventType: models.CaseEventNoteAdded,
		Payload:   fmt.Sprintf("corrected csv uploaded for %s", csvFile.PdfFileName),
	})
	if err != nil {
		return models.CaseCsvFile{}, err
	}
	return uc.repository.GetCaseCsvFileById(ctx, exec, csvFileId)
}
