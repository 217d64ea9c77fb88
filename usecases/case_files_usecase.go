package usecases

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/pure_utils"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/usecases/security"
)

type CaseFileRepository interface {
	GetCaseById(ctx context.Context, exec repositories.Executor, caseId string) (models.Case, error)
	CreateCaseFile(ctx context.Context, exec repositories.Executor, input models.CreateDbCaseFileInput) error
	ListCaseFiles(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseFile, error)
	CreateCaseEvent(ctx context.Context, exec repositories.Executor, attrs models.CreateCaseEventAttributes) error
}

type CaseFileUsecase struct {
	enforceSecurity    security.EnforceSecurity
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         CaseFileRepository
	blobRepository     repositories.BlobRepository
	bucketUrl          string
}

// UploadFiles attaches documents to a case without triggering an analysis.
// Files whose sanitized name already exists on the case are skipped.
func (uc CaseFileUsecase) UploadFiles(ctx context.Context, input models.CreateCaseFilesInput) ([]models.CaseFile, error) {
	exec := uc.executorFactory.NewExecutor()
	c, err := uc.repository.GetCaseById(ctx, exec, input.CaseId)
	if err != nil {
		return nil, err
	}
	if err := uc.enforceSecurity.ModifyCase(c); err != nil {
		return nil, err
	}

	entries, err := readArchiveEntries(input.Files)
	if err != nil {
		return nil, err
	}
	return uc.storeEntries(ctx, c, entries)
}

// storeEntries uploads the blobs, then records the file rows and the audit
// event in one transaction. Entries whose name already exists on the case are
// dropped up front so re-uploads are no-ops rather than overwrites.
func (uc CaseFileUsecase) storeEntries(
	ctx context.Context,
	c models.Case,
	entries []models.ArchiveEntry,
) ([]models.CaseFile, error) {
	exec := uc.executorFactory.NewExecutor()
	existing, err := uc.repository.ListCaseFiles(ctx, exec, c.Id)
	if err != nil {
		return nil, err
	}
	existingNames := make(map[string]struct{}, len(existing))
	for _, file := range existing {
		existingNames[file.FileName] = struct{}{}
	}

	var newEntries []models.ArchiveEntry
	for _, entry := range entries {
		if _, found := existingNames[entry.Name]; !found {
			newEntries = append(newEntries, entry)
		}
	}

	for _, entry := range newEntries {
		err := writeBlob(ctx, uc.blobRepository, uc.bucketUrl, caseFileKey(c.OwnerId, c.Id, entry.Name), entry.Content)
		if err != nil {
			return nil, err
		}
	}

	return executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) ([]models.CaseFile, error) {
			uploadedNames := make([]string, 0, len(newEntries))
			for _, entry := range newEntries {
				err := uc.repository.CreateCaseFile(ctx, tx, models.CreateDbCaseFileInput{
					Id:            uuid.NewString(),
					CaseId:        c.Id,
					FileName:      entry.Name,
					FileReference: caseFileKey(c.OwnerId, c.Id, entry.Name),
					UploaderId:    uc.enforceSecurity.Credentials.UserId,
					Type:          models.CaseFileUpload,
				})
				if err != nil {
					return nil, err
				}
				uploadedNames = append(uploadedNames, entry.Name)
			}

			if len(uploadedNames) > 0 {
				err := uc.repository.CreateCaseEvent(ctx, tx, models.CreateCaseEventAttributes{
					CaseId:    c.Id,
					UserId:    uc.enforceSecurity.Credentials.UserId,
					EventType: models.CaseEventFilesUploaded,
					Payload:   strings.Join(uploadedNames, ", "),
				})
				if err != nil {
					return nil, err
				}
			}
			return uc.repository.ListCaseFiles(ctx, tx, c.Id)
		})
}

func writeBlob(ctx context.Context, blobRepository repositories.BlobRepository, bucketUrl, key string, content []byte) error {
	writer, err := blobRepository.OpenStream(ctx, bucketUrl, key)
	if err != nil {
		return err
	}
	if _, err := writer.Write(content); err != nil {
		writer.Close()
		return errors.Wrapf(err, "could not write blob %s", key)
	}
	return writer.Close()
}

// readArchiveEntries reads every uploaded file once into memory under its
// sanitized name. The same bytes back both the individual blob uploads and the
// archive build, so the dispatched archive always matches what was persisted.
func readArchiveEntries(files []multipart.FileHeader) ([]models.ArchiveEntry, error) {
	if len(files) == 0 {
		return nil, errors.Wrap(models.BadParameterError, "no files provided")
	}

	entries := make([]models.ArchiveEntry, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for i := range files {
		header := &files[i]
		name := pure_utils.SanitizeFileName(header.Filename)
		if name == "" || name == models.PasswordManifestName {
			return nil, errors.Wrapf(models.BadParameterError, "invalid file name %q", header.Filename)
		}
		if _, found := seen[name]; found {
			return nil, errors.Wrapf(models.BadParameterError,
				"files %q collide on sanitized name %q", header.Filename, name)
		}
		seen[name] = struct{}{}

		file, err := header.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "could not open uploaded file %q", header.Filename)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "could not read uploaded file %q", header.Filename)
		}

		entries = append(entries, models.ArchiveEntry{Name: name, Content: content})
	}
	return entries, nil
}

// sanitizePasswords rekeys a password map by sanitized file name so lookups
// line up with archive entry names.
func sanitizePasswords(passwords map[string]string) map[string]string {
	if len(passwords) == 0 {
		return nil
	}
	sanitized := make(map[string]string, len(passwords))
	for name, password := range passwords {
		sanitized[pure_utils.SanitizeFileName(name)] = password
	}
	return sanitized
}
