package usecases

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseproof/caseproof-backend/mocks"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
	"github.com/caseproof/caseproof-backend/usecases/security"
)

func multipartFileHeaders(t *testing.T, files map[string][]byte) []multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("files[]", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)

	headers := make([]multipart.FileHeader, 0, len(files))
	for _, header := range form.File["files[]"] {
		headers = append(headers, *header)
	}
	return headers
}

func newCaseFileUsecase(repo *mocks.CaseRepository, blob *mocks.BlobRepository) CaseFileUsecase {
	return CaseFileUsecase{
		enforceSecurity: security.EnforceSecurity{
			Credentials: models.Credentials{UserId: testUserId, Role: models.ANALYST},
		},
		executorFactory:    executor_factory.NewExecutorFactoryStub(),
		transactionFactory: executor_factory.NewExecutorFactoryStub(),
		repository:         repo,
		blobRepository:     blob,
		bucketUrl:          testBucket,
	}
}

func TestUploadFiles_skipsExistingNames(t *testing.T) {
	repo := new(mocks.CaseRepository)
	blob := new(mocks.BlobRepository)
	uc := newCaseFileUsecase(repo, blob)

	c := models.Case{Id: testCaseId, OwnerId: testUserId, Status: models.CaseActive}
	repo.On("GetCaseById", mock.Anything, testCaseId).Return(c, nil)
	repo.On("ListCaseFiles", mock.Anything, testCaseId).
		Return([]models.CaseFile{{FileName: "statement_jan.pdf"}}, nil).Once()

	blob.On("OpenStream", testBucket, caseFileKey(testUserId, testCaseId, "new.pdf")).
		Return(&mocks.NopWriteCloser{}, nil)
	repo.On("CreateCaseFile", mock.Anything,
		mock.MatchedBy(func(input models.CreateDbCaseFileInput) bool {
			return input.FileName == "new.pdf" && input.UploaderId == testUserId
		})).Return(nil).Once()
	repo.On("CreateCaseEvent", mock.Anything,
		mock.MatchedBy(func(attrs models.CreateCaseEventAttributes) bool {
			return attrs.EventType == models.CaseEventFilesUploaded && attrs.Payload == "new.pdf"
		})).Return(nil).Once()
	finalFiles := []models.CaseFile{{FileName: "statement_jan.pdf"}, {FileName: "new.pdf"}}
	repo.On("ListCaseFiles", mock.Anything, testCaseId).Return(finalFiles, nil).Once()

	files, err := uc.UploadFiles(context.Background(), models.CreateCaseFilesInput{
		CaseId: testCaseId,
		Files: multipartFileHeaders(t, map[string][]byte{
			"statement jan.pdf": []byte("already there"),
			"new.pdf":           []byte("fresh"),
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, finalFiles, files)

	repo.AssertExpectations(t)
	blob.AssertExpectations(t)
}

func TestUploadFiles_viewerIsRejected(t *testing.T) {
	repo := new(mocks.CaseRepository)
	uc := newCaseFileUsecase(repo, new(mocks.BlobRepository))
	uc.enforceSecurity.Credentials.Role = models.VIEWER

	repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(models.Case{Id: testCaseId, OwnerId: testUserId, Status: models.CaseActive}, nil)

	_, err := uc.UploadFiles(context.Background(), models.CreateCaseFilesInput{
		CaseId: testCaseId,
		Files:  multipartFileHeaders(t, map[string][]byte{"a.pdf": []byte("x")}),
	})
	assert.ErrorIs(t, err, models.ForbiddenError)
	repo.AssertNotCalled(t, "CreateCaseFile", mock.Anything, mock.Anything)
}

func TestReadArchiveEntries(t *testing.T) {
	t.Run("sanitizes names and reads content", func(t *testing.T) {
		entries, err := readArchiveEntries(multipartFileHeaders(t,
			map[string][]byte{"relevé année.pdf": []byte("contenu")}))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "relev__ann_e.pdf", entries[0].Name)
		assert.Equal(t, []byte("contenu"), entries[0].Content)
	})

	t.Run("rejects an empty upload", func(t *testing.T) {
		_, err := readArchiveEntries(nil)
		assert.ErrorIs(t, err, models.BadParameterError)
	})

	t.Run("rejects the password manifest name", func(t *testing.T) {
		_, err := readArchiveEntries(multipartFileHeaders(t,
			map[string][]byte{models.PasswordManifestName: []byte("x")}))
		assert.ErrorIs(t, err, models.BadParameterError)
	})

	t.Run("rejects sanitized name collisions", func(t *testing.T) {
		_, err := readArchiveEntries(multipartFileHeaders(t, map[string][]byte{
			"statement jan.pdf": []byte("a"),
			"statement_jan.pdf": []byte("b"),
		}))
		assert.ErrorIs(t, err, models.BadParameterError)
	})
}

func TestSanitizePasswords(t *testing.T) {
	sanitized := sanitizePasswords(map[string]string{"relevé année.pdf": "hunter2"})
	assert.Equal(t, map[string]string{"relev__ann_e.pdf": "hunter2"}, sanitized)
	assert.Nil(t, sanitizePasswords(nil))
}
