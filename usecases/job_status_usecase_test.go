package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseproof/caseproof-backend/mocks"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/archive"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
)

const (
	testCaseId  = "1b1e0ba1-7c34-4c0d-9f0e-2c6b2b1f3a10"
	testUserId  = "5b271e2a-2d1e-4b44-9f5a-7a6fd1b9c001"
	testOwnerId = "5b271e2a-2d1e-4b44-9f5a-7a6fd1b9c001"
	testJobId   = "job-42"
	testBucket  = "file:///tmp/case-storage"
)

type jobStatusTestMocks struct {
	repo    *mocks.CaseRepository
	blob    *mocks.BlobRepository
	backend *mocks.AnalysisBackend
	notif   *mocks.NotificationRepository
}

func newJobStatusUsecase() (JobStatusUsecase, jobStatusTestMocks) {
	m := jobStatusTestMocks{
		repo:    new(mocks.CaseRepository),
		blob:    new(mocks.BlobRepository),
		backend: new(mocks.AnalysisBackend),
		notif:   new(mocks.NotificationRepository),
	}
	uc := JobStatusUsecase{
		executorFactory:    executor_factory.NewExecutorFactoryStub(),
		transactionFactory: executor_factory.NewExecutorFactoryStub(),
		repository:         m.repo,
		blobRepository:     m.blob,
		fetcher:            m.backend,
		notifications:      m.notif,
		bucketUrl:          testBucket,
	}
	return uc, m
}

func processingCase(stage models.HitlStage) models.Case {
	return models.Case{
		Id:        testCaseId,
		OwnerId:   testOwnerId,
		Name:      "acme investigation",
		Status:    models.CaseProcessing,
		HitlStage: stage,
	}
}

func jobUpdate(status models.JobStatus, task models.TaskType) models.JobUpdate {
	return models.JobUpdate{
		JobId:  testJobId,
		Task:   task,
		CaseId: testCaseId,
		UserId: testUserId,
		Status: status,
	}
}

func TestHandleJobUpdate_started(t *testing.T) {
	uc, m := newJobStatusUsecase()
	update := jobUpdate(models.JobStarted, models.TaskInitialParse)
	storedJob := models.AnalysisJob{Id: testJobId, Status: models.JobStarted}

	m.repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(processingCase(models.HitlStageInitialParse), nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(nil, nil).Once()
	m.repo.On("InsertJob", mock.Anything, update).Return(nil)
	m.repo.On("UpdateCaseLifecycle", mock.Anything, testCaseId,
		models.CaseLifecycle{Status: models.CaseProcessing, HitlStage: models.HitlStageInitialParse},
		repositories.CaseLifecycleUpdate{}).Return(nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&storedJob, nil).Once()

	job, err := uc.HandleJobUpdate(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, storedJob, job)

	m.repo.AssertExpectations(t)
	m.repo.AssertNotCalled(t, "CreateCaseEvent", mock.Anything, mock.Anything)
}

func TestHandleJobUpdate_staleStartedAfterTerminal(t *testing.T) {
	uc, m := newJobStatusUsecase()
	update := jobUpdate(models.JobStarted, models.TaskInitialParse)
	terminal := models.AnalysisJob{Id: testJobId, Status: models.JobSucceeded}

	m.repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(models.Case{Id: testCaseId, OwnerId: testOwnerId, Status: models.CaseReview}, nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&terminal, nil)

	job, err := uc.HandleJobUpdate(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, terminal, job)

	m.repo.AssertNotCalled(t, "InsertJob", mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "UpdateJob", mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "UpdateCaseLifecycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleJobUpdate_initialParseSuccess(t *testing.T) {
	uc, m := newJobStatusUsecase()
	update := jobUpdate(models.JobSucceeded, models.TaskInitialParse)
	update.ResultUrl = "https://backend.example.com/results/job-42.zip"
	started := models.AnalysisJob{Id: testJobId, Status: models.JobStarted}
	succeeded := models.AnalysisJob{Id: testJobId, Status: models.JobSucceeded}

	resultArchive, err := archive.Build([]models.ArchiveEntry{
		{Name: "statement_jan.csv", Content: []byte("date,amount\n")},
		{Name: "statement_feb.csv", Content: []byte("date,amount\n")},
	}, nil)
	require.NoError(t, err)

	m.repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(processingCase(models.HitlStageInitialParse), nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&started, nil).Twice()
	m.backend.On("DownloadArchive", update.ResultUrl).Return(resultArchive, nil)
	m.blob.On("OpenStream", testBucket, mock.Anything).Return(&mocks.NopWriteCloser{}, nil)
	m.repo.On("UpdateJob", mock.Anything, update).Return(nil)
	m.repo.On("BatchCreateCaseCsvFiles", mock.Anything,
		mock.MatchedBy(func(inputs []models.CreateCaseCsvFileInput) bool {
			return len(inputs) == 2 &&
				inputs[0].PdfFileName == "statement jan.pdf" &&
				inputs[1].PdfFileName == "statement feb.pdf"
		})).Return(nil)
	m.repo.On("UpdateCaseLifecycle", mock.Anything, testCaseId,
		models.CaseLifecycle{Status: models.CaseReview, HitlStage: models.HitlStageReview},
		mock.MatchedBy(func(update repositories.CaseLifecycleUpdate) bool {
			return update.CsvZipUrl != nil
		})).Return(nil)
	m.repo.On("CreateCaseEvent", mock.Anything,
		mock.MatchedBy(func(attrs models.CreateCaseEventAttributes) bool {
			return attrs.EventType == models.CaseEventReviewReady
		})).Return(nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&succeeded, nil).Once()

	job, err := uc.HandleJobUpdate(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, models.JobSucceeded, job.Status)

	m.repo.AssertExpectations(t)
	m.backend.AssertExpectations(t)
}

func TestHandleJobUpdate_initialParseSuccessWithEmptyArchive(t *testing.T) {
	uc, m := newJobStatusUsecase()
	update := jobUpdate(models.JobSucceeded, models.TaskInitialParse)
	update.ResultUrl = "https://backend.example.com/results/job-42.zip"
	started := models.AnalysisJob{Id: testJobId, Status: models.JobStarted}
	succeeded := models.AnalysisJob{Id: testJobId, Status: models.JobSucceeded}

	emptyArchive, err := archive.Build(nil, nil)
	require.NoError(t, err)

	m.repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(processingCase(models.HitlStageInitialParse), nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&started, nil).Twice()
	m.backend.On("DownloadArchive", update.ResultUrl).Return(emptyArchive, nil)
	m.repo.On("UpdateJob", mock.Anything, update).Return(nil)
	m.repo.On("UpdateCaseLifecycle", mock.Anything, testCaseId,
		models.CaseLifecycle{Status: models.CaseFailed}, repositories.CaseLifecycleUpdate{}).Return(nil)
	m.repo.On("CreateCaseEvent", mock.Anything,
		mock.MatchedBy(func(attrs models.CreateCaseEventAttributes) bool {
			return attrs.EventType == models.CaseEventAnalysisFailed
		})).Return(nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&succeeded, nil).Once()

	_, err = uc.HandleJobUpdate(context.Background(), update)
	require.NoError(t, err)

	m.repo.AssertExpectations(t)
	m.repo.AssertNotCalled(t, "BatchCreateCaseCsvFiles", mock.Anything, mock.Anything)
}

func TestHandleJobUpdate_terminalReplayHasNoSideEffects(t *testing.T) {
	uc, m := newJobStatusUsecase()
	update := jobUpdate(models.JobSucceeded, models.TaskInitialParse)
	update.ResultUrl = "https://backend.example.com/results/job-42.zip"
	succeeded := models.AnalysisJob{Id: testJobId, Status: models.JobSucceeded}

	m.repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(models.Case{Id: testCaseId, OwnerId: testOwnerId, Status: models.CaseReview}, nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&succeeded, nil)
	m.repo.On("UpdateJob", mock.Anything, update).Return(nil)

	job, err := uc.HandleJobUpdate(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, succeeded, job)

	m.backend.AssertNotCalled(t, "DownloadArchive", mock.Anything)
	m.repo.AssertNotCalled(t, "BatchCreateCaseCsvFiles", mock.Anything, mock.Anything)
	m.repo.AssertNotCalled(t, "UpdateCaseLifecycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleJobUpdate_failureNotifies(t *testing.T) {
	uc, m := newJobStatusUsecase()
	update := jobUpdate(models.JobFailed, models.TaskFinalAnalysis)
	update.ErrorMessage = "model crashed"
	failed := models.AnalysisJob{Id: testJobId, Status: models.JobFailed}

	m.repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(processingCase(models.HitlStageFinalAnalysis), nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(nil, nil).Once()
	m.repo.On("InsertJob", mock.Anything, update).Return(nil)
	m.repo.On("UpdateCaseLifecycle", mock.Anything, testCaseId,
		models.CaseLifecycle{Status: models.CaseFailed}, repositories.CaseLifecycleUpdate{}).Return(nil)
	m.repo.On("CreateCaseEvent", mock.Anything,
		mock.MatchedBy(func(attrs models.CreateCaseEventAttributes) bool {
			return attrs.EventType == models.CaseEventAnalysisFailed && attrs.Payload == "model crashed"
		})).Return(nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&failed, nil).Once()
	m.notif.On("SendFailureNotification",
		mock.MatchedBy(func(n repositories.FailureNotification) bool {
			return n.CaseId == testCaseId && n.ErrorMessage == "model crashed"
		})).Return(nil)

	_, err := uc.HandleJobUpdate(context.Background(), update)
	require.NoError(t, err)

	m.repo.AssertExpectations(t)
	m.notif.AssertExpectations(t)
}

func TestHandleJobUpdate_lateDeliveryOnSettledCaseKeepsJobRow(t *testing.T) {
	uc, m := newJobStatusUsecase()
	update := jobUpdate(models.JobFailed, models.TaskParseStatements)

	m.repo.On("GetCaseById", mock.Anything, testCaseId).
		Return(models.Case{Id: testCaseId, OwnerId: testOwnerId, Status: models.CaseReady}, nil)
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(nil, nil).Once()
	m.repo.On("InsertJob", mock.Anything, update).Return(nil)
	failed := models.AnalysisJob{Id: testJobId, Status: models.JobFailed}
	m.repo.On("GetJobById", mock.Anything, testJobId).Return(&failed, nil).Once()

	job, err := uc.HandleJobUpdate(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, failed, job)

	m.repo.AssertNotCalled(t, "UpdateCaseLifecycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleJobUpdate_validation(t *testing.T) {
	uc, _ := newJobStatusUsecase()

	tests := []struct {
		name   string
		update models.JobUpdate
	}{
		{"missing job id", models.JobUpdate{Task: models.TaskInitialParse, CaseId: testCaseId, UserId: testUserId, Status: models.JobStarted}},
		{"unknown task", models.JobUpdate{JobId: testJobId, Task: models.TaskUnknown, CaseId: testCaseId, UserId: testUserId, Status: models.JobStarted}},
		{"unknown status", models.JobUpdate{JobId: testJobId, Task: models.TaskInitialParse, CaseId: testCaseId, UserId: testUserId}},
		{"bad case id", models.JobUpdate{JobId: testJobId, Task: models.TaskInitialParse, CaseId: "nope", UserId: testUserId, Status: models.JobStarted}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.HandleJobUpdate(context.Background(), tt.update)
			assert.ErrorIs(t, err, models.BadParameterError)
		})
	}
}
