package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
)

type CaseRepository struct {
	mock.Mock
}

func (r *CaseRepository) ListOrganizationCases(ctx context.Context, exec repositories.Executor,
	filters models.CaseFilters,
) ([]models.Case, error) {
	args := r.Called(exec, filters)
	return args.Get(0).([]models.Case), args.Error(1)
}

func (r *CaseRepository) GetCaseById(ctx context.Context, exec repositories.Executor, caseId string) (models.Case, error) {
	args := r.Called(exec, caseId)
	return args.Get(0).(models.Case), args.Error(1)
}

func (r *CaseRepository) CreateCase(ctx context.Context, exec repositories.Executor,
	attrs models.CreateCaseAttributes, newCaseId string,
) error {
	args := r.Called(exec, attrs, newCaseId)
	return args.Error(0)
}

func (r *CaseRepository) UpdateCase(ctx context.Context, exec repositories.Executor,
	attrs models.UpdateCaseAttributes,
) error {
	args := r.Called(exec, attrs)
	return args.Error(0)
}

func (r *CaseRepository) UpdateCaseLifecycle(ctx context.Context, exec repositories.Executor, caseId string,
	lifecycle models.CaseLifecycle, update repositories.CaseLifecycleUpdate,
) error {
	args := r.Called(exec, caseId, lifecycle, update)
	return args.Error(0)
}

func (r *CaseRepository) DeleteCase(ctx context.Context, exec repositories.Executor, caseId string) error {
	args := r.Called(exec, caseId)
	return args.Error(0)
}

func (r *CaseRepository) CreateCaseEvent(ctx context.Context, exec repositories.Executor,
	attrs models.CreateCaseEventAttributes,
) error {
	args := r.Called(exec, attrs)
	return args.Error(0)
}

func (r *CaseRepository) BatchCreateCaseEvents(ctx context.Context, exec repositories.Executor,
	attrs []models.CreateCaseEventAttributes,
) error {
	args := r.Called(exec, attrs)
	return args.Error(0)
}

func (r *CaseRepository) ListCaseEvents(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseEvent, error) {
	args := r.Called(exec, caseId)
	return args.Get(0).([]models.CaseEvent), args.Error(1)
}

func (r *CaseRepository) CreateCaseFile(ctx context.Context, exec repositories.Executor,
	input models.CreateDbCaseFileInput,
) error {
	args := r.Called(exec, input)
	return args.Error(0)
}

func (r *CaseRepository) ListCaseFiles(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseFile, error) {
	args := r.Called(exec, caseId)
	return args.Get(0).([]models.CaseFile), args.Error(1)
}

func (r *CaseRepository) GetCaseFileById(ctx context.Context, exec repositories.Executor, fileId string) (models.CaseFile, error) {
	args := r.Called(exec, fileId)
	return args.Get(0).(models.CaseFile), args.Error(1)
}

func (r *CaseRepository) BatchCreateCaseCsvFiles(ctx context.Context, exec repositories.Executor,
	inputs []models.CreateCaseCsvFileInput,
) error {
	args := r.Called(exec, inputs)
	return args.Error(0)
}

func (r *CaseRepository) ListCaseCsvFiles(ctx context.Context, exec repositories.Executor, caseId string) ([]models.CaseCsvFile, error) {
	args := r.Called(exec, caseId)
	return args.Get(0).([]models.CaseCsvFile), args.Error(1)
}

func (r *CaseRepository) GetCaseCsvFileById(ctx context.Context, exec repositories.Executor, csvFileId string) (models.CaseCsvFile, error) {
	args := r.Called(exec, csvFileId)
	return args.Get(0).(models.CaseCsvFile), args.Error(1)
}

func (r *CaseRepository) UpdateCaseCsvFileCorrection(ctx context.Context, exec repositories.Executor,
	csvFileId string, correctedFileRef string,
) error {
	args := r.Called(exec, csvFileId, correctedFileRef)
	return args.Error(0)
}

func (r *CaseRepository) GetJobById(ctx context.Context, exec repositories.Executor, jobId string) (*models.AnalysisJob, error) {
	args := r.Called(exec, jobId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisJob), args.Error(1)
}

func (r *CaseRepository) InsertJob(ctx context.Context, exec repositories.Executor, update models.JobUpdate) error {
	args := r.Called(exec, update)
	return args.Error(0)
}

func (r *CaseRepository) UpdateJob(ctx context.Context, exec repositories.Executor, update models.JobUpdate) error {
	args := r.Called(exec, update)
	return args.Error(0)
}

func (r *CaseRepository) ListStaleProcessingCases(ctx context.Context, exec repositories.Executor,
	cutoff time.Time,
) ([]models.Case, error) {
	args := r.Called(exec, cutoff)
	return args.Get(0).([]models.Case), args.Error(1)
}
