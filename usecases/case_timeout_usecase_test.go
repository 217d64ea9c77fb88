package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/caseproof/caseproof-backend/mocks"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/usecases/executor_factory"
)

func TestSweepStaleProcessingCases(t *testing.T) {
	repo := new(mocks.CaseRepository)
	uc := CaseTimeoutUsecase{
		executorFactory:    executor_factory.NewExecutorFactoryStub(),
		transactionFactory: executor_factory.NewExecutorFactoryStub(),
		repository:         repo,
	}

	stuck := models.Case{Id: testCaseId, OwnerId: testOwnerId,
		Status: models.CaseProcessing, HitlStage: models.HitlStageInitialParse}
	// A case that got a webhook between the listing and the per-case re-read.
	settled := models.Case{Id: "9e6f7a21-0f3c-4d8a-8a39-6b1c2d3e4f50", OwnerId: testOwnerId,
		Status: models.CaseReview, HitlStage: models.HitlStageReview}

	repo.On("ListStaleProcessingCases", mock.Anything, mock.Anything).
		Return([]models.Case{stuck, settled}, nil)
	repo.On("GetCaseById", mock.Anything, stuck.Id).Return(stuck, nil)
	repo.On("GetCaseById", mock.Anything, settled.Id).Return(settled, nil)
	repo.On("UpdateCaseLifecycle", mock.Anything, stuck.Id,
		models.CaseLifecycle{Status: models.CaseTimeout}, repositories.CaseLifecycleUpdate{}).Return(nil)
	repo.On("CreateCaseEvent", mock.Anything,
		mock.MatchedBy(func(attrs models.CreateCaseEventAttributes) bool {
			return attrs.CaseId == stuck.Id &&
				attrs.UserId == stuck.OwnerId &&
				attrs.EventType == models.CaseEventAnalysisFailed
		})).Return(nil)

	timedOut, err := uc.SweepStaleProcessingCases(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, timedOut)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateCaseLifecycle", mock.Anything, settled.Id, mock.Anything, mock.Anything)
}

func TestSweepStaleProcessingCases_nothingStale(t *testing.T) {
	repo := new(mocks.CaseRepository)
	uc := CaseTimeoutUsecase{
		executorFactory:    executor_factory.NewExecutorFactoryStub(),
		transactionFactory: executor_factory.NewExecutorFactoryStub(),
		repository:         repo,
	}

	repo.On("ListStaleProcessingCases", mock.Anything, mock.Anything).Return([]models.Case{}, nil)

	timedOut, err := uc.SweepStaleProcessingCases(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, timedOut)
}
