package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/caseproof/caseproof-backend/models"
)

type AnalysisBackend struct {
	mock.Mock
}

func (r *AnalysisBackend) SubmitTask(ctx context.Context, task models.TaskType,
	caseId, archiveUrl, userId string,
) (string, error) {
	args := r.Called(task, caseId, archiveUrl, userId)
	return args.String(0), args.Error(1)
}

func (r *AnalysisBackend) DownloadArchive(ctx context.Context, url string) ([]byte, error) {
	args := r.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
