package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/caseproof/caseproof-backend/repositories"
)

type NotificationRepository struct {
	mock.Mock
}

func (r *NotificationRepository) SendFailureNotification(ctx context.Context,
	notification repositories.FailureNotification,
) error {
	args := r.Called(notification)
	return args.Error(0)
}
