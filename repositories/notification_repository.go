package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/caseproof/caseproof-backend/utils"
)

// FailureNotification is the payload of the operator-facing support ticket
// opened when an analysis fails or is rejected at dispatch.
type FailureNotification struct {
	CaseId       string `json:"case_id"`
	Task         string `json:"task"`
	ArchiveUrl   string `json:"archive_url"`
	ErrorMessage string `json:"error_message"`
}

type NotificationRepository interface {
	SendFailureNotification(ctx context.Context, notification FailureNotification) error
}

type notificationRepository struct {
	webhookUrl string
	client     *http.Client
}

// NewNotificationRepository posts failure notifications to the configured
// operator webhook (ticketing/email gateway). With an empty url, sends are
// logged and dropped.
func NewNotificationRepository(webhookUrl string, client *http.Client) NotificationRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return notificationRepository{
		webhookUrl: webhookUrl,
		client:     client,
	}
}

func (repo notificationRepository) SendFailureNotification(ctx context.Context, notification FailureNotification) error {
	if repo.webhookUrl == "" {
		utils.LoggerFromContext(ctx).WarnContext(ctx,
			"no notification webhook configured, dropping failure notification",
			"case_id", notification.CaseId,
			"task", notification.Task)
		return nil
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return errors.Wrap(err, "could not marshal failure notification")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, repo.webhookUrl, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "could not build failure notification request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := repo.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failure notification request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Newf("notification webhook returned status %d: %s", resp.StatusCode, string(errorBody))
	}
	return nil
}
