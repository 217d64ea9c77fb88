package dto

import (
	"time"

	"github.com/caseproof/caseproof-backend/models"
)

// JobWebhookBody accepts the field naming conventions the analysis backend
// has shipped over time: the result location arrives as `url`, with
// `result_url`/`resultUrl` as older spellings, and the remaining snake_case
// and camelCase key pairs are both honored, the snake_case one winning when
// both are present.
type JobWebhookBody struct {
	JobId          string `json:"job_id"`
	JobIdAlt       string `json:"jobId"`
	Task           string `json:"task"`
	SessionId      string `json:"session_id"`
	SessionIdAlt   string `json:"sessionId"`
	UserId         string `json:"user_id"`
	UserIdAlt      string `json:"userId"`
	InputUrl       string `json:"input_url"`
	ZipUrl         string `json:"zipUrl"`
	Status         string `json:"status"`
	Url            string `json:"url"`
	ResultUrl      string `json:"result_url"`
	ResultUrlAlt   string `json:"resultUrl"`
	ErrorMessage   string `json:"error_message"`
	ErrorAlt       string `json:"error"`
	IdempotencyKey string `json:"idempotency_key"`
}

func AdaptJobUpdate(body JobWebhookBody) models.JobUpdate {
	return models.JobUpdate{
		JobId:          coalesce(body.JobId, body.JobIdAlt),
		Task:           models.TaskTypeFrom(body.Task),
		CaseId:         coalesce(body.SessionId, body.SessionIdAlt),
		UserId:         coalesce(body.UserId, body.UserIdAlt),
		InputUrl:       coalesce(body.InputUrl, body.ZipUrl),
		Status:         models.JobStatusFrom(body.Status),
		ResultUrl:      coalesce(body.Url, body.ResultUrl, body.ResultUrlAlt),
		ErrorMessage:   coalesce(body.ErrorMessage, body.ErrorAlt),
		IdempotencyKey: body.IdempotencyKey,
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type APIJob struct {
	Id           string    `json:"id"`
	Task         string    `json:"task"`
	CaseId       string    `json:"case_id"`
	UserId       string    `json:"user_id"`
	Status       string    `json:"status"`
	ResultUrl    string    `json:"result_url,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func AdaptJobDto(job models.AnalysisJob) APIJob {
	return APIJob{
		Id:           job.Id,
		Task:         string(job.Task),
		CaseId:       job.CaseId,
		UserId:       job.UserId,
		Status:       string(job.Status),
		ResultUrl:    job.ResultUrl,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}
