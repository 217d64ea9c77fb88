package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/caseproof/caseproof-backend/models"
)

// AnalysisBackendRepository is the HTTP client for the external OCR/ML
// analysis backend. The backend acknowledges the task synchronously and
// reports progress asynchronously through the job webhook.
type AnalysisBackendRepository struct {
	baseUrl string
	client  *http.Client
}

func NewAnalysisBackendRepository(baseUrl string, client *http.Client) AnalysisBackendRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return AnalysisBackendRepository{
		baseUrl: baseUrl,
		client:  client,
	}
}

type analysisTaskRequest struct {
	SessionId string `json:"sessionId"`
	ZipUrl    string `json:"zipUrl"`
	UserId    string `json:"userId"`
}

type analysisTaskResponse struct {
	Url string `json:"url"`
}

func (repo AnalysisBackendRepository) taskEndpoint(task models.TaskType) string {
	switch task {
	case models.TaskInitialParse:
		return repo.baseUrl + "/initial-parse/"
	case models.TaskFinalAnalysis:
		return repo.baseUrl + "/final-analysis/"
	default:
		return repo.baseUrl + "/parse-statements/"
	}
}

// SubmitTask dispatches one unit of work. Any non-2xx response is a dispatch
// failure carrying the raw response body; the call is never retried here
// because a duplicate backend invocation is expensive and must be an explicit
// caller decision.
func (repo AnalysisBackendRepository) SubmitTask(
	ctx context.Context,
	task models.TaskType,
	caseId string,
	archiveUrl string,
	userId string,
) (string, error) {
	body, err := json.Marshal(analysisTaskRequest{
		SessionId: caseId,
		ZipUrl:    archiveUrl,
		UserId:    userId,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not marshal analysis task request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, repo.taskEndpoint(task), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "could not build analysis task request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := repo.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(models.ErrAnalysisDispatchFailed, "request to analysis backend failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.Wrapf(models.ErrAnalysisDispatchFailed,
			"analysis backend returned status %d: %s", resp.StatusCode, string(errorBody))
	}

	var taskResponse analysisTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&taskResponse); err != nil {
		return "", errors.Wrap(err, fmt.Sprintf("could not decode analysis backend response for task %s", task))
	}

	return taskResponse.Url, nil
}

// DownloadArchive fetches a result archive from the signed url delivered in a
// job webhook. The download is capped so a misbehaving backend cannot exhaust
// memory.
const maxResultArchiveSize = 512 << 20

func (repo AnalysisBackendRepository) DownloadArchive(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not build result archive request")
	}

	resp, err := repo.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "result archive request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("result archive download returned status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxResultArchiveSize))
	if err != nil {
		return nil, errors.Wrap(err, "could not read result archive body")
	}
	return content, nil
}
