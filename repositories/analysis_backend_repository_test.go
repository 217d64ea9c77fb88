package repositories

import (
	"context"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseproof/caseproof-backend/models"
)

func TestSubmitTask(t *testing.T) {
	defer gock.Off()

	gock.New("https://backend.example.com").
		Post("/initial-parse/").
		JSON(map[string]string{
			"sessionId": "case-1",
			"zipUrl":    "https://bucket.example.com/archive.zip",
			"userId":    "user-1",
		}).
		Reply(http.StatusOK).
		JSON(map[string]string{"url": "https://backend.example.com/jobs/42"})

	repo := NewAnalysisBackendRepository("https://backend.example.com", nil)
	url, err := repo.SubmitTask(context.Background(), models.TaskInitialParse,
		"case-1", "https://bucket.example.com/archive.zip", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example.com/jobs/42", url)
	assert.False(t, gock.HasUnmatchedRequest())
}

func TestSubmitTask_taskEndpoints(t *testing.T) {
	defer gock.Off()

	repo := NewAnalysisBackendRepository("https://backend.example.com", nil)
	for task, endpoint := range map[models.TaskType]string{
		models.TaskFinalAnalysis:   "/final-analysis/",
		models.TaskParseStatements: "/parse-statements/",
	} {
		gock.New("https://backend.example.com").
			Post(endpoint).
			Reply(http.StatusOK).
			JSON(map[string]string{"url": "https://backend.example.com/jobs/1"})

		_, err := repo.SubmitTask(context.Background(), task, "case-1", "https://x.example.com/a.zip", "user-1")
		require.NoError(t, err)
	}
	assert.False(t, gock.HasUnmatchedRequest())
}

func TestSubmitTask_backendError(t *testing.T) {
	defer gock.Off()

	gock.New("https://backend.example.com").
		Post("/final-analysis/").
		Reply(http.StatusServiceUnavailable).
		BodyString("maintenance")

	repo := NewAnalysisBackendRepository("https://backend.example.com", nil)
	_, err := repo.SubmitTask(context.Background(), models.TaskFinalAnalysis,
		"case-1", "https://bucket.example.com/archive.zip", "user-1")
	assert.ErrorIs(t, err, models.ErrAnalysisDispatchFailed)
	assert.ErrorContains(t, err, "maintenance")
}

func TestDownloadArchive(t *testing.T) {
	defer gock.Off()

	gock.New("https://backend.example.com").
		Get("/results/42.zip").
		Reply(http.StatusOK).
		BodyString("zip bytes")

	repo := NewAnalysisBackendRepository("https://backend.example.com", nil)
	content, err := repo.DownloadArchive(context.Background(), "https://backend.example.com/results/42.zip")
	require.NoError(t, err)
	assert.Equal(t, []byte("zip bytes"), content)
}

func TestDownloadArchive_errorStatus(t *testing.T) {
	defer gock.Off()

	gock.New("https://backend.example.com").
		Get("/results/42.zip").
		Reply(http.StatusForbidden)

	repo := NewAnalysisBackendRepository("https://backend.example.com", nil)
	_, err := repo.DownloadArchive(context.Background(), "https://backend.example.com/results/42.zip")
	assert.ErrorContains(t, err, "status 403")
}
