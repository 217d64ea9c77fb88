package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/caseproof/caseproof-backend/dto"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/usecases"
)

// handleJobWebhook ingests job status callbacks from the analysis backend.
// The response envelope is part of the backend contract: {"success": true,
// "job": ...} on success, {"error": ...} with a retryable status otherwise.
func handleJobWebhook(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.JobWebhookBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed json body"})
			return
		}

		usecase := uc.NewJobStatusUsecase()
		job, err := usecase.HandleJobUpdate(ctx, dto.AdaptJobUpdate(body))
		if err != nil {
			c.JSON(jobWebhookErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"job":     dto.AdaptJobDto(job),
		})
	}
}

// Validation failures must not be retried by the sender; anything else is
// reported as a 500 so the delivery gets replayed.
func jobWebhookErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.BadParameterError):
		return http.StatusBadRequest
	case errors.Is(err, models.NotFoundError):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
