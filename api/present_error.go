package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/caseproof/caseproof-backend/dto"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

// presentError renders err and reports whether a response was written.
func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, models.BadParameterError):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ErrorCodeBadRequest,
		})
	case errors.Is(err, models.UnAuthorizedError):
		c.JSON(http.StatusUnauthorized, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ErrorCodeUnauthorized,
		})
	case errors.Is(err, models.ForbiddenError):
		c.JSON(http.StatusForbidden, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ErrorCodeForbidden,
		})
	case errors.Is(err, models.NotFoundError):
		c.JSON(http.StatusNotFound, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ErrorCodeNotFound,
		})
	case errors.Is(err, models.ConflictError):
		c.JSON(http.StatusConflict, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ErrorCodeConflict,
		})
	case errors.Is(err, models.UnprocessableEntityError):
		c.JSON(http.StatusUnprocessableEntity, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ErrorCodeUnprocessable,
		})
	case errors.Is(err, models.ErrAnalysisDispatchFailed):
		c.JSON(http.StatusBadGateway, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ErrorCodeDispatchFailed,
		})
	default:
		utils.LoggerFromContext(ctx).ErrorContext(ctx, fmt.Sprintf("unexpected error: %+v", err))
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		}
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{
			Message:   "internal server error",
			ErrorCode: dto.ErrorCodeInternalServerError,
		})
	}
	return true
}
