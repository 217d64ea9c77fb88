package api

import (
	"context"
	"net/http"

	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"

	"github.com/caseproof/caseproof-backend/usecases"
	"github.com/caseproof/caseproof-backend/utils"
)

const defaultMaxCaseFileSize = 100 * 1024 * 1024 // 100MB

func addRoutes(r *gin.Engine, conf Configuration, uc usecases.Usecases, auth Authentication) {
	maxFileSize := conf.MaxCaseFileSize
	if maxFileSize == 0 {
		maxFileSize = defaultMaxCaseFileSize
	}

	r.GET("/liveness", handleLivenessProbe)

	r.POST("/job-webhook", auth.JobWebhookMiddleware, handleJobWebhook(uc))
	// Older backend deployments still deliver to the previous path.
	r.POST("/webhooks/jobs", auth.JobWebhookMiddleware, handleJobWebhook(uc))

	router := r.Use(auth.Middleware)

	router.GET("/cases", handleListCases(uc))
	router.POST("/cases", handlePostCase(uc))
	router.GET("/cases/:case_id", handleGetCase(uc))
	router.PATCH("/cases/:case_id", handlePatchCase(uc))
	router.DELETE("/cases/:case_id", handleDeleteCase(uc))
	router.POST("/cases/:case_id/archive", handleArchiveCase(uc))
	router.POST("/cases/:case_id/unarchive", handleUnarchiveCase(uc))
	router.POST("/cases/:case_id/notes", handlePostCaseNote(uc))

	router.POST("/cases/:case_id/files", limits.RequestSizeLimiter(maxFileSize), handlePostCaseFiles(uc))
	router.GET("/cases/files/:file_id/download", handleDownloadCaseFile(uc))

	router.POST("/cases/:case_id/submit", limits.RequestSizeLimiter(maxFileSize), handleSubmitCase(uc))
	router.POST("/cases/:case_id/proceed", handleProceedToFinalAnalysis(uc))

	router.POST("/cases/sweep-timeouts", handleSweepTimeouts(uc))

	router.GET("/cases/:case_id/csv-files", handleListCaseCsvFiles(uc))
	router.GET("/cases/csv-files/:csv_file_id/download", handleDownloadCaseCsvFile(uc))
	router.POST("/cases/csv-files/:csv_file_id/correction",
		limits.RequestSizeLimiter(maxFileSize), handlePostCorrectedCsv(uc))
}

func handleLivenessProbe(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func usecasesWithCreds(ctx context.Context, uc usecases.Usecases) usecases.UsecasesWithCreds {
	creds, _ := utils.CredentialsFromCtx(ctx)
	return uc.NewUsecasesWithCreds(creds)
}
