package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/caseproof/caseproof-backend/dto"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/pure_utils"
	"github.com/caseproof/caseproof-backend/usecases"
)

type CsvFileInput struct {
	Id string `uri:"csv_file_id" binding:"required,uuid"`
}

func handleListCaseCsvFiles(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseReviewUsecase()
		csvFiles, err := usecase.ListCaseCsvFiles(ctx, caseInput.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"csv_files": pure_utils.Map(csvFiles, dto.AdaptCaseCsvFileDto)})
	}
}

func handleDownloadCaseCsvFile(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var csvInput CsvFileInput
		if err := c.ShouldBindUri(&csvInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		corrected := c.Query("corrected") == "true"

		usecase := usecasesWithCreds(ctx, uc).NewCaseReviewUsecase()
		url, err := usecase.GetCsvFileDownloadUrl(ctx, csvInput.Id, corrected)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

func handlePostCorrectedCsv(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var csvInput CsvFileInput
		if err := c.ShouldBindUri(&csvInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, "no file part in the form"))
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseReviewUsecase()
		csvFile, err := usecase.UploadCorrectedCsv(ctx, csvInput.Id, *fileHeader)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"csv_file": dto.AdaptCaseCsvFileDto(csvFile)})
	}
}
