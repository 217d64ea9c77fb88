package api

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/caseproof/caseproof-backend/dto"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/pure_utils"
	"github.com/caseproof/caseproof-backend/usecases"
)

func formFiles(c *gin.Context) ([]multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.Wrap(models.BadParameterError, err.Error())
	}
	fileHeaders := form.File["files[]"]
	if len(fileHeaders) == 0 {
		return nil, errors.Wrap(models.BadParameterError, "no files[] part in the form")
	}

	files := make([]multipart.FileHeader, len(fileHeaders))
	for i, header := range fileHeaders {
		files[i] = *header
	}
	return files, nil
}

func handlePostCaseFiles(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		files, err := formFiles(c)
		if presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseFileUsecase()
		caseFiles, err := usecase.UploadFiles(ctx, models.CreateCaseFilesInput{
			CaseId: caseInput.Id,
			Files:  files,
		})
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, gin.H{"files": pure_utils.Map(caseFiles, dto.AdaptCaseFileDto)})
	}
}

func handleDownloadCaseFile(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var fileInput struct {
			Id string `uri:"file_id" binding:"required,uuid"`
		}
		if err := c.ShouldBindUri(&fileInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		url, err := usecase.GetFileDownloadUrl(ctx, fileInput.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

func handleSubmitCase(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		files, err := formFiles(c)
		if presentError(ctx, c, err) {
			return
		}

		passwords := map[string]string{}
		if raw := c.PostForm("passwords"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &passwords); err != nil {
				presentError(ctx, c, errors.Wrap(models.BadParameterError,
					"passwords must be a json object of file name to password"))
				return
			}
		}
		hitl := c.PostForm("hitl") == "true"

		usecase := usecasesWithCreds(ctx, uc).NewCaseWorkflowUsecase()
		result, err := usecase.SubmitCaseForAnalysis(ctx, caseInput.Id, files, passwords, hitl)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"case": dto.AdaptCaseDto(result)})
	}
}

func handleProceedToFinalAnalysis(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseWorkflowUsecase()
		result, err := usecase.ProceedToFinalAnalysis(ctx, caseInput.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"case": dto.AdaptCaseDto(result)})
	}
}
