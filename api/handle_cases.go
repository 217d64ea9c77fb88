package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caseproof/caseproof-backend/dto"
	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/pure_utils"
	"github.com/caseproof/caseproof-backend/usecases"
)

type CaseInput struct {
	Id string `uri:"case_id" binding:"required,uuid"`
}

func handleListCases(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		cases, err := usecase.ListCases(ctx, c.QueryArray("status"))
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"cases": pure_utils.Map(cases, dto.AdaptCaseDto)})
	}
}

func handleGetCase(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		result, err := usecase.GetCase(ctx, caseInput.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"case": dto.AdaptCaseDto(result)})
	}
}

func handlePostCase(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var data dto.CreateCaseBody
		if err := c.ShouldBindJSON(&data); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		result, err := usecase.CreateCase(ctx, models.CreateCaseAttributes{
			Name:        data.Name,
			Description: data.Description,
			Tags:        data.Tags,
			Color:       data.Color,
		})
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusCreated, gin.H{"case": dto.AdaptCaseDto(result)})
	}
}

func handlePatchCase(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		var data dto.UpdateCaseBody
		if err := c.ShouldBindJSON(&data); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		result, err := usecase.UpdateCase(ctx, models.UpdateCaseAttributes{
			Id:          caseInput.Id,
			Name:        data.Name,
			Description: data.Description,
			Tags:        data.Tags,
			Color:       data.Color,
		})
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"case": dto.AdaptCaseDto(result)})
	}
}

func handleDeleteCase(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		if presentError(ctx, c, usecase.DeleteCase(ctx, caseInput.Id)) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleArchiveCase(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		result, err := usecase.ArchiveCase(ctx, caseInput.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"case": dto.AdaptCaseDto(result)})
	}
}

func handleUnarchiveCase(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		result, err := usecase.UnarchiveCase(ctx, caseInput.Id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"case": dto.AdaptCaseDto(result)})
	}
}

func handleSweepTimeouts(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		timedOut, err := usecasesWithCreds(ctx, uc).SweepStaleCasesNow(ctx)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"timed_out": timedOut})
	}
}

func handlePostCaseNote(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var caseInput CaseInput
		if err := c.ShouldBindUri(&caseInput); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		var data dto.CaseNoteBody
		if err := c.ShouldBindJSON(&data); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewCaseUsecase()
		if presentError(ctx, c, usecase.AddCaseNote(ctx, caseInput.Id, data.Note)) {
			return
		}
		c.Status(http.StatusCreated)
	}
}
