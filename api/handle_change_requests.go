package api

import (
	"io"
	"net/http"

	"github.com/civicwaste/swm-backend/dto"
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/usecases"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

const changeAppliedStatus = "applied"

func changeRequestId(c *gin.Context) (string, error) {
	id := c.Param("id")
	return id, utils.ValidateUuid(id)
}

func handleSubmitChangeRequest(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var input dto.ChangeRequestInput
		if err := c.ShouldBindJSON(&input); presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		result, err := usecase.SubmitChangeRequest(ctx, dto.AdaptChangeRequestInput(input))
		if presentError(ctx, c, err) {
			return
		}

		if result.Decision == models.InterceptionDirectExecution {
			c.JSON(http.StatusCreated, dto.DirectExecution{Id: result.AffectedId, Status: changeAppliedStatus})
			return
		}
		c.JSON(http.StatusAccepted, dto.AdaptPendingApproval(result))
	}
}

func handleListPendingChanges(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var query dto.ListPendingQuery
		if err := c.ShouldBindQuery(&query); presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		page, err := usecase.ListPendingChanges(ctx, models.ChangeRecordFilters{
			Category: query.Category,
			Priority: models.ChangePriorityFrom(query.Priority),
		}, dto.AdaptPagination(query.PaginationQuery))
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeRequestList(page, uc.Repositories.Clock.Now()))
	}
}

func handleGetChangeRequest(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, err := changeRequestId(c)
		if presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		record, err := usecase.GetChangeRequest(ctx, id)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeRequestDto(record, uc.Repositories.Clock.Now()))
	}
}

// the review body is optional
func bindReviewInput(c *gin.Context) (dto.ReviewInput, error) {
	var input dto.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		return dto.ReviewInput{}, err
	}
	return input, nil
}

func handleApproveChange(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, err := changeRequestId(c)
		if presentError(ctx, c, err) {
			return
		}
		input, err := bindReviewInput(c)
		if presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		record, err := usecase.ApproveChange(ctx, id, input.Comments)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptReviewResult(record, uc.Repositories.Clock.Now()))
	}
}

func handleRejectChange(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id, err := changeRequestId(c)
		if presentError(ctx, c, err) {
			return
		}
		input, err := bindReviewInput(c)
		if presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		record, err := usecase.RejectChange(ctx, id, input.Comments)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptReviewResult(record, uc.Repositories.Clock.Now()))
	}
}

func handleListOwnRequests(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var query dto.ListOwnQuery
		if err := c.ShouldBindQuery(&query); presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		page, err := usecase.ListOwnRequests(ctx, models.ChangeStatusFrom(query.Status),
			dto.AdaptPagination(query.PaginationQuery))
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeRequestList(page, uc.Repositories.Clock.Now()))
	}
}

func handleGetApprovalStats(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		stats, err := usecase.GetStatistics(ctx)
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptChangeRequestStats(stats))
	}
}
