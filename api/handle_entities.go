package api

import (
	"log/slog"
	"net/http"

	"github.com/civicwaste/swm-backend/dto"
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/usecases"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

func handleListEntities(uc usecases.Usecases, entity models.Entity) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var query dto.PaginationQuery
		if err := c.ShouldBindQuery(&query); presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewEntityUsecase()
		page, err := usecase.ListEntities(ctx, entity, dto.AdaptPagination(query))
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptEntityList(page))
	}
}

func handleGetEntity(uc usecases.Usecases, entity models.Entity) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usecase := usecasesWithCreds(ctx, uc).NewEntityUsecase()
		row, err := usecase.GetEntity(ctx, entity, c.Param("id"))
		if presentError(ctx, c, err) {
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// handleMutateEntity writes a mutation that went through the interception unchanged
func handleMutateEntity(uc usecases.Usecases, entity models.Entity) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := interceptionDecisionFromCtx(ctx); !ok {
			presentError(ctx, c, errors.New("entity mutation reached its handler without interception"))
			return
		}

		mutation, err := readMutation(c, entity)
		if presentError(ctx, c, err) {
			return
		}

		usecase := usecasesWithCreds(ctx, uc).NewEntityUsecase()
		id, err := usecase.ApplyMutation(ctx, mutation)
		if presentError(ctx, c, err) {
			return
		}

		utils.LoggerFromContext(ctx).InfoContext(ctx, "entity mutated",
			slog.String("entity", string(entity.Type)),
			slog.String("operation", string(mutation.Operation)),
			slog.String("id", id),
		)

		status := http.StatusOK
		if mutation.Operation == models.OperationCreate {
			status = http.StatusCreated
		}
		c.JSON(status, dto.EntityMutation{Id: id, Operation: string(mutation.Operation)})
	}
}
