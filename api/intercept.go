package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/civicwaste/swm-backend/api/middleware"
	"github.com/civicwaste/swm-backend/dto"
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/usecases"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

// readMutation builds the mutation described by a request on an entity route. The body is
// restored so that a later handler can read it again.
func readMutation(c *gin.Context, entity models.Entity) (models.Mutation, error) {
	operation, ok := models.OperationFromHttpMethod(c.Request.Method)
	if !ok {
		return models.Mutation{}, errors.Wrapf(models.ErrInvalidOperation, "method %s", c.Request.Method)
	}

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return models.Mutation{}, errors.Wrap(models.BadParameterError, err.Error())
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	mutation := models.Mutation{
		Operation: operation,
		Entity:    entity,
	}
	if len(bytes.TrimSpace(body)) > 0 {
		mutation.Payload = json.RawMessage(body)
	}
	if id := c.Param("id"); id != "" {
		mutation.TargetId = &id
	}
	return mutation, nil
}

// interceptMutations holds back the writes of the roles that need an approval. Queued
// changes are answered with 202 and never reach the entity handler.
func interceptMutations(uc usecases.Usecases, entity models.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		mutation, err := readMutation(c, entity)
		if err != nil {
			// the size limiter already answered
			if c.IsAborted() {
				return
			}
			presentError(ctx, c, err)
			c.Abort()
			return
		}

		creds, _ := utils.CredentialsFromCtx(ctx)
		usecase := usecasesWithCreds(ctx, uc).NewChangeRequestUsecase()
		result, err := usecase.InterceptMutation(ctx,
			models.ExecutionContext{Credentials: creds}, mutation)
		if presentError(ctx, c, err) {
			c.Abort()
			return
		}

		if result.Decision == models.InterceptionQueued {
			c.Set(middleware.ChangeRequestIdKey, result.Record.Id)
			c.AbortWithStatusJSON(http.StatusAccepted, dto.AdaptPendingApproval(result))
			return
		}

		c.Request = c.Request.WithContext(storeInterceptionDecision(ctx, result.Decision))
		c.Next()
	}
}

type interceptionContextKey struct{}

func storeInterceptionDecision(ctx context.Context, decision models.InterceptionDecision) context.Context {
	return context.WithValue(ctx, interceptionContextKey{}, decision)
}

func interceptionDecisionFromCtx(ctx context.Context) (models.InterceptionDecision, bool) {
	decision, ok := ctx.Value(interceptionContextKey{}).(models.InterceptionDecision)
	return decision, ok
}
