package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/civicwaste/swm-backend/dto"
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/pure_utils"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// domain errors come first, they wrap the base errors checked below
var domainErrorCodes = []struct {
	err  error
	code dto.ErrorCode
}{
	{models.ErrChangeNotReviewable, dto.ChangeNotReviewable},
	{models.ErrUnknownEntity, dto.UnknownEntity},
	{models.ErrInvalidOperation, dto.InvalidOperation},
	{models.ErrMissingTargetId, dto.MissingTargetId},
	{models.ErrInvalidColumn, dto.InvalidColumn},
	{models.ErrEmptyChanges, dto.EmptyChanges},
}

func errorCode(err error, fallback dto.ErrorCode) dto.ErrorCode {
	for _, d := range domainErrorCodes {
		if errors.Is(err, d.err) {
			return d.code
		}
	}
	return fallback
}

func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	logger := utils.LoggerFromContext(ctx)
	var validationErrs validator.ValidationErrors
	var unmarshalErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   "invalid request",
			ErrorCode: dto.InvalidPayload,
			Details: pure_utils.Map(validationErrs, func(fe validator.FieldError) string {
				return adaptFieldValidationError(fe)
			}),
		})

	case errors.As(err, &unmarshalErr):
		msg := fmt.Sprintf("expected type %s, got type %s", unmarshalErr.Type.String(), unmarshalErr.Value)
		if unmarshalErr.Field != "" {
			msg = fmt.Sprintf("field `%s` expected type %s, got type %s",
				unmarshalErr.Field, unmarshalErr.Type.String(), unmarshalErr.Value)
		}
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   "invalid request",
			ErrorCode: dto.InvalidPayload,
			Details:   []string{msg},
		})

	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   "request body is not valid json",
			ErrorCode: dto.InvalidPayload,
		})

	case errors.Is(err, models.BadParameterError):
		logger.InfoContext(ctx, fmt.Sprintf("BadParameterError: %v", err.Error()))
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: errorCode(err, dto.InvalidPayload),
		})

	case errors.Is(err, models.UnAuthorizedError):
		logger.InfoContext(ctx, fmt.Sprintf("UnAuthorizedError: %v", err.Error()))
		c.JSON(http.StatusUnauthorized, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.Unauthorized,
		})

	case errors.Is(err, models.ForbiddenError):
		logger.InfoContext(ctx, fmt.Sprintf("ForbiddenError: %v", err.Error()))
		c.JSON(http.StatusForbidden, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.Forbidden,
		})

	case errors.Is(err, models.NotFoundError):
		logger.InfoContext(ctx, fmt.Sprintf("NotFoundError: %v", err.Error()))
		c.JSON(http.StatusNotFound, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.NotFound,
		})

	case errors.Is(err, models.ConflictError):
		logger.InfoContext(ctx, fmt.Sprintf("ConflictError: %v", err.Error()))
		c.JSON(http.StatusConflict, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: errorCode(err, dto.Conflict),
		})

	default:
		utils.LogAndReportSentryError(ctx, err)
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{
			Message:   "An unexpected error occurred. Please try again later, or contact support if the problem persists.",
			ErrorCode: dto.InternalError,
		})
	}

	return true
}

func adaptFieldValidationError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(strings.Split(fe.Param(), " "), ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
