package utils

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/civicwaste/swm-backend/models"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

type validator interface {
	ValidateToken(token string) (models.Credentials, error)
}

type Authentication struct {
	Validator validator
}

func NewAuthentication(validator validator) Authentication {
	return Authentication{
		Validator: validator,
	}
}

// Middleware resolves the bearer token to credentials, stores them in the request context
// and enriches the context logger with the caller identity.
func (a *Authentication) Middleware(c *gin.Context) {
	ctx := c.Request.Context()
	token, err := ParseAuthorizationBearerHeader(c.Request.Header)
	if err != nil {
		_ = c.Error(fmt.Errorf("could not parse authorization header: %w", err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "malformed authorization header"})
		return
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
		return
	}

	credentials, err := a.Validator.ValidateToken(token)
	if err != nil {
		if errors.Is(err, models.UnAuthorizedError) {
			_ = c.Error(fmt.Errorf("validator.ValidateToken error: %w", err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		LogAndReportSentryError(ctx, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	newContext := StoreCredentialsInContext(ctx, credentials)
	logger := LoggerFromContext(newContext).With(
		slog.String("username", credentials.ActorIdentity.Username),
		slog.String("role", credentials.Role.String()),
	)
	c.Request = c.Request.WithContext(StoreLoggerInContext(newContext, logger))
	c.Next()
}

func ParseAuthorizationBearerHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if authorization == "" {
		return "", nil
	}

	authHeader := strings.Split(authorization, "Bearer ")
	if len(authHeader) != 2 {
		return "", fmt.Errorf("malformed token: %w", models.UnAuthorizedError)
	}
	return authHeader[1], nil
}
