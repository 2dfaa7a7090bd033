package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-set/v2"

	"github.com/civicwaste/swm-backend/utils"
)

// ChangeRequestIdKey is set on the gin context by handlers that queued a change request
// instead of applying the mutation.
const ChangeRequestIdKey = "change_request_id"

type config struct {
	logger      *slog.Logger
	ignorePaths *set.Set[string]

	successLevel     slog.Level
	clientErrorLevel slog.Level
	serverErrorLevel slog.Level
}

type LoggerOption func(*config)

func WithIgnorePath(paths []string) LoggerOption {
	return func(c *config) {
		c.ignorePaths.InsertSlice(paths)
	}
}

// WithLevel sets the level of successful requests. Client and server errors are
// always logged at warn and error.
func WithLevel(level string) LoggerOption {
	return func(c *config) {
		var l slog.Level
		if err := l.UnmarshalText([]byte(level)); err == nil {
			c.successLevel = l
		}
	}
}

func (c *config) levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return c.serverErrorLevel
	case status >= http.StatusBadRequest:
		return c.clientErrorLevel
	default:
		return c.successLevel
	}
}

func NewLogging(logger *slog.Logger, options ...LoggerOption) gin.HandlerFunc {
	conf := &config{
		logger:           logger,
		ignorePaths:      set.New[string](0),
		successLevel:     slog.LevelInfo,
		clientErrorLevel: slog.LevelWarn,
		serverErrorLevel: slog.LevelError,
	}
	for _, option := range options {
		option(conf)
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if conf.ignorePaths.Contains(path) {
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attributes := []slog.Attr{
			slog.Int("status", status),
			slog.Int64("latency", time.Since(start).Milliseconds()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("data_length", max(c.Writer.Size(), 0)),
			slog.String("user_agent", c.Request.UserAgent()),
		}
		if creds, ok := utils.CredentialsFromCtx(c.Request.Context()); ok {
			attributes = append(attributes,
				slog.String("user_id", creds.ActorIdentity.UserId),
				slog.String("role", creds.Role.String()))
		}
		if id := c.GetString(ChangeRequestIdKey); id != "" {
			attributes = append(attributes, slog.String(ChangeRequestIdKey, id))
		}
		if c.Errors != nil {
			attributes = append(attributes, slog.String("error", c.Errors.String()))
		}
		conf.logger.LogAttrs(c.Request.Context(), conf.levelFor(status),
			fmt.Sprintf("%s %s", c.Request.Method, path), attributes...)
	}
}
