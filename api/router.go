package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/civicwaste/swm-backend/api/middleware"
	"github.com/civicwaste/swm-backend/infra"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

var localDevOrigins = []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:5173"}

// normalizeOrigin reduces a configured url to the scheme://host form browsers send in Origin.
func normalizeOrigin(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("origin %q needs an http or https scheme", raw)
	}
	if parsed.Host == "" {
		return "", errors.Newf("origin %q has no host", raw)
	}
	return (&url.URL{Scheme: parsed.Scheme, Host: parsed.Host}).String(), nil
}

func corsOption(ctx context.Context, conf Configuration) cors.Config {
	logger := utils.LoggerFromContext(ctx)
	allowedOrigins := make([]string, 0, len(conf.CorsAllowOrigins)+len(localDevOrigins))
	for _, raw := range conf.CorsAllowOrigins {
		origin, err := normalizeOrigin(raw)
		if err != nil {
			logger.WarnContext(ctx, "ignoring CORS origin, browser requests from it will be rejected",
				"url", raw, "error", err.Error())
			continue
		}
		allowedOrigins = append(allowedOrigins, origin)
	}

	if conf.Env == "development" {
		allowedOrigins = append(allowedOrigins, localDevOrigins...)
	}

	return cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{
			http.MethodOptions, http.MethodHead, http.MethodGet,
			http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch,
		},
		AllowHeaders:     []string{"Authorization", "Content-Type", "baggage", "sentry-trace"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}

func InitRouterMiddlewares(
	ctx context.Context,
	conf Configuration,
	telemetryRessources infra.TelemetryRessources,
) *gin.Engine {
	if conf.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := utils.LoggerFromContext(ctx)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(cors.New(corsOption(ctx, conf)))
	r.Use(middleware.NewLogging(logger,
		middleware.WithLevel(conf.RequestLoggingLevel),
		middleware.WithIgnorePath([]string{"/liveness", "/metrics"}),
	))
	r.Use(utils.StoreLoggerInContextMiddleware(logger))
	r.Use(otelgin.Middleware(
		conf.AppName,
		otelgin.WithTracerProvider(telemetryRessources.TracerProvider),
		otelgin.WithPropagators(telemetryRessources.TextMapPropagator),
	))
	r.Use(utils.StoreOpenTelemetryTracerInContextMiddleware(telemetryRessources.Tracer))

	return r
}
