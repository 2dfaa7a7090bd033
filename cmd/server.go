package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicwaste/swm-backend/api"
	"github.com/civicwaste/swm-backend/infra"
	"github.com/civicwaste/swm-backend/repositories"
	"github.com/civicwaste/swm-backend/usecases"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

func RunServer(compiledConfig CompiledConfig) error {
	// This is where we read the environment variables and set up the configuration for the application.
	apiConfig := apiConfigFromEnv(compiledConfig)
	pgConfig := pgConfigFromEnv()
	mongoConfig := infra.MongoConfig{
		Uri:      utils.GetRequiredEnv[string]("MONGO_URI"),
		Database: utils.GetEnv("MONGO_DATABASE", "swm"),
	}
	tracingConfig := infra.TelemetryConfiguration{
		ApplicationName: apiConfig.AppName,
		Enabled:         utils.GetEnv("ENABLE_TRACING", false),
		SamplingRate:    utils.GetEnv("TRACING_SAMPLING_RATE", infra.DEFAULT_SAMPLING_RATE),
	}
	serverConfig := ServerConfig{
		jwtSigningKey:          utils.GetEnv("AUTHENTICATION_JWT_SIGNING_KEY", ""),
		loggingFormat:          utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:              utils.GetEnv("SENTRY_DSN", ""),
		changeRequestRetention: time.Duration(utils.GetEnv("CHANGE_REQUEST_RETENTION_HOURS", 168)) * time.Hour,
	}

	logger := utils.NewLogger(serverConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := serverConfig.Validate(); err != nil {
		logger.ErrorContext(ctx, "invalid server configuration", slog.String("error", err.Error()))
		return err
	}

	infra.SetupSentry(serverConfig.sentryDsn, apiConfig.Env, apiConfig.AppVersion)
	defer sentry.Flush(3 * time.Second)

	telemetryRessources, err := infra.InitTelemetry(ctx, tracingConfig, apiConfig.AppVersion)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		telemetryRessources = infra.NoopTelemetry()
	}

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString(), pgConfig.MaxPoolConnections)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}
	defer pool.Close()

	mongoClient, err := infra.NewMongoClient(ctx, mongoConfig)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "error disconnecting from mongo"))
		}
	}()

	repos := repositories.NewRepositories(pool, mongoClient, mongoConfig.Database)
	if err := repos.ChangeRecordRepository.EnsureIndexes(ctx); err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	uc := usecases.NewUsecases(repos,
		usecases.WithChangeRequestRetention(serverConfig.changeRequestRetention),
	)
	auth := utils.NewAuthentication(repositories.NewJwtRepository(serverConfig.jwtSigningKey))

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	server := api.NewServer(router, apiConfig, uc, auth)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(
			ctx,
			errors.Wrap(err, "Error while shutting down the server"),
		)
		return err
	}
	if err := telemetryRessources.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while flushing traces"))
	}

	return nil
}
