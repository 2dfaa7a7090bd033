package cmd

import (
	"strings"
	"time"

	"github.com/civicwaste/swm-backend/api"
	"github.com/civicwaste/swm-backend/infra"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
)

type CompiledConfig struct {
	Version string
}

type ServerConfig struct {
	jwtSigningKey          string
	loggingFormat          string
	sentryDsn              string
	changeRequestRetention time.Duration
}

func (config ServerConfig) Validate() error {
	if config.jwtSigningKey == "" {
		return errors.New("AUTHENTICATION_JWT_SIGNING_KEY is required")
	}
	if config.changeRequestRetention <= 0 {
		return errors.New("CHANGE_REQUEST_RETENTION_HOURS must be positive")
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func pgConfigFromEnv() infra.PgConfig {
	return infra.PgConfig{
		ConnectionString:   utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:           utils.GetEnv("PG_DATABASE", "swm"),
		Hostname:           utils.GetEnv("PG_HOSTNAME", ""),
		Password:           utils.GetEnv("PG_PASSWORD", ""),
		Port:               utils.GetEnv("PG_PORT", "5432"),
		User:               utils.GetEnv("PG_USER", ""),
		MaxPoolConnections: utils.GetEnv("PG_MAX_POOL_SIZE", infra.DEFAULT_MAX_CONNECTIONS),
		SslMode:            utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
}

func apiConfigFromEnv(compiledConfig CompiledConfig) api.Configuration {
	return api.Configuration{
		Env:                 utils.GetEnv("ENV", "development"),
		AppName:             "swm-backend",
		AppVersion:          compiledConfig.Version,
		Host:                utils.GetEnv("LISTEN_HOST", api.DEFAULT_HOST),
		Port:                utils.GetRequiredEnv[string]("PORT"),
		RequestLoggingLevel: utils.GetEnv("REQUEST_LOGGING_LEVEL", "info"),
		DefaultTimeout:      utils.GetEnv("DEFAULT_TIMEOUT", api.DEFAULT_TIMEOUT),
		MaxBodySize:         int64(utils.GetEnv("MAX_BODY_SIZE_BYTES", api.DEFAULT_MAX_BODY_SIZE)),
		CorsAllowOrigins:    splitList(utils.GetEnv("CORS_ALLOW_ORIGINS", "")),
	}
}
