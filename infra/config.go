package infra

import (
	"fmt"
)

type PgConfig struct {
	ConnectionString    string
	Database            string
	DbConnectWithSocket bool
	Hostname            string
	Password            string
	Port                string
	User                string
	MaxPoolConnections  int
	SslMode             string
}

func (config PgConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	if config.SslMode == "" {
		config.SslMode = "prefer"
	}

	connectionString := fmt.Sprintf("host=%s user=%s password=%s database=%s sslmode=%s",
		config.Hostname, config.User, config.Password, config.Database, config.SslMode)
	if !config.DbConnectWithSocket {
		// a unix socket path carries no port
		connectionString = fmt.Sprintf("%s port=%s", connectionString, config.Port)
	}
	return connectionString
}

type MongoConfig struct {
	Uri      string
	Database string
}

type TelemetryConfiguration struct {
	Enabled         bool
	ApplicationName string
	SamplingRate    float64
}
