package repositories

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/civicwaste/swm-backend/infra"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Migrater struct {
	pgConfig infra.PgConfig
	logger   *slog.Logger
}

func NewMigrater(pgConfig infra.PgConfig, logger *slog.Logger) *Migrater {
	return &Migrater{pgConfig: pgConfig, logger: logger}
}

func (m *Migrater) Run(ctx context.Context) error {
	db, err := sql.Open("pgx", m.pgConfig.GetConnectionString())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	m.logger.InfoContext(ctx, "Migrations starting to setup DB")
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("unable to run migrations: %w", err)
	}
	return nil
}
