// Package migrations embeds the schema and applies it with goose
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"memorial/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// goose keeps its base fs and dialect in package globals
var gooseMu sync.Mutex

// upContext is a seam for tests
var upContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies every pending migration through a database/sql view of pool
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return UpDB(ctx, db)
}

// UpDB applies every pending migration on db
func UpDB(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepare(); err != nil {
		return err
	}
	log := logger.Named("migrate")
	log.Info().Msg("applying migrations")
	if err := upContext(ctx, db, "."); err != nil {
		return err
	}
	log.Info().Msg("migrations applied")
	return nil
}

// Status logs the applied state of every migration
func Status(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := prepare(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, ".")
}

func prepare() error {
	goose.SetBaseFS(FS)
	goose.SetLogger(gooseLogger{})
	return goose.SetDialect("postgres")
}

// gooseLogger routes goose output through zerolog
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) { logger.Named("migrate").Fatal().Msgf(format, v...) }
func (gooseLogger) Printf(format string, v ...any) { logger.Named("migrate").Info().Msgf(format, v...) }
