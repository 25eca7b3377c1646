package main

import (
	"context"
	"flag"
	"time"

	"memorial/internal/platform/config"
	"memorial/internal/platform/logger"
	"memorial/internal/platform/store/migrations"
	"memorial/internal/platform/store/pg"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var (
		fStatus  = flag.Bool("status", false, "print the applied state of every migration and exit")
		fTimeout = flag.Duration("timeout", 2*time.Minute, "overall deadline for the run")
	)
	flag.Parse()

	pgCfg := config.New().Prefix("SERVICE_PGSQL_")
	l := logger.Named("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()

	p, err := pg.Open(ctx, pg.Config{
		URL:             pgCfg.MustString("DBURL"),
		MaxConns:        2,
		ApplicationName: "memorial-migrate",
		ConnectRetries:  pgCfg.MayInt("CONNECT_RETRIES", 20),
	}, nil)
	if err != nil {
		l.Fatal().Err(err).Msg("pg.Open failed")
	}
	defer p.Close()

	if *fStatus {
		db := stdlib.OpenDBFromPool(p.Pool)
		defer db.Close()
		if err := migrations.Status(ctx, db); err != nil {
			l.Fatal().Err(err).Msg("status failed")
		}
		return
	}

	if err := migrations.Up(ctx, p.Pool); err != nil {
		l.Fatal().Err(err).Msg("migrate up failed")
	}
}
