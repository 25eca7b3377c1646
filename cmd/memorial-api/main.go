// @title         Memorial API
// @version       0.1.0
// @description   Wishes, candles and memories for the memorial site

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"memorial/internal/platform/blob"
	"memorial/internal/platform/config"
	"memorial/internal/platform/logger"
	"memorial/internal/platform/metrics"
	phttp "memorial/internal/platform/net/http"
	"memorial/internal/platform/realtime"
	"memorial/internal/platform/store"
	"memorial/internal/platform/store/migrations"

	"memorial/internal/services/api"

	"github.com/joho/godotenv"
)

func main() {
	// a local .env is optional; real env wins
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_") // CORE_API_*
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	s3Cfg := root.Prefix("SERVICE_S3_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(
		ctx,
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),

				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 20),
				PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 3*time.Second),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if apiCfg.MayBool("MIGRATE", false) {
		if err := migrations.Up(ctx, st.Pool()); err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
	}

	m := metrics.Default()

	var hub *realtime.Hub
	if st.Feed != nil {
		hub = realtime.New(st.Feed, realtime.WithObserver(m))
		defer hub.Close()
	}

	bs := openBlob(ctx, s3Cfg, l)

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	closeViews := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Hub:            hub,
			Blob:           bs,
			Metrics:        m,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)

	// views close as soon as shutdown starts, open streams would otherwise hold the drain
	srv.OnShutdown(func() {
		l.Info().Msg("shutting down")
		closeViews()
	})

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// openBlob connects the image bucket; uploads stay disabled when nothing is configured
func openBlob(ctx context.Context, c config.Conf, l *logger.Logger) *blob.Store {
	endpoint := c.MayString("ENDPOINT", "")
	region := c.MayString("REGION", "")
	if endpoint == "" && region == "" {
		l.Warn().Msg("SERVICE_S3_ENDPOINT and SERVICE_S3_REGION unset, memory uploads disabled")
		return nil
	}
	if region == "" {
		region = "us-east-1"
	}
	bs, err := blob.Open(ctx, blob.Config{
		Endpoint:  endpoint,
		Region:    region,
		AccessKey: c.MayString("ACCESS_KEY", ""),
		SecretKey: c.MayString("SECRET_KEY", ""),
		Bucket:    c.MayString("BUCKET", blob.DefaultBucket),
		PublicURL: c.MayString("PUBLIC_URL", ""),
		PathStyle: c.MayBool("PATH_STYLE", endpoint != ""),
	})
	if err != nil {
		l.Panic().Err(err).Msg("blob.Open failed")
	}
	return bs
}
