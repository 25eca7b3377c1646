// Package modkit provides module wiring and core deps
package modkit

import (
	"memorial/internal/modkit/repokit"
	"memorial/internal/platform/blob"
	"memorial/internal/platform/config"
	"memorial/internal/platform/logger"
	"memorial/internal/platform/metrics"
	"memorial/internal/platform/realtime"
)

// Deps is what every module constructor receives
// PG is required; the sky, candles and memories modules panic without it
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner

	// nil disables live feeds
	Hub *realtime.Hub
	// nil disables image uploads
	Blob *blob.Store
	// nil safe
	Metrics *metrics.Metrics
}
