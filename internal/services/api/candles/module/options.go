package module

import (
	"time"

	"memorial/internal/platform/config"
	candleshttp "memorial/internal/services/api/candles/http"
)

// Options controls the candle stream
type Options struct {
	Ping time.Duration
}

// FromConfig reads CANDLES_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	cc := cfg.Prefix("CANDLES_")
	return Options{
		Ping: cc.MayDuration("STREAM_PING", candleshttp.DefaultPing),
	}
}
