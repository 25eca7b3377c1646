package module

import (
	"time"

	"memorial/internal/platform/config"
	skyhttp "memorial/internal/services/api/sky/http"
	skysvc "memorial/internal/services/api/sky/service"
)

// Options controls the live sky bounds and stream keepalive
type Options struct {
	View skysvc.Options
	Ping time.Duration
}

// FromConfig reads SKY_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("SKY_")
	d := skysvc.DefaultOptions()
	return Options{
		View: skysvc.Options{
			HistoryLimit:   sc.MayInt("HISTORY_LIMIT", d.HistoryLimit),
			WindowCap:      sc.MayInt("WINDOW_CAP", d.WindowCap),
			SubmitDuration: sc.MayDuration("SUBMIT_DURATION", d.SubmitDuration),
			CapOnSubmit:    sc.MayBool("CAP_ON_SUBMIT", d.CapOnSubmit),
			Stars:          sc.MayInt("STARS", d.Stars),
		},
		Ping: sc.MayDuration("STREAM_PING", skyhttp.DefaultPing),
	}
}
