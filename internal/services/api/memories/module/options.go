package module

import (
	"memorial/internal/platform/config"
	memsvc "memorial/internal/services/api/memories/service"
)

// Options controls photo uploads
type Options struct {
	MaxUpload int64
}

// FromConfig reads MEMORIES_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	mc := cfg.Prefix("MEMORIES_")
	return Options{
		MaxUpload: int64(mc.MayInt("MAX_UPLOAD", memsvc.DefaultMaxUpload)),
	}
}
