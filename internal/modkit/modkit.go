package modkit

import (
	phttp "memorial/internal/platform/net/http"
)

// Module is what the api mounts: a named set of routes plus an optional port set
// other modules can look up through the registry
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
