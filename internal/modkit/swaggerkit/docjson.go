package swaggerkit

import (
	"encoding/json"
	"net/http"

	"memorial/internal/core/version"
)

// docReader is a seam so tests can swap the served document
var docReader = func() map[string]any {
	info := version.Info()
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "Memorial API",
			"version": info.Version,
		},
		"servers": []any{map[string]any{"url": "/api/v1"}},
		"paths":   map[string]any{},
	}
}

// serveDocJSON serves the OpenAPI skeleton so the UI can load
// route docs live as swag annotations on the handlers
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(docReader())
	}
}
