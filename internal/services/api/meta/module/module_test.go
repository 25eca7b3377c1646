package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	modkit "memorial/internal/modkit"
	"memorial/internal/platform/config"
	phttp "memorial/internal/platform/net/http"
	"memorial/internal/platform/store/storetest"
	metahttp "memorial/internal/services/api/meta/http"

	"github.com/go-chi/chi/v5"
)

func TestReadyChecks_NilBackendsSkipped(t *testing.T) {
	got := readyChecks(modkit.Deps{})
	if len(got) != 2 || got[0].Name != "pg" || got[1].Name != "s3" {
		t.Fatalf("checks = %+v", got)
	}
	if got[0].Target != nil || got[1].Target != nil {
		t.Fatalf("expected untyped nil targets, got %+v", got)
	}
}

func TestModule_ReadyUnderPrefix(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New(), PG: &storetest.Querier{}})
	if m.Name() != "meta" || m.Ports() != nil {
		t.Fatalf("name=%q ports=%v", m.Name(), m.Ports())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/meta/ready", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	var env struct {
		Data metahttp.ReadyResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// the fake querier cannot ping and there is no bucket
	if env.Data.Status != "degraded" {
		t.Fatalf("status = %+v", env.Data)
	}
	if env.Data.Checks[0].Status != "unknown" || env.Data.Checks[1].Status != "skipped" {
		t.Fatalf("checks = %+v", env.Data.Checks)
	}
}
