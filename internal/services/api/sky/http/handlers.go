// Package http provides http transport for the sky of wishes
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"memorial/internal/modkit/httpkit"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/logger"
	pnet "memorial/internal/platform/net"
	"memorial/internal/services/api/sky/domain"
	svc "memorial/internal/services/api/sky/service"
)

// DefaultPing is the idle interval between stream keepalives
const DefaultPing = 15 * time.Second

// Register mounts the sky endpoints on the given router
func Register(r httpkit.Router, s svc.Service, ping time.Duration) {
	if ping <= 0 {
		ping = DefaultPing
	}
	h := &handlers{svc: s, ping: ping}
	httpkit.Get(r, "/wishes", h.recent)
	httpkit.PostJSON[domain.WishInput](r, "/wishes", h.submit)
	httpkit.Get(r, "/motifs", h.motifs)
	r.Get("/stream", h.stream)
	httpkit.PostJSON[domain.Composer](r, "/views/{viewID}/wishes", h.submitInView)
}

type handlers struct {
	svc  svc.Service
	ping time.Duration
}

// swagger:route GET /sky/wishes Sky skyRecent
// @Summary Most recent wishes, newest first
// @Tags Sky
// @Produce json
// @Param limit query int false "At most this many wishes (1-20)"
// @Success 200 {array} sky.Record "ok"
// @Failure 400 {object} httpkit.Envelope "bad limit"
// @Router /sky/wishes [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	var in domain.RecentInput
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.WithField(perr.New(perr.ErrorCodeValidation, "limit must be an integer"), "limit")
		}
		in.Limit = n
	}
	return h.svc.Recent(r.Context(), in)
}

// swagger:route POST /sky/wishes Sky skySubmit
// @Summary Release a wish
// @Tags Sky
// @Accept json
// @Produce json
// @Param payload body domain.WishInput true "Wish"
// @Success 201 {object} sky.Record "stored"
// @Failure 400 {object} httpkit.Envelope "invalid wish"
// @Router /sky/wishes [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.WishInput) (any, error) {
	rec, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(rec), nil
}

// swagger:route GET /sky/motifs Sky skyMotifs
// @Summary Lantern motif gallery
// @Tags Sky
// @Produce json
// @Success 200 {array} sky.Motif "ok"
// @Router /sky/motifs [get]
func (h *handlers) motifs(_ *stdhttp.Request) (any, error) {
	return h.svc.Motifs(), nil
}

// swagger:route GET /sky/stream Sky skyStream
// @Summary Live sky as server-sent events
// @Description Opens a view and streams hello, window and notice events until the client leaves
// @Tags Sky
// @Produce text/event-stream
// @Success 200 {object} domain.Snapshot "window events"
// @Router /sky/stream [get]
func (h *handlers) stream(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	st, err := httpkit.OpenStream(w)
	if err != nil {
		httpkit.WriteError(w, r, err)
		return
	}

	v := h.svc.OpenView(r.Context())
	defer h.svc.CloseView(v.ID())
	ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()), v.ID())
	log := logger.C(ctx)

	// Mount already signalled; the first window below covers it
	select {
	case <-v.Changes():
	default:
	}
	if err := st.Event("hello", v.Hello()); err != nil {
		return
	}
	if err := st.Event("window", v.Snapshot()); err != nil {
		return
	}

	tick := time.NewTicker(h.ping)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-v.Done():
			return
		case <-v.Changes():
			err = st.Event("window", v.Snapshot())
		case n := <-v.Notices():
			err = st.Event("notice", n)
		case <-tick.C:
			err = st.Ping()
		}
		if err != nil {
			log.Debug().Err(err).Msg("sky stream write failed")
			return
		}
	}
}

// swagger:route POST /sky/views/{viewID}/wishes Sky skyViewSubmit
// @Summary Release a wish from a live view
// @Description The wish shows up in the view at once; the notice is also pushed on the view stream
// @Tags Sky
// @Accept json
// @Produce json
// @Param viewID path string true "View id from the hello event"
// @Param payload body domain.Composer true "Composer state"
// @Success 200 {object} domain.SubmitResult "ok"
// @Failure 404 {object} httpkit.Envelope "unknown view"
// @Router /sky/views/{viewID}/wishes [post]
func (h *handlers) submitInView(r *stdhttp.Request, in domain.Composer) (any, error) {
	v, ok := h.svc.View(httpkit.Param(r, "viewID"))
	if !ok {
		return nil, perr.NotFoundf("sky view not found")
	}
	n := v.Submit(r.Context(), &in)
	return domain.SubmitResult{Notice: n, Composer: in}, nil
}
