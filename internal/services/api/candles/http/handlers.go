// Package http provides http transport for the wall of light
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"memorial/internal/modkit/httpkit"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/logger"
	"memorial/internal/services/api/candles/domain"
	svc "memorial/internal/services/api/candles/service"
)

// DefaultPing is the idle interval between stream keepalives
const DefaultPing = 15 * time.Second

// streamBuffer is how many candles may queue for one slow client before it is dropped
const streamBuffer = 32

// Register mounts candles endpoints on the given router
func Register(r httpkit.Router, s svc.Service, ping time.Duration) {
	if ping <= 0 {
		ping = DefaultPing
	}
	h := &handlers{svc: s, ping: ping}
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.LightInput](r, "/", h.light)
	r.Get("/stream", h.stream)
}

type handlers struct {
	svc  svc.Service
	ping time.Duration
}

// swagger:route GET /candles Candles candlesList
// @Summary The wall of light, newest first
// @Tags Candles
// @Produce json
// @Param limit query int false "At most this many candles (1-500)"
// @Success 200 {array} domain.Candle "ok"
// @Router /candles [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	var in domain.ListInput
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.WithField(perr.New(perr.ErrorCodeValidation, "limit must be an integer"), "limit")
		}
		in.Limit = n
	}
	return h.svc.List(r.Context(), in)
}

// swagger:route POST /candles Candles candlesLight
// @Summary Light a candle
// @Tags Candles
// @Accept json
// @Produce json
// @Param payload body domain.LightInput true "Candle"
// @Success 201 {object} domain.LitNotice "lit"
// @Failure 400 {object} httpkit.Envelope "invalid candle"
// @Router /candles [post]
func (h *handlers) light(r *stdhttp.Request, in domain.LightInput) (any, error) {
	n, err := h.svc.Light(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(n), nil
}

// swagger:route GET /candles/stream Candles candlesStream
// @Summary Newly lit candles as server-sent events
// @Tags Candles
// @Produce text/event-stream
// @Success 200 {object} domain.Candle "candle events"
// @Failure 503 {object} httpkit.Envelope "live feed disabled"
// @Router /candles/stream [get]
func (h *handlers) stream(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()
	ch := make(chan domain.Candle, streamBuffer)
	overflow := make(chan struct{})
	var dropped bool
	sub, err := h.svc.Watch(ctx, func(c domain.Candle) {
		if dropped {
			return
		}
		select {
		case ch <- c:
		default:
			dropped = true
			close(overflow)
		}
	})
	if err != nil {
		httpkit.WriteError(w, r, err)
		return
	}
	defer sub.Close()

	st, err := httpkit.OpenStream(w)
	if err != nil {
		httpkit.WriteError(w, r, err)
		return
	}
	log := logger.C(ctx)

	tick := time.NewTicker(h.ping)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-overflow:
			log.Warn().Msg("candle stream client too slow, dropping")
			return
		case c := <-ch:
			err = st.Event("candle", c)
		case <-tick.C:
			err = st.Ping()
		}
		if err != nil {
			log.Debug().Err(err).Msg("candle stream write failed")
			return
		}
	}
}
