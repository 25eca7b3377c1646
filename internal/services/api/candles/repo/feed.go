package repo

import (
	"context"
	"encoding/json"
	"strings"

	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/realtime"
	"memorial/internal/services/api/candles/domain"
)

// Channel is the NOTIFY channel the candles insert trigger publishes on
const Channel = "candles_insert"

// Subscriber is the slice of the realtime hub the feed needs
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, fn realtime.Handler) (*realtime.Subscription, error)
}

// PayloadObserver counts feed outcomes
type PayloadObserver interface {
	Payload(channel, outcome string)
}

// Feed turns NOTIFY payloads on Channel into candles
type Feed struct {
	hub Subscriber
	obs PayloadObserver
}

// NewFeed builds a feed over hub; obs may be nil
func NewFeed(hub Subscriber, obs PayloadObserver) *Feed {
	return &Feed{hub: hub, obs: obs}
}

// Subscribe delivers every well formed candle to fn until the subscription closes
func (f *Feed) Subscribe(ctx context.Context, fn func(domain.Candle)) (domain.Subscription, error) {
	if f == nil || f.hub == nil {
		return nil, perr.Unavailablef("live candles disabled")
	}
	sub, err := f.hub.Subscribe(ctx, Channel, func(payload string) {
		c, ok := DecodeCandle(payload)
		if !ok {
			f.observe("malformed")
			return
		}
		f.observe("decoded")
		fn(c)
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "subscribe candles")
	}
	return sub, nil
}

func (f *Feed) observe(outcome string) {
	if f.obs != nil {
		f.obs.Payload(Channel, outcome)
	}
}

// DecodeCandle parses a row_to_json payload
func DecodeCandle(payload string) (domain.Candle, bool) {
	var c domain.Candle
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return domain.Candle{}, false
	}
	if c.ID <= 0 || strings.TrimSpace(c.VisitorName) == "" || strings.TrimSpace(c.Message) == "" {
		return domain.Candle{}, false
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, true
}
