package repo

import (
	"context"
	"encoding/json"

	"memorial/internal/core/sky"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/realtime"
	"memorial/internal/services/api/sky/domain"
)

// Channel is the NOTIFY channel the wishes insert trigger publishes on
const Channel = "wishes_insert"

// Subscriber is the slice of the realtime hub the feed needs
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, fn realtime.Handler) (*realtime.Subscription, error)
}

// PayloadObserver counts feed outcomes
type PayloadObserver interface {
	Payload(channel, outcome string)
}

// Feed turns raw NOTIFY payloads on Channel into records
type Feed struct {
	hub Subscriber
	obs PayloadObserver
}

// NewFeed builds a feed over hub; obs may be nil
func NewFeed(hub Subscriber, obs PayloadObserver) *Feed {
	return &Feed{hub: hub, obs: obs}
}

// Subscribe delivers every well formed inserted record to fn
// malformed payloads are dropped and counted
func (f *Feed) Subscribe(ctx context.Context, fn func(sky.Record)) (domain.Subscription, error) {
	if f == nil || f.hub == nil {
		return nil, perr.Unavailablef("live feed disabled")
	}
	sub, err := f.hub.Subscribe(ctx, Channel, func(payload string) {
		rec, ok := DecodeRecord(payload)
		if !ok {
			f.observe("malformed")
			return
		}
		f.observe("decoded")
		fn(rec)
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "subscribe wishes")
	}
	return sub, nil
}

func (f *Feed) observe(outcome string) {
	if f.obs != nil {
		f.obs.Payload(Channel, outcome)
	}
}

// DecodeRecord parses a row_to_json payload, reporting false when it cannot be shown
func DecodeRecord(payload string) (sky.Record, bool) {
	var rec sky.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return sky.Record{}, false
	}
	if !rec.Valid() {
		return sky.Record{}, false
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, true
}
