package sky

import (
	"encoding/json"
	"time"
)

// DefaultStars is how many background stars a view scatters
const DefaultStars = 15

// Star is one twinkling background point
type Star struct {
	TopPercent  float64
	LeftPercent float64
	Scale       float64
	Twinkle     time.Duration
}

// Stars scatters n stars over the upper part of the sky
func Stars(n int, rng Rand) []Star {
	out := make([]Star, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, Star{
			TopPercent:  rng.Float64() * 60,
			LeftPercent: rng.Float64() * 100,
			Scale:       rng.Float64()*0.5 + 0.5,
			Twinkle:     time.Duration((rng.Float64()*3 + 2) * float64(time.Second)),
		})
	}
	return out
}

// MarshalJSON renders the twinkle period in milliseconds
func (s Star) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Top       float64 `json:"top_percent"`
		Left      float64 `json:"left_percent"`
		Scale     float64 `json:"scale"`
		TwinkleMS int64   `json:"twinkle_ms"`
	}{s.TopPercent, s.LeftPercent, s.Scale, s.Twinkle.Milliseconds()})
}
