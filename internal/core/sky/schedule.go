package sky

import (
	"encoding/json"
	"math"
	"time"
)

// Ease names understood by the renderer
const (
	EaseLinear   = "linear"
	EaseInOut    = "easeInOut"
	RepeatLoop   = "loop"
	RepeatMirror = "mirror"
)

// Path and envelope constants for a lantern's flight
const (
	startVH     = 110.0
	anchorVH    = 0.0
	exitFromVH  = -90.0
	topVH       = -100.0
	driftSpan   = 5.0
	driftPeriod = 10 * time.Second
	bobSpanPX   = 5.0
)

// opacity envelope keyframe times as fractions of the loop
const (
	fadeInEnd    = 0.1
	fadeOutStart = 0.99
)

// Phase is one segment of a track: value goes From -> To starting Offset into the cycle
type Phase struct {
	Name     string
	Offset   time.Duration
	Duration time.Duration
	From     float64
	To       float64
}

// Track is a repeating animation of one property
type Track struct {
	Property string
	Unit     string
	Cycle    time.Duration
	Delay    time.Duration
	Ease     string
	Repeat   string
	Phases   []Phase
}

// Schedule is everything a renderer needs to animate one lantern
type Schedule struct {
	Vertical Track
	Opacity  Track
	Drift    Track
	Bob      Track
}

// Tracks returns the schedule tracks in render order
func (s Schedule) Tracks() []Track { return []Track{s.Vertical, s.Opacity, s.Drift, s.Bob} }

// ScheduleFor derives the motion and opacity schedule of an augmented record
// same input, same schedule
func ScheduleFor(a Augmented) Schedule {
	d := a.Duration
	half := frac(d, 0.5)
	traverse := frac(d, 0.45)
	exitAt := half + traverse

	x := float64(a.XPercent)

	return Schedule{
		Vertical: Track{
			Property: "y", Unit: "vh", Cycle: d, Delay: a.Delay, Ease: EaseLinear, Repeat: RepeatLoop,
			Phases: []Phase{
				{Name: "enter", Offset: 0, Duration: half, From: startVH, To: anchorVH},
				{Name: "traverse", Offset: half, Duration: traverse, From: anchorVH, To: exitFromVH},
				{Name: "exit", Offset: exitAt, Duration: d - exitAt, From: exitFromVH, To: topVH},
			},
		},
		Opacity: Track{
			Property: "opacity", Cycle: d, Delay: a.Delay, Ease: EaseLinear, Repeat: RepeatLoop,
			Phases: []Phase{
				{Name: "fade-in", Offset: 0, Duration: frac(d, fadeInEnd), From: 0, To: 1},
				{Name: "hold", Offset: frac(d, fadeInEnd), Duration: frac(d, fadeOutStart) - frac(d, fadeInEnd), From: 1, To: 1},
				{Name: "fade-out", Offset: frac(d, fadeOutStart), Duration: d - frac(d, fadeOutStart), From: 1, To: 0},
			},
		},
		Drift: Track{
			Property: "x", Unit: "%", Cycle: driftPeriod, Ease: EaseInOut, Repeat: RepeatMirror,
			Phases: []Phase{
				{Name: "sway-out", Offset: 0, Duration: driftPeriod / 2, From: x, To: x + driftSpan},
				{Name: "sway-back", Offset: driftPeriod / 2, Duration: driftPeriod / 2, From: x + driftSpan, To: x - driftSpan},
			},
		},
		Bob: bobTrack(MotifFor(a.Style)),
	}
}

func bobTrack(m Motif) Track {
	return Track{
		Property: "bob", Unit: "px", Cycle: m.Bob, Ease: EaseInOut, Repeat: RepeatLoop,
		Phases: []Phase{
			{Name: "rise", Offset: 0, Duration: m.Bob / 2, From: -bobSpanPX, To: bobSpanPX},
			{Name: "sink", Offset: m.Bob / 2, Duration: m.Bob - m.Bob/2, From: bobSpanPX, To: -bobSpanPX},
		},
	}
}

func frac(d time.Duration, f float64) time.Duration {
	return time.Duration(math.Round(float64(d) * f))
}

// MarshalJSON renders durations in milliseconds
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string  `json:"phase"`
		OffsetMS   int64   `json:"start_offset_ms"`
		DurationMS int64   `json:"duration_ms"`
		From       float64 `json:"from"`
		To         float64 `json:"to"`
	}{p.Name, p.Offset.Milliseconds(), p.Duration.Milliseconds(), p.From, p.To})
}

// MarshalJSON renders durations in milliseconds
func (t Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Property string  `json:"property"`
		Unit     string  `json:"unit,omitempty"`
		CycleMS  int64   `json:"cycle_ms"`
		DelayMS  int64   `json:"delay_ms"`
		Ease     string  `json:"ease"`
		Repeat   string  `json:"repeat"`
		Phases   []Phase `json:"phases"`
	}{t.Property, t.Unit, t.Cycle.Milliseconds(), t.Delay.Milliseconds(), t.Ease, t.Repeat, t.Phases})
}

// Token is the render contract for one window entry, keyed by wish id
type Token struct {
	ID        int64     `json:"id"`
	Text      string    `json:"wish_text"`
	CreatedAt time.Time `json:"created_at"`
	XPercent  int       `json:"x_percent"`
	Motif     Motif     `json:"motif"`
	Tracks    []Track   `json:"tracks"`
}

// TokenFor builds the token for one augmented record
func TokenFor(a Augmented) Token {
	return Token{
		ID:        a.ID,
		Text:      a.Text,
		CreatedAt: a.CreatedAt,
		XPercent:  a.XPercent,
		Motif:     MotifFor(a.Style),
		Tracks:    ScheduleFor(a).Tracks(),
	}
}

// Tokens builds one token per window entry, in window order
func Tokens(items []Augmented) []Token {
	out := make([]Token, 0, len(items))
	for _, it := range items {
		out = append(out, TokenFor(it))
	}
	return out
}
