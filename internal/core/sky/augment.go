package sky

import "time"

// Augmentation bounds
const (
	minXPercent     = 5
	spanXPercent    = 90
	minLoopSeconds  = 25
	spanLoopSeconds = 20
	maxDelaySeconds = 5
)

// Augmented is a record plus its client-local presentation profile
// the profile is derived once per id and never changes afterwards
type Augmented struct {
	Record

	XPercent int
	Duration time.Duration
	Delay    time.Duration
	Style    int
}

// Augment derives a fresh presentation profile for rec
// draws happen in a fixed order (x, duration, delay, style) so seeded sources replay exactly
func Augment(rec Record, rng Rand) Augmented {
	a := Augmented{
		Record:   rec,
		XPercent: rng.IntN(spanXPercent) + minXPercent,
		Duration: time.Duration(rng.IntN(spanLoopSeconds)+minLoopSeconds) * time.Second,
		Delay:    time.Duration(rng.Float64() * maxDelaySeconds * float64(time.Second)),
	}
	if s, ok := rec.Style(); ok {
		a.Style = s
	} else {
		a.Style = rng.IntN(StyleCount)
	}
	return a
}

// Lookup finds the augmentation already assigned to an id
type Lookup interface {
	Get(id int64) (Augmented, bool)
}

// AugmentIfAbsent returns the profile already held for rec.ID (fresh=false) or
// derives a new one (fresh=true); nothing is drawn from rng for a known id
func AugmentIfAbsent(seen Lookup, rec Record, rng Rand) (a Augmented, fresh bool) {
	if seen != nil {
		if prev, ok := seen.Get(rec.ID); ok {
			return prev, false
		}
	}
	return Augment(rec, rng), true
}

// SubmitDuration is the loop length of a lantern its own submitter just sent
const SubmitDuration = 20 * time.Second

// AugmentSubmitted derives the profile for a record this client just inserted:
// style is the chosen one (never randomized) and the loop is forced to loop
func AugmentSubmitted(rec Record, style int, loop time.Duration, rng Rand) Augmented {
	rec.StyleIndex = IntPtr(style)
	a := Augment(rec, rng)
	a.Duration = loop
	return a
}
