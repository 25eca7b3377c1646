package service

import "time"

// Options bounds the live views
type Options struct {
	// HistoryLimit is how many recent wishes a view loads on mount
	HistoryLimit int

	// WindowCap is the eviction cap applied on the push path
	WindowCap int

	// SubmitDuration is the loop length of a lantern its own sender just released
	SubmitDuration time.Duration

	// CapOnSubmit applies WindowCap on the submit path too
	CapOnSubmit bool

	// Stars is how many background stars each view scatters
	Stars int
}

// DefaultOptions returns the reference bounds
func DefaultOptions() Options {
	return Options{
		HistoryLimit:   20,
		WindowCap:      25,
		SubmitDuration: 20 * time.Second,
		Stars:          15,
	}
}

// withDefaults fills zero fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = d.HistoryLimit
	}
	if o.WindowCap <= 0 {
		o.WindowCap = d.WindowCap
	}
	if o.SubmitDuration <= 0 {
		o.SubmitDuration = d.SubmitDuration
	}
	if o.Stars < 0 {
		o.Stars = 0
	}
	return o
}
