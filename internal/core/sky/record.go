// Package sky holds the wish feed core: records, first-sight augmentation,
// the bounded newest-first window and the lantern animation schedules
package sky

import (
	"strings"
	"time"
	"unicode/utf8"

	"memorial/internal/core/normalize"
	perr "memorial/internal/platform/errors"
)

const (
	// MaxTextLen is the maximum wish length in characters
	MaxTextLen = 100

	// StyleCount is the number of lantern motifs a wish can pick from
	StyleCount = 6
)

var (
	// ErrEmptyText is returned when a wish is blank after trimming
	ErrEmptyText = perr.New(perr.ErrorCodeValidation, "wish text is required")

	// ErrTextTooLong is returned when a wish exceeds MaxTextLen characters
	ErrTextTooLong = perr.Newf(perr.ErrorCodeValidation, "wish text must be at most %d characters", MaxTextLen)

	// ErrStyleRange is returned for a style index outside [0, StyleCount)
	ErrStyleRange = perr.Newf(perr.ErrorCodeValidation, "style_index must be between 0 and %d", StyleCount-1)
)

// Record is one wish as stored by the backend
// wish_text is the persisted field name and must stay that way on the wire
type Record struct {
	ID         int64     `json:"id"`
	Text       string    `json:"wish_text"`
	CreatedAt  time.Time `json:"created_at"`
	StyleIndex *int      `json:"style_index,omitempty"`
}

// Style returns the explicit style index when present and in range
func (r Record) Style() (int, bool) {
	if r.StyleIndex == nil || !ValidStyle(*r.StyleIndex) {
		return 0, false
	}
	return *r.StyleIndex, true
}

// Valid reports whether a pushed record carries enough to be shown
func (r Record) Valid() bool {
	return r.ID > 0 && strings.TrimSpace(r.Text) != ""
}

// ValidStyle reports whether i selects one of the motifs
func ValidStyle(i int) bool { return i >= 0 && i < StyleCount }

// NormalizeText cleans a wish down to one line and enforces the length bound
func NormalizeText(s string) (string, error) {
	s = normalize.Line(s)
	if s == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(s) > MaxTextLen {
		return "", ErrTextTooLong
	}
	return s, nil
}

// IntPtr returns a pointer to i
func IntPtr(i int) *int { return &i }
