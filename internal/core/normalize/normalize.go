// Package normalize cleans visitor text before it is stored or shown
// Pipeline order
// 1 drop control characters and invalid UTF-8
// 2 Unicode NFC composition
// 3 remove invisible and bidi control characters
// 4 collapse whitespace runs, Text keeps up to one blank line, Line keeps none
// 5 trim
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.Predicate(invisible)),
		)
	},
}

// invisible matches characters that render as nothing or reorder the text around them
// ZWJ and ZWNJ stay so emoji sequences and some scripts survive
func invisible(r rune) bool {
	switch {
	case r == '\u200B', r == '\u2060', r == '\uFEFF':
		return true
	case r >= '\u202A' && r <= '\u202E':
		return true
	case r >= '\u2066' && r <= '\u2069':
		return true
	}
	return false
}

// dropControl removes C0 and C1 controls except tab and line breaks
// invalid UTF-8 decodes as RuneError and goes with them
func dropControl(r rune) rune {
	switch {
	case r == '\n', r == '\r', r == '\t':
		return r
	case r == utf8.RuneError, unicode.IsControl(r):
		return -1
	}
	return r
}

// Text normalizes multi line input such as a candle message
func Text(s string) string {
	return collapseSpaces(transformed(s), 2)
}

// Line normalizes single line input such as a name, title or wish
func Line(s string) string {
	return collapseSpaces(transformed(s), 0)
}

func transformed(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(dropControl, s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on malformed input dropControl already removed
		return s
	}
	return ns
}

// collapseSpaces converts whitespace runs to a single ASCII space
// a run holding line breaks becomes up to maxNL newlines instead; maxNL 0 folds them to a space
// leading and trailing whitespace is trimmed
func collapseSpaces(s string, maxNL int) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	nl := 0
	cr := false
	flush := func() {
		if !inWS {
			return
		}
		if cr && nl == 0 {
			nl = 1
		}
		if nl > maxNL {
			nl = maxNL
		}
		if nl == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(strings.Repeat("\n", nl))
		}
		inWS = false
		nl = 0
		cr = false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			switch r {
			case '\n':
				nl++
			case '\r':
				cr = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return strings.Trim(b.String(), " \n")
}
