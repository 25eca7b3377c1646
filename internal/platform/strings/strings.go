// Package strings holds the small string helpers modules share
package strings

import std "strings"

// MustString returns s when it has visible content and panics naming what was missing otherwise
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix turns s into a mount prefix like /sky or /candles
// one leading slash, no trailing slash, and never the bare root
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}
