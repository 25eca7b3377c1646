package strings

import (
	"testing"

	"memorial/internal/platform/testkit"
)

func TestMustString(t *testing.T) {
	if got := MustString("sky", "module name"); got != "sky" {
		t.Fatalf("got %q", got)
	}
	testkit.MustPanic(t, func() { MustString(" \t", "module name") })
}

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"sky":         "/sky",
		"/candles/":   "/candles",
		"  /memories": "/memories",
		"//a/b//":     "/a/b",
	} {
		if got := MustPrefix(in); got != want {
			t.Errorf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	for _, in := range []string{"", "/", " / "} {
		testkit.MustPanic(t, func() { MustPrefix(in) })
	}
}
