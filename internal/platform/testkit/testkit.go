// Package testkit provides testing helpers
package testkit

import (
	"fmt"
	"strings"
	"testing"
)

// MustPanic asserts that fn panics and returns the recovered value
func MustPanic(t *testing.T, fn func()) any {
	t.Helper()
	var got any
	func() {
		defer func() { got = recover() }()
		fn()
	}()
	if got == nil {
		t.Fatalf("expected panic, got none")
	}
	return got
}

// MustPanicWith asserts that fn panics with a message mentioning every part
func MustPanicWith(t *testing.T, fn func(), parts ...string) {
	t.Helper()
	msg := fmt.Sprint(MustPanic(t, fn))
	for _, p := range parts {
		if !strings.Contains(msg, p) {
			t.Fatalf("panic %q does not mention %q", msg, p)
		}
	}
}

// MustContain asserts that s contains sub
func MustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("expected %q to contain %q", s, sub)
	}
}
