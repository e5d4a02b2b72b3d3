package net_test

import (
	"context"
	"testing"

	pnet "covtrend/internal/platform/net"
)

func TestWithRequest_And_Getters(t *testing.T) {
	base := context.Background()

	t.Run("sets request id", func(t *testing.T) {
		ctx := pnet.WithRequest(base, "req-123")
		if got := pnet.RequestID(ctx); got != "req-123" {
			t.Fatalf("RequestID got %q want %q", got, "req-123")
		}
	})

	t.Run("empty request id returns same ctx", func(t *testing.T) {
		ctx := pnet.WithRequest(base, "")
		if ctx != base {
			t.Fatalf("expected ctx to be unchanged")
		}
		if got := pnet.RequestID(ctx); got != "" {
			t.Fatalf("RequestID got %q want empty", got)
		}
	})
}

func TestWithUser(t *testing.T) {
	base := context.Background()
	if got := pnet.UserID(base); got != "" {
		t.Fatalf("anonymous UserID got %q", got)
	}
	if ctx := pnet.WithUser(base, ""); ctx != base {
		t.Fatal("empty user should not annotate ctx")
	}
	if got := pnet.UserID(pnet.WithUser(base, "42")); got != "42" {
		t.Fatalf("UserID got %q want 42", got)
	}
}
