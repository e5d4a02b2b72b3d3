package module

import (
	"sync"
	"testing"
)

// registry tests share package state, none of them run in parallel

type chartsPorts struct {
	Limits limitsPort
	Source sourcePort
}

type metaPorts struct{ Version string }

func TestRegistry_ChartsAndMeta(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("charts", chartsPorts{Limits: limits(1000), Source: source("pg")})
	Register("meta", metaPorts{Version: "v1"})

	cp, ok := PortsAs[chartsPorts]("charts")
	if !ok || cp.Limits.MaxBuckets() != 1000 || cp.Source.Source() != "pg" {
		t.Fatalf("charts ports = %+v,%v", cp, ok)
	}
	mp, ok := PortsAs[metaPorts]("meta")
	if !ok || mp.Version != "v1" {
		t.Fatalf("meta ports = %+v,%v", mp, ok)
	}

	if _, ok := PortsAs[metaPorts]("charts"); ok {
		t.Fatalf("charts ports must not assert as meta ports")
	}
	if got, ok := PortsAs[chartsPorts]("billing"); ok || got != (chartsPorts{}) {
		t.Fatalf("unknown module = %+v,%v", got, ok)
	}
}

func TestRegistry_ReRegisterAndReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("charts", chartsPorts{Limits: limits(1000)})
	Register("charts", chartsPorts{Limits: limits(90)})
	if cp, _ := PortsAs[chartsPorts]("charts"); cp.Limits.MaxBuckets() != 90 {
		t.Fatalf("last registration should win, got %d", cp.Limits.MaxBuckets())
	}

	Reset()
	if _, ok := PortsAs[chartsPorts]("charts"); ok {
		t.Fatalf("reset should drop charts")
	}
}

func TestRegistry_ConcurrentMountAndLookup(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Register("charts", chartsPorts{Limits: limits(i)})
		}()
		go func() {
			defer wg.Done()
			_, _ = PortsAs[chartsPorts]("charts")
		}()
	}
	wg.Wait()

	cp, ok := PortsAs[chartsPorts]("charts")
	if !ok || cp.Limits.MaxBuckets() < 1 || cp.Limits.MaxBuckets() > 50 {
		t.Fatalf("charts after concurrent registration = %+v,%v", cp, ok)
	}
}
