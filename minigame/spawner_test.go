package minigame

import (
	"testing"
	"time"
)

func TestParamsForPure(t *testing.T) {
	cfg := DefaultConfig()
	a := ParamsFor(cfg, "seed-a", 7)

	// Interleave unrelated calls; the result must not depend on history.
	ParamsFor(cfg, "seed-b", 7)
	ParamsFor(cfg, "seed-a", 8)
	ParamsFor(cfg, "seed-a", 0)

	b := ParamsFor(cfg, "seed-a", 7)
	if a != b {
		t.Errorf("ParamsFor not pure: %+v != %+v", a, b)
	}
}

func TestParamsForDistinctSlots(t *testing.T) {
	cfg := DefaultConfig()
	a := ParamsFor(cfg, "seed", 1)
	b := ParamsFor(cfg, "seed", 2)
	if a == b {
		t.Error("adjacent slots produced identical params")
	}
}

func TestParamsForSeedDependent(t *testing.T) {
	cfg := DefaultConfig()
	a := ParamsFor(cfg, "room-1", 3)
	b := ParamsFor(cfg, "room-2", 3)
	if a == b {
		t.Error("different seeds produced identical params")
	}
}

func TestParamsForRanges(t *testing.T) {
	cfg := DefaultConfig()
	for slot := int64(0); slot < 200; slot++ {
		p := ParamsFor(cfg, "range-check", slot)
		if p.Radius < bubbleMinRadius || p.Radius > bubbleMaxRadius {
			t.Fatalf("slot %d: radius %f out of range", slot, p.Radius)
		}
		if p.X0 < p.Radius || p.X0 > cfg.Width-p.Radius {
			t.Fatalf("slot %d: x0 %f outside region", slot, p.X0)
		}
		if p.FallSpeed < bubbleMinSpeed || p.FallSpeed > bubbleMaxSpeed {
			t.Fatalf("slot %d: fall speed %f out of range", slot, p.FallSpeed)
		}
		if p.Color < 0 || p.Color >= bubbleColors {
			t.Fatalf("slot %d: color %d out of range", slot, p.Color)
		}
	}
}

func TestPositionAtStartsAboveRegion(t *testing.T) {
	p := ParamsFor(DefaultConfig(), "seed", 0)
	_, y := p.PositionAt(0)
	if y != -p.Radius {
		t.Errorf("expected spawn y %f, got %f", -p.Radius, y)
	}
}

func TestPositionAtFalls(t *testing.T) {
	p := ParamsFor(DefaultConfig(), "seed", 0)
	_, y1 := p.PositionAt(1)
	_, y2 := p.PositionAt(2)
	if y2 <= y1 {
		t.Errorf("bubble should fall: y(1)=%f y(2)=%f", y1, y2)
	}
}

func TestSlotAt(t *testing.T) {
	cfg := DefaultConfig() // 2s interval
	cases := []struct {
		elapsed time.Duration
		want    int64
	}{
		{0, 0},
		{1999 * time.Millisecond, 0},
		{2000 * time.Millisecond, 1},
		{10000 * time.Millisecond, 5},
		{-time.Second, -1},
	}
	for _, c := range cases {
		if got := SlotAt(cfg, c.elapsed); got != c.want {
			t.Errorf("SlotAt(%v) = %d, want %d", c.elapsed, got, c.want)
		}
	}
}
