package minigame

import (
	"testing"
	"time"
)

func TestWorldAddRemoveActor(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := w.AddActor("p1", true)
	if a == nil || w.Actor("p1") != a {
		t.Fatal("actor not added")
	}
	if !a.Grounded {
		t.Error("new actor should start grounded")
	}
	w.RemoveActor("p1")
	if w.Actor("p1") != nil {
		t.Error("actor not removed")
	}
	// Removing twice is a no-op.
	w.RemoveActor("p1")
}

func TestWorldActorSettlesOnFloor(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	a := w.AddActor("p1", true)
	a.Y = cfg.Height / 2
	a.VY = 0

	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}
	if a.Y != cfg.floorY() {
		t.Errorf("actor should rest at %f, got %f", cfg.floorY(), a.Y)
	}
	if !w.groundedNow(a) {
		t.Error("settled actor should assess as grounded")
	}
}

func TestWorldWallBounce(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	a := w.AddActor("p1", true)
	a.X = cfg.Width - cfg.ActorRadius - 1
	a.Y = cfg.Height / 2
	a.VX = 500

	w.Step(1.0 / 30.0)
	if a.X > cfg.Width-cfg.ActorRadius {
		t.Errorf("actor escaped region: x=%f", a.X)
	}
	if a.VX >= 0 {
		t.Errorf("expected reflected velocity, got vx=%f", a.VX)
	}
}

func TestWorldBubbleDespawnBelowRegion(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	p := ParamsFor(cfg, "seed", 0)
	w.SpawnBubble(0, p)

	// Far in the future the slot-0 bubble has long left the region.
	w.AdvanceBubbles(cfg, 10*time.Minute)
	if w.Bubble(0) != nil {
		t.Error("bubble below region should despawn")
	}
}

func TestWorldLocalContacts(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	a := w.AddActor("p1", true)
	p := ParamsFor(cfg, "seed", 3)
	w.SpawnBubble(3, p)
	b := w.Bubble(3)

	// Place the bubble on top of the actor.
	b.X, b.Y = a.X, a.Y
	hits := w.LocalContacts()
	if len(hits) != 1 || hits[0] != 3 {
		t.Fatalf("expected contact with slot 3, got %v", hits)
	}

	// And well away from it.
	b.X, b.Y = a.X+300, a.Y-300
	if hits := w.LocalContacts(); len(hits) != 0 {
		t.Errorf("expected no contacts, got %v", hits)
	}
}

func TestWorldSpawnBubbleIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	w := NewWorld(cfg)
	p := ParamsFor(cfg, "seed", 1)
	w.SpawnBubble(1, p)
	first := w.Bubble(1)
	w.SpawnBubble(1, p)
	if w.Bubble(1) != first {
		t.Error("respawning an existing slot should be a no-op")
	}
	if w.BubbleCount() != 1 {
		t.Errorf("expected 1 bubble, got %d", w.BubbleCount())
	}
}
