package minigame

import (
	"math"
	"time"
)

// Actor is one player avatar in the world. The local actor is force-driven
// by the simulation; remote actors only ever move through launch messages
// and position reconciliation.
type Actor struct {
	ID       string
	X, Y     float64
	VX, VY   float64
	Grounded bool
	Score    int
	Local    bool
}

// Bubble is a live spawned object. Its position is analytic — recomputed
// from its parameters and age every tick, never integrated.
type Bubble struct {
	Slot int64
	P    BubbleParams
	X, Y float64
}

// World owns the rigid-body state for one client's simulation: the region
// bounds, one body per actor, and one kinematic body per live bubble.
type World struct {
	cfg     Config
	actors  map[string]*Actor
	bubbles map[int64]*Bubble
}

// NewWorld creates an empty world with the given bounds and tuning.
func NewWorld(cfg Config) *World {
	return &World{
		cfg:     cfg,
		actors:  make(map[string]*Actor),
		bubbles: make(map[int64]*Bubble),
	}
}

// AddActor places a new actor resting on the floor. Spread actors out by a
// hash of their ID so avatars don't stack on join.
func (w *World) AddActor(id string, local bool) *Actor {
	if a, ok := w.actors[id]; ok {
		return a
	}
	col := 0.15 + 0.7*idFraction(id)
	a := &Actor{
		ID:       id,
		X:        w.cfg.Width * col,
		Y:        w.cfg.floorY(),
		Grounded: true,
		Local:    local,
	}
	w.actors[id] = a
	return a
}

// RemoveActor drops an actor from the world. Unknown IDs are a no-op.
func (w *World) RemoveActor(id string) {
	delete(w.actors, id)
}

// Actor returns the actor with the given ID, or nil.
func (w *World) Actor(id string) *Actor {
	return w.actors[id]
}

// LocalActor returns the actor owned by this client, or nil.
func (w *World) LocalActor() *Actor {
	for _, a := range w.actors {
		if a.Local {
			return a
		}
	}
	return nil
}

// Step advances every actor by one integration step under gravity with
// damping, then resolves region bounds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	damp := 1.0 - w.cfg.Damping*dt
	if damp < 0 {
		damp = 0
	}
	for _, a := range w.actors {
		a.VY += w.cfg.Gravity * dt
		a.VX *= damp
		a.VY *= damp
		a.X += a.VX * dt
		a.Y += a.VY * dt
		w.collideBounds(a)
	}
}

// collideBounds keeps an actor inside the region. Walls and ceiling bounce
// with restitution; the floor absorbs vertical velocity so actors settle.
func (w *World) collideBounds(a *Actor) {
	r := w.cfg.ActorRadius
	if a.X < r {
		a.X = r
		a.VX = -a.VX * w.cfg.Restitution
	} else if a.X > w.cfg.Width-r {
		a.X = w.cfg.Width - r
		a.VX = -a.VX * w.cfg.Restitution
	}
	if a.Y < r {
		a.Y = r
		a.VY = -a.VY * w.cfg.Restitution
	}
	if a.Y > w.cfg.floorY() {
		a.Y = w.cfg.floorY()
		if a.VY > 0 {
			a.VY = 0
		}
	}
}

// groundedNow assesses the grounded threshold test: near the floor resting
// line and near-zero speed.
func (w *World) groundedNow(a *Actor) bool {
	if w.cfg.floorY()-a.Y > w.cfg.GroundedMaxHeight {
		return false
	}
	return math.Hypot(a.VX, a.VY) <= w.cfg.GroundedMaxSpeed
}

// SpawnBubble materializes a bubble body for a slot. Already-present slots
// are a no-op.
func (w *World) SpawnBubble(slot int64, p BubbleParams) {
	if _, ok := w.bubbles[slot]; ok {
		return
	}
	x, y := p.PositionAt(0)
	w.bubbles[slot] = &Bubble{Slot: slot, P: p, X: x, Y: y}
}

// RetireBubble removes a bubble body. Unknown slots are a no-op.
func (w *World) RetireBubble(slot int64) {
	delete(w.bubbles, slot)
}

// Bubble returns the live bubble for a slot, or nil.
func (w *World) Bubble(slot int64) *Bubble {
	return w.bubbles[slot]
}

// BubbleCount returns the number of live bubbles.
func (w *World) BubbleCount() int {
	return len(w.bubbles)
}

// AdvanceBubbles recomputes every bubble's analytic position for the given
// session elapsed time and despawns bubbles that fell below the region.
// Falling off-screen does not retire a slot globally; only pops do that.
func (w *World) AdvanceBubbles(cfg Config, elapsed time.Duration) {
	for slot, b := range w.bubbles {
		b.X, b.Y = b.P.PositionAt(SlotAge(cfg, elapsed, slot))
		if b.Y-b.P.Radius > w.cfg.Height {
			delete(w.bubbles, slot)
		}
	}
}

// LocalContacts reports the slots of bubbles overlapping the local actor.
// Contacts are sensors: no physical response, just candidate pops for the
// reconciler to arbitrate.
func (w *World) LocalContacts() []int64 {
	a := w.LocalActor()
	if a == nil {
		return nil
	}
	var hits []int64
	for slot, b := range w.bubbles {
		if circlesOverlap(a.X, a.Y, w.cfg.ActorRadius, b.X, b.Y, b.P.Radius) {
			hits = append(hits, slot)
		}
	}
	return hits
}

// circlesOverlap checks if two circles intersect.
func circlesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	rr := r1 + r2
	return dx*dx+dy*dy <= rr*rr
}

// idFraction hashes an actor ID to [0, 1) for spawn placement.
func idFraction(id string) float64 {
	var h uint32 = 2166136261
	for i := 0; i < len(id); i++ {
		h ^= uint32(id[i])
		h *= 16777619
	}
	return float64(h%1000) / 1000.0
}
