package minigame

import (
	"math"
	"time"
)

// Engine is the per-client minigame driver. It owns a World, the pop and
// slot ledgers, and the outbound sync schedule.
//
// The engine is single-threaded by contract: Tick, Handle, Launch and the
// actor operations must all be called from the same goroutine. There is no
// locking; correctness under concurrent peers comes from the message
// protocol, not shared memory.
type Engine struct {
	cfg   Config
	out   Sender
	cb    Callbacks
	clock func() time.Time

	world   *World
	seed    string
	localID string
	epoch   time.Time

	ready     bool
	destroyed bool
	pending   []func()

	lastSlot int64
	lastTick time.Time
	lastSync time.Time

	seen    map[PopKey]struct{}
	retired map[int64]struct{}
}

// NewEngine creates an engine that is not yet ready: session parameters
// arrive asynchronously from the lobby layer, so actor operations and
// inbound messages are queued until Init.
func NewEngine(cfg Config, out Sender, cb Callbacks, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		cfg:     cfg,
		out:     out,
		cb:      cb,
		clock:   clock,
		seen:    make(map[PopKey]struct{}),
		retired: make(map[int64]struct{}),
	}
}

// Init completes engine construction with the shared session seed, the
// session epoch, and this client's own actor ID, then replays any queued
// operations in call order. Init after Destroy is a no-op.
func (e *Engine) Init(seed string, epoch time.Time, localID string) {
	if e.destroyed || e.ready {
		return
	}
	e.seed = seed
	e.epoch = epoch
	e.localID = localID
	e.world = NewWorld(e.cfg)

	now := e.clock()
	e.lastTick = now
	e.lastSync = now
	// Back up by the lookback window so the first tick materializes every
	// still-alive bubble without replaying the session history.
	e.lastSlot = SlotAt(e.cfg, now.Sub(epoch)) - e.cfg.SlotLookback

	e.ready = true
	queued := e.pending
	e.pending = nil
	for _, op := range queued {
		if e.destroyed {
			return
		}
		op()
	}
}

// Ready reports whether Init has completed.
func (e *Engine) Ready() bool {
	return e.ready && !e.destroyed
}

// Destroy tears down the engine. Queued operations are dropped and any
// later call becomes a no-op.
func (e *Engine) Destroy() {
	e.destroyed = true
	e.pending = nil
	e.world = nil
}

// AddActor adds an actor to the simulation, or queues the add if the
// engine is still initializing. local marks this client's own avatar.
func (e *Engine) AddActor(id string, local bool) {
	if e.destroyed {
		return
	}
	if !e.ready {
		e.pending = append(e.pending, func() { e.AddActor(id, local) })
		return
	}
	if e.world.Actor(id) != nil {
		return
	}
	e.world.AddActor(id, local)
	if e.cb.ActorAdded != nil {
		e.cb.ActorAdded(id)
	}
}

// RemoveActor removes an actor, or queues the removal during init.
// Unknown IDs are ignored.
func (e *Engine) RemoveActor(id string) {
	if e.destroyed {
		return
	}
	if !e.ready {
		e.pending = append(e.pending, func() { e.RemoveActor(id) })
		return
	}
	if e.world.Actor(id) == nil {
		return
	}
	e.world.RemoveActor(id)
	if e.cb.ActorRemoved != nil {
		e.cb.ActorRemoved(id)
	}
}

// Tick advances the simulation to the clock's current time: physics step,
// due-slot spawning, analytic bubble motion, local contact pops, grounded
// re-evaluation and the periodic outbound position sample.
func (e *Engine) Tick() {
	if !e.Ready() {
		return
	}
	now := e.clock()
	dt := now.Sub(e.lastTick)
	if dt <= 0 {
		return
	}
	// Clamp the step after a stall so one huge delta can't tunnel actors
	// through the floor.
	if dt > e.cfg.MaxFrameDelta {
		dt = e.cfg.MaxFrameDelta
	}
	e.lastTick = now
	elapsed := now.Sub(e.epoch)

	e.world.Step(dt.Seconds())
	e.spawnDue(elapsed)
	e.world.AdvanceBubbles(e.cfg, elapsed)

	for _, slot := range e.world.LocalContacts() {
		e.processPop(e.localID, slot)
	}

	e.updateGrounded()
	e.maybeSendSample(now)
}

// spawnDue materializes every slot since the last known one, bounded by
// the lookback window. Slots whose analytic position already left the
// region are skipped entirely, which is how a mid-session joiner avoids
// spawning long-dead bubbles.
func (e *Engine) spawnDue(elapsed time.Duration) {
	cur := SlotAt(e.cfg, elapsed)
	if cur <= e.lastSlot {
		return
	}
	first := e.lastSlot + 1
	if min := cur - e.cfg.SlotLookback + 1; first < min {
		first = min
	}
	if first < 0 {
		first = 0
	}
	for slot := first; slot <= cur; slot++ {
		e.lastSlot = slot
		if _, gone := e.retired[slot]; gone {
			continue
		}
		p := ParamsFor(e.cfg, e.seed, slot)
		_, y := p.PositionAt(SlotAge(e.cfg, elapsed, slot))
		if y-p.Radius > e.cfg.Height {
			continue
		}
		e.world.SpawnBubble(slot, p)
	}
}

// updateGrounded re-evaluates the local actor's grounded state and fires
// the edge-triggered notification on change. Remote actors' grounded
// state is never computed locally.
func (e *Engine) updateGrounded() {
	a := e.world.LocalActor()
	if a == nil {
		return
	}
	g := e.world.groundedNow(a)
	if g != a.Grounded {
		a.Grounded = g
		if e.cb.GroundedChanged != nil {
			e.cb.GroundedChanged(a.ID, g)
		}
	}
}

// maybeSendSample emits a position sample for the local actor on the sync
// interval, but only while airborne; a grounded idle actor stays quiet.
func (e *Engine) maybeSendSample(now time.Time) {
	if now.Sub(e.lastSync) < e.cfg.SyncInterval {
		return
	}
	a := e.world.LocalActor()
	if a == nil || a.Grounded {
		return
	}
	e.lastSync = now
	if e.out != nil {
		e.out.Send(PositionSample{Actor: a.ID, X: a.X, Y: a.Y, VX: a.VX, VY: a.VY})
	}
}

// Launch attempts to launch the local actor. It fails without side effects
// unless the actor is currently grounded; power outside the configured
// bounds is clamped, never rejected.
func (e *Engine) Launch(angle, power float64) bool {
	if !e.Ready() {
		return false
	}
	a := e.world.LocalActor()
	if a == nil || !e.world.groundedNow(a) {
		return false
	}
	applied := applyLaunch(e.cfg, a, angle, power)
	if a.Grounded {
		a.Grounded = false
		if e.cb.GroundedChanged != nil {
			e.cb.GroundedChanged(a.ID, false)
		}
	}
	if e.out != nil {
		e.out.Send(Launch{Actor: a.ID, Angle: angle, Power: applied})
	}
	return true
}

// applyLaunch converts a clamped launch into a velocity and returns the
// applied power. Angle 0 points right, π/2 straight up (screen-space y
// grows downward).
func applyLaunch(cfg Config, a *Actor, angle, power float64) float64 {
	p := clampFloat(power, cfg.MinPower, cfg.MaxPower)
	a.VX = math.Cos(angle) * p
	a.VY = -math.Sin(angle) * p
	return p
}

// ActorPosition returns an actor's current position for aim rendering.
func (e *Engine) ActorPosition(id string) (x, y float64, ok bool) {
	if !e.Ready() {
		return 0, 0, false
	}
	a := e.world.Actor(id)
	if a == nil {
		return 0, 0, false
	}
	return a.X, a.Y, true
}

// Score returns an actor's current score, or 0 for unknown actors.
func (e *Engine) Score(id string) int {
	if !e.Ready() {
		return 0
	}
	a := e.world.Actor(id)
	if a == nil {
		return 0
	}
	return a.Score
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
