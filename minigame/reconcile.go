package minigame

import "math"

// Handle routes one inbound message into the simulation. Messages arriving
// before Init are queued and replayed; messages for unknown actors are
// silently dropped, since actor add/remove legitimately races with other
// traffic through the relay.
func (e *Engine) Handle(msg Message) {
	if e.destroyed {
		return
	}
	if !e.ready {
		e.pending = append(e.pending, func() { e.Handle(msg) })
		return
	}
	switch m := msg.(type) {
	case Launch:
		e.handleLaunch(m)
	case Pop:
		e.processPop(m.Actor, m.Slot)
	case PositionSample:
		e.handlePosition(m)
	case ScoreTable:
		e.mergeScores(m.Scores)
	case Snapshot:
		e.handleSnapshot(m)
	}
}

// handleLaunch applies a remote actor's launch velocity directly. The
// grounded gate is bypassed: the remote client already validated it, and
// remote grounded state is not assessed here. Our own launches never come
// back through this path.
func (e *Engine) handleLaunch(m Launch) {
	if m.Actor == e.localID {
		return
	}
	a := e.world.Actor(m.Actor)
	if a == nil {
		return
	}
	applyLaunch(e.cfg, a, m.Angle, m.Power)
}

// processPop is the idempotent pop handler for both local contacts and
// remote pop messages. The bubble is always retired, but the (actor, slot)
// key scores at most once, and only local-actor pops increment the local
// score and go outbound.
func (e *Engine) processPop(actor string, slot int64) {
	e.world.RetireBubble(slot)
	e.retired[slot] = struct{}{}

	key := PopKey{Actor: actor, Slot: slot}
	if _, dup := e.seen[key]; dup {
		return
	}
	e.seen[key] = struct{}{}

	if actor != e.localID {
		return
	}
	a := e.world.Actor(actor)
	if a == nil {
		return
	}
	a.Score++
	if e.cb.Popped != nil {
		e.cb.Popped(actor, slot, a.Score)
	}
	if e.out != nil {
		e.out.Send(Pop{Actor: actor, Slot: slot})
	}
}

// mergeScores applies an authoritative score table. The local actor only
// moves forward — a stale echo must not roll local prediction backward —
// while remote actors take the relay's value unconditionally.
func (e *Engine) mergeScores(scores map[string]int) {
	for id, v := range scores {
		a := e.world.Actor(id)
		if a == nil {
			continue
		}
		if id == e.localID {
			if v > a.Score {
				a.Score = v
			}
		} else {
			a.Score = v
		}
	}
}

// handlePosition reconciles a remote actor toward a reported sample.
// Large gaps hard-snap, moderate gaps blend by fixed fractions, and gaps
// inside the dead zone are treated as noise. The local actor is never
// corrected here.
func (e *Engine) handlePosition(m PositionSample) {
	if m.Actor == e.localID {
		return
	}
	a := e.world.Actor(m.Actor)
	if a == nil {
		return
	}
	d := math.Hypot(m.X-a.X, m.Y-a.Y)
	switch {
	case d > e.cfg.HardSnapDist:
		a.X, a.Y = m.X, m.Y
		a.VX, a.VY = m.VX, m.VY
	case d > e.cfg.DeadZoneDist:
		a.X += (m.X - a.X) * e.cfg.PosBlend
		a.Y += (m.Y - a.Y) * e.cfg.PosBlend
		a.VX += (m.VX - a.VX) * e.cfg.VelBlend
		a.VY += (m.VY - a.VY) * e.cfg.VelBlend
	}
}

// handleSnapshot applies a late-joiner catch-up payload: retire every
// popped slot, seed the seen-set so individual pop messages the snapshot
// subsumes become no-ops, and merge scores under the usual rules.
// Applying the same snapshot twice is harmless.
func (e *Engine) handleSnapshot(m Snapshot) {
	for _, slot := range m.Popped {
		e.world.RetireBubble(slot)
		e.retired[slot] = struct{}{}
	}
	for _, key := range m.Processed {
		e.seen[key] = struct{}{}
	}
	e.mergeScores(m.Scores)
}
