package minigame

// Message is the closed set of events exchanged between clients through the
// relay. Delivery is at-least-once and unordered; every handler in the
// engine is written to be correct under duplication and reordering.
type Message interface {
	minigameMessage()
}

// Launch announces a successful launch of the named actor.
type Launch struct {
	Actor string
	Angle float64 // radians, 0 = right, π/2 = straight up
	Power float64
}

// Pop announces the first local processing of a pop for (actor, slot).
type Pop struct {
	Actor string
	Slot  int64
}

// PositionSample is a periodic position/velocity report for an airborne
// actor.
type PositionSample struct {
	Actor  string
	X, Y   float64
	VX, VY float64
}

// ScoreTable is the relay's authoritative per-actor pop count.
type ScoreTable struct {
	Scores map[string]int
}

// Snapshot is the late-joiner catch-up payload: every retired slot, the
// authoritative scores, and the full processed-key ledger. Applying it is
// idempotent.
type Snapshot struct {
	Popped    []int64
	Scores    map[string]int
	Processed []PopKey
}

// PopKey identifies one pop fact: a given actor intersected a given bubble.
type PopKey struct {
	Actor string
	Slot  int64
}

func (Launch) minigameMessage()         {}
func (Pop) minigameMessage()            {}
func (PositionSample) minigameMessage() {}
func (ScoreTable) minigameMessage()     {}
func (Snapshot) minigameMessage()       {}

// Sender delivers outbound messages to the relay. Implementations must not
// block; the engine calls Send from its tick.
type Sender interface {
	Send(Message)
}

// Callbacks notify the UI layer of engine state changes. Nil fields are
// skipped.
type Callbacks struct {
	ActorAdded      func(id string)
	ActorRemoved    func(id string)
	GroundedChanged func(id string, grounded bool)
	// Popped fires for local-actor pops only, with the new local score.
	Popped func(actor string, slot int64, score int)
}
