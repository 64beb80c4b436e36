package minigame

import (
	"testing"
	"time"
)

func isPop(m Message) bool { _, ok := m.(Pop); return ok }

func TestPopLocalDuplicate(t *testing.T) {
	e, out, _ := newTestEngine(Callbacks{})

	e.processPop("local", 7)
	e.processPop("local", 7)

	if got := e.Score("local"); got != 1 {
		t.Errorf("duplicate local pop scored %d times, want 1", got)
	}
	if n := out.count(isPop); n != 1 {
		t.Errorf("duplicate local pop emitted %d messages, want 1", n)
	}
}

func TestPopLocalThenRemote(t *testing.T) {
	e, out, _ := newTestEngine(Callbacks{})

	e.processPop("local", 7)
	// The relay echoes our own pop back.
	e.Handle(Pop{Actor: "local", Slot: 7})

	if got := e.Score("local"); got != 1 {
		t.Errorf("local-then-remote scored %d times, want 1", got)
	}
	if n := out.count(isPop); n != 1 {
		t.Errorf("echo triggered %d extra outbound pops", n-1)
	}
}

func TestPopRemoteThenRemote(t *testing.T) {
	e, out, _ := newTestEngine(Callbacks{})
	cfg := e.cfg
	e.world.SpawnBubble(9, ParamsFor(cfg, "test-seed", 9))

	e.Handle(Pop{Actor: "remote", Slot: 9})
	e.Handle(Pop{Actor: "remote", Slot: 9})

	if e.world.Bubble(9) != nil {
		t.Error("remote pop should retire the bubble")
	}
	if got := e.Score("remote"); got != 0 {
		t.Errorf("remote pops must not touch local score ledger, got %d", got)
	}
	if n := out.count(isPop); n != 0 {
		t.Errorf("remote pop relayed %d outbound messages, want 0", n)
	}
}

func TestPopCallbackCarriesScore(t *testing.T) {
	var gotSlot int64
	var gotScore int
	e, _, _ := newTestEngine(Callbacks{
		Popped: func(actor string, slot int64, score int) {
			gotSlot, gotScore = slot, score
		},
	})

	e.processPop("local", 3)
	if gotSlot != 3 || gotScore != 1 {
		t.Errorf("pop callback got slot=%d score=%d", gotSlot, gotScore)
	}
	e.processPop("local", 4)
	if gotScore != 2 {
		t.Errorf("second pop callback score=%d, want 2", gotScore)
	}
}

func TestScoreMergeLocalMonotonic(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	e.processPop("local", 1)
	e.processPop("local", 2)
	e.processPop("local", 3)

	// A stale authoritative echo must not roll local prediction back.
	e.Handle(ScoreTable{Scores: map[string]int{"local": 1}})
	if got := e.Score("local"); got != 3 {
		t.Errorf("stale score table regressed local score to %d", got)
	}

	// A later, larger value is accepted.
	e.Handle(ScoreTable{Scores: map[string]int{"local": 5}})
	if got := e.Score("local"); got != 5 {
		t.Errorf("larger score table not accepted, got %d", got)
	}
}

func TestScoreMergeRemoteOverwrites(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})

	e.Handle(ScoreTable{Scores: map[string]int{"remote": 4}})
	if got := e.Score("remote"); got != 4 {
		t.Errorf("remote score = %d, want 4", got)
	}
	// Remote actors have no local prediction to protect: decreases apply.
	e.Handle(ScoreTable{Scores: map[string]int{"remote": 2}})
	if got := e.Score("remote"); got != 2 {
		t.Errorf("remote score = %d, want 2 after overwrite", got)
	}
}

func TestScoreMergeUnknownActorIgnored(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	e.Handle(ScoreTable{Scores: map[string]int{"ghost": 10}})
	// No panic, no state: the ghost never joined this engine.
	if got := e.Score("ghost"); got != 0 {
		t.Errorf("ghost actor scored %d", got)
	}
}

func TestPositionHardSnap(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	a := e.world.Actor("remote")
	a.X, a.Y = 100, 100
	a.VX, a.VY = 0, 0

	e.Handle(PositionSample{Actor: "remote", X: 400, Y: 400, VX: 33, VY: -21})
	if a.X != 400 || a.Y != 400 || a.VX != 33 || a.VY != -21 {
		t.Errorf("expected exact snap, got (%f,%f) v(%f,%f)", a.X, a.Y, a.VX, a.VY)
	}
}

func TestPositionSoftBlend(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	a := e.world.Actor("remote")
	a.X, a.Y = 100, 100
	a.VX, a.VY = 0, 0

	// Gap of 50px: above the dead zone, below the hard snap threshold.
	e.Handle(PositionSample{Actor: "remote", X: 150, Y: 100, VX: 10, VY: 0})
	if a.X <= 100 || a.X >= 150 {
		t.Errorf("blended x=%f should lie strictly between 100 and 150", a.X)
	}
	want := 100 + 50*e.cfg.PosBlend
	if a.X != want {
		t.Errorf("blended x=%f, want %f", a.X, want)
	}
	if wantV := 10 * e.cfg.VelBlend; a.VX != wantV {
		t.Errorf("blended vx=%f, want %f", a.VX, wantV)
	}
}

func TestPositionDeadZoneIgnored(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	a := e.world.Actor("remote")
	a.X, a.Y = 100, 100
	a.VX, a.VY = 5, 5

	e.Handle(PositionSample{Actor: "remote", X: 103, Y: 100, VX: 0, VY: 0})
	if a.X != 100 || a.Y != 100 || a.VX != 5 || a.VY != 5 {
		t.Error("sample inside dead zone must not change state")
	}
}

func TestPositionLocalActorNeverCorrected(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	a := e.world.Actor("local")
	x, y := a.X, a.Y

	e.Handle(PositionSample{Actor: "local", X: x + 500, Y: y - 500})
	if a.X != x || a.Y != y {
		t.Error("local actor corrected by a remote sample")
	}
}

func TestRemoteLaunchBypassesGate(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	a := e.world.Actor("remote")
	a.Y = e.cfg.Height / 2 // airborne by any assessment

	e.Handle(Launch{Actor: "remote", Angle: 0, Power: 300})
	if a.VX != 300 {
		t.Errorf("remote launch not applied, vx=%f", a.VX)
	}
}

func TestRemoteLaunchUnknownActorIgnored(t *testing.T) {
	e, _, _ := newTestEngine(Callbacks{})
	e.Handle(Launch{Actor: "ghost", Angle: 0, Power: 300})
	// Nothing to assert beyond "did not panic": add/remove races with
	// relayed traffic and unknown references are dropped.
}

func TestSnapshotApply(t *testing.T) {
	e, out, clk := newTestEngine(Callbacks{})
	snap := Snapshot{
		Popped: []int64{1, 2},
		Scores: map[string]int{"local": 2, "remote": 7},
		Processed: []PopKey{
			{Actor: "local", Slot: 1},
			{Actor: "remote", Slot: 2},
		},
	}
	e.Handle(snap)

	if got := e.Score("local"); got != 2 {
		t.Errorf("local score after snapshot = %d", got)
	}
	if got := e.Score("remote"); got != 7 {
		t.Errorf("remote score after snapshot = %d", got)
	}

	// Individual events subsumed by the snapshot are silent no-ops.
	e.Handle(Pop{Actor: "local", Slot: 1})
	if got := e.Score("local"); got != 2 {
		t.Errorf("subsumed pop re-scored, score=%d", got)
	}
	if n := out.count(isPop); n != 0 {
		t.Errorf("subsumed pop went outbound %d times", n)
	}

	// Applying the snapshot twice matches applying it once.
	e.Handle(snap)
	if e.Score("local") != 2 || e.Score("remote") != 7 {
		t.Error("snapshot apply is not idempotent")
	}

	// Retired slots from the snapshot never respawn.
	clk.advance(4100 * time.Millisecond)
	e.Tick()
	if e.world.Bubble(1) != nil || e.world.Bubble(2) != nil {
		t.Error("snapshot-retired slot respawned")
	}
}

func TestHandleBeforeInitQueued(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	e := NewEngine(DefaultConfig(), &captureSender{}, Callbacks{}, clk.Now)

	e.AddActor("me", true)
	e.Handle(ScoreTable{Scores: map[string]int{"me": 3}})

	e.Init("seed", clk.now, "me")
	if got := e.Score("me"); got != 3 {
		t.Errorf("queued message not replayed after init, score=%d", got)
	}
}
