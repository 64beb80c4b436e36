package main

import "testing"

func TestArbiterFirstReportWins(t *testing.T) {
	ar := NewArbiter()

	if !ar.RecordPop("alice", 4) {
		t.Fatal("first report should count")
	}
	if ar.RecordPop("alice", 4) {
		t.Error("resend of the same report must not count")
	}
	if ar.RecordPop("bob", 4) {
		t.Error("rival claim for a settled slot must not count")
	}

	if ar.Score("alice") != 1 {
		t.Errorf("alice score = %d, want 1", ar.Score("alice"))
	}
	if ar.Score("bob") != 0 {
		t.Errorf("bob score = %d, want 0", ar.Score("bob"))
	}
}

func TestArbiterSeparateSlots(t *testing.T) {
	ar := NewArbiter()
	ar.RecordPop("alice", 1)
	ar.RecordPop("alice", 2)
	ar.RecordPop("bob", 3)

	if ar.Score("alice") != 2 {
		t.Errorf("alice score = %d, want 2", ar.Score("alice"))
	}
	if ar.Score("bob") != 1 {
		t.Errorf("bob score = %d, want 1", ar.Score("bob"))
	}
}

func TestArbiterScoreTableIsCopy(t *testing.T) {
	ar := NewArbiter()
	ar.RecordPop("alice", 1)

	table := ar.ScoreTable()
	table["alice"] = 99

	if ar.Score("alice") != 1 {
		t.Error("mutating a returned table must not touch the ledger")
	}
}

func TestArbiterSnapshot(t *testing.T) {
	ar := NewArbiter()
	ar.RecordPop("bob", 9)
	ar.RecordPop("alice", 2)
	ar.RecordPop("alice", 9) // losing claim, remembered but unscored

	snap := ar.Snapshot()

	if len(snap.Popped) != 2 || snap.Popped[0] != 2 || snap.Popped[1] != 9 {
		t.Errorf("snapshot popped = %v, want sorted [2 9]", snap.Popped)
	}
	if snap.Scores["alice"] != 1 || snap.Scores["bob"] != 1 {
		t.Errorf("snapshot scores = %v", snap.Scores)
	}
	// All three claims appear so clients can dedup individual pop echoes.
	if len(snap.Keys) != 3 {
		t.Fatalf("snapshot keys = %d, want 3", len(snap.Keys))
	}
	if snap.Keys[0].PID != "alice" || snap.Keys[0].Slot != 2 {
		t.Errorf("snapshot keys not sorted: %+v", snap.Keys)
	}
}

func TestArbiterSnapshotEmpty(t *testing.T) {
	ar := NewArbiter()
	snap := ar.Snapshot()
	if len(snap.Popped) != 0 || len(snap.Keys) != 0 || len(snap.Scores) != 0 {
		t.Errorf("empty ledger should produce an empty snapshot: %+v", snap)
	}
}
