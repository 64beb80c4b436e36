package main

import (
	"sort"

	"github.com/peterlowrance/who-said-dis/minigame"
)

// Arbiter is the room's authoritative minigame ledger. Clients simulate
// and score locally; the arbiter decides which pop reports count. The
// first report of each slot wins it; resends and rival claims for an
// already-settled bubble are absorbed without effect.
//
// Arbiter methods are called from the room's tick loop and from inbound
// message handlers under the room mutex; it has no locking of its own.
type Arbiter struct {
	seen    map[minigame.PopKey]struct{}
	retired map[int64]struct{}
	scores  map[string]int
}

// NewArbiter creates an empty ledger
func NewArbiter() *Arbiter {
	return &Arbiter{
		seen:    make(map[minigame.PopKey]struct{}),
		retired: make(map[int64]struct{}),
		scores:  make(map[string]int),
	}
}

// RecordPop registers a pop report. Returns true if the report counted:
// the (player, slot) pair is new and nobody claimed the slot first. A
// second player racing for the same bubble gets their claim remembered
// but no point.
func (ar *Arbiter) RecordPop(playerID string, slot int64) bool {
	key := minigame.PopKey{Actor: playerID, Slot: slot}
	if _, dup := ar.seen[key]; dup {
		return false
	}
	ar.seen[key] = struct{}{}
	if _, taken := ar.retired[slot]; taken {
		return false
	}
	ar.retired[slot] = struct{}{}
	ar.scores[playerID]++
	return true
}

// Score returns the authoritative pop count for a player
func (ar *Arbiter) Score(playerID string) int {
	return ar.scores[playerID]
}

// ScoreTable returns a copy of the authoritative score table
func (ar *Arbiter) ScoreTable() map[string]int {
	out := make(map[string]int, len(ar.scores))
	for id, v := range ar.scores {
		out[id] = v
	}
	return out
}

// Snapshot builds the full catch-up payload for a late joiner. Slot and
// key lists are sorted so the payload is stable for tests and logs.
func (ar *Arbiter) Snapshot() MiniSnapshotMsg {
	popped := make([]int64, 0, len(ar.retired))
	for slot := range ar.retired {
		popped = append(popped, slot)
	}
	sort.Slice(popped, func(i, j int) bool { return popped[i] < popped[j] })

	keys := make([]MiniKey, 0, len(ar.seen))
	for k := range ar.seen {
		keys = append(keys, MiniKey{PID: k.Actor, Slot: k.Slot})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PID != keys[j].PID {
			return keys[i].PID < keys[j].PID
		}
		return keys[i].Slot < keys[j].Slot
	})

	return MiniSnapshotMsg{
		Popped: popped,
		Scores: ar.ScoreTable(),
		Keys:   keys,
	}
}
