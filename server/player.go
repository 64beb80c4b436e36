package main

// Player represents a player in a room
type Player struct {
	ID     string
	Name   string
	Avatar string // avatar seed string, rendered client-side
	Score  int    // word-game points
	Ready  bool

	// Per-round state, cleared on each prompt
	Answer   string
	Answered bool

	// Session totals for persistence
	CorrectGuesses int
	Fooled         int // guessers this player's answers fooled

	AuthPlayerID int64 // 0 = guest
}

// NewPlayer creates a player with a fresh in-room ID
func NewPlayer(id, name, avatar string) *Player {
	if avatar == "" {
		avatar = GenerateID(4)
	}
	return &Player{
		ID:     id,
		Name:   name,
		Avatar: avatar,
	}
}

// ResetRound clears per-round answer state
func (p *Player) ResetRound() {
	p.Answer = ""
	p.Answered = false
}

// ResetMatch clears everything accumulated during a match, for rematch
func (p *Player) ResetMatch() {
	p.ResetRound()
	p.Score = 0
	p.Ready = false
	p.CorrectGuesses = 0
	p.Fooled = 0
}

// ToState converts to protocol state. The authoritative pop count comes
// from the room's arbiter, not the player record.
func (p *Player) ToState(popped int) PlayerState {
	return PlayerState{
		ID:       p.ID,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Score:    p.Score,
		Popped:   popped,
		Ready:    p.Ready,
		Answered: p.Answered,
	}
}
