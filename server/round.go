package main

// Phase represents the lifecycle of a match inside a room
type Phase int

const (
	PhaseLobby        Phase = 0
	PhasePrompt       Phase = 1 // prompt on screen, answers not yet open
	PhaseAnswering    Phase = 2
	PhaseGuessing     Phase = 3 // one anonymous answer at a time
	PhaseRoundScore   Phase = 4
	PhaseIntermission Phase = 5 // bubble lounge between rounds
	PhaseResult       Phase = 6
)

// Round timing, in seconds
const (
	PromptTime       = 4.0
	AnswerTime       = 45.0
	GuessTime        = 20.0 // per answer
	RevealTime       = 4.0  // pause after each reveal
	RoundScoreTime   = 6.0
	IntermissionTime = 20.0
	ResultTime       = 30.0 // room returns to lobby if nobody rematches
)

// Scoring
const (
	PointsPerCorrectGuess = 1 // guesser nailed the author
	PointsPerFooled       = 1 // author, per guesser who got it wrong
	DefaultRounds         = 5
	MinRounds             = 1
	MaxRounds             = 10
	MinPlayersToStart     = 2
)

// RoundConfig holds per-match settings
type RoundConfig struct {
	Rounds     int
	MaxPlayers int
}

// DefaultRoundConfig returns the standard match settings
func DefaultRoundConfig() RoundConfig {
	return RoundConfig{
		Rounds:     DefaultRounds,
		MaxPlayers: 12,
	}
}

// RoundState tracks one round in flight
type RoundState struct {
	Number    int
	Prompt    Prompt
	Order     []string // shuffled answer author order for the guessing phase
	Current   int      // index into Order currently being guessed
	Revealing bool     // author of the current answer is on screen
	Guesses   map[string]string // guesser ID -> guessed author ID, this answer
}

// NewRoundState starts round n with the given prompt
func NewRoundState(n int, prompt Prompt) *RoundState {
	return &RoundState{
		Number:  n,
		Prompt:  prompt,
		Guesses: make(map[string]string),
	}
}

// CurrentAuthor returns the author whose answer is on screen, or ""
func (r *RoundState) CurrentAuthor() string {
	if r.Current < 0 || r.Current >= len(r.Order) {
		return ""
	}
	return r.Order[r.Current]
}

// shuffleIDs returns the IDs in random order
func shuffleIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := int(randFloat() * float64(i+1))
		if j > i {
			j = i
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}
