package main

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 20 // room ticks per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / 4 // state frames at 4Hz
	MiniScoreEvery = TickRate     // authoritative pop table at 1Hz
)

const maxAnswerLen = 120

// Broadcaster interface for sending messages to clients
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Room holds the state for one game room: the word-game match and the
// bubble-lounge minigame ledger shared by everyone in it.
type Room struct {
	mu      sync.RWMutex
	id      string
	name    string
	cfg     RoundConfig
	players map[string]*Player
	clients map[string]Broadcaster

	phase    Phase
	roundNum int
	round    *RoundState
	timer    float64 // seconds left in the current phase
	deck     *PromptDeck

	// Shared minigame session parameters. Every client derives identical
	// bubble spawns from seed+epoch; the arbiter settles scoring.
	seed    string
	epoch   time.Time
	arbiter *Arbiter

	tick       uint64
	running    bool
	stop       chan struct{}
	matchStart time.Time

	db        *DB
	analytics *Analytics
}

// NewRoom creates a room with a fresh minigame session
func NewRoom(id, name string, cfg RoundConfig, db *DB, analytics *Analytics) *Room {
	return &Room{
		id:        id,
		name:      name,
		cfg:       cfg,
		players:   make(map[string]*Player),
		clients:   make(map[string]Broadcaster),
		phase:     PhaseLobby,
		deck:      NewPromptDeck(),
		seed:      GenerateID(8),
		epoch:     time.Now(),
		arbiter:   NewArbiter(),
		stop:      make(chan struct{}),
		db:        db,
		analytics: analytics,
	}
}

// Run starts the room loop
func (r *Room) Run() {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.update()
		case <-r.stop:
			return
		}
	}
}

// Stop terminates the room loop
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.running = false
		close(r.stop)
	}
}

// AddPlayer adds a new player to the room. Returns nil when full.
func (r *Room) AddPlayer(name, avatar string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= r.cfg.MaxPlayers {
		return nil
	}
	p := NewPlayer(GenerateID(4), name, avatar)
	r.players[p.ID] = p
	return p
}

// RemovePlayer removes a player from the room
func (r *Room) RemovePlayer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
	delete(r.clients, id)
}

// SetClient associates a broadcaster with a player
func (r *Room) SetClient(playerID string, client Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[playerID] = client
}

// HasPlayer reports whether a player ID is in the room
func (r *Room) HasPlayer(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.players[id]
	return ok
}

// PlayerCount returns the number of players
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Seed returns the room's shared minigame seed
func (r *Room) Seed() string {
	return r.seed
}

// Epoch returns the room's minigame clock origin
func (r *Room) Epoch() time.Time {
	return r.epoch
}

// HandleReady toggles a player's lobby ready flag
func (r *Room) HandleReady(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerID]
	if !ok || r.phase != PhaseLobby {
		return
	}
	p.Ready = !p.Ready
}

// HandleAnswer records a player's answer during the answering phase
func (r *Room) HandleAnswer(playerID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerID]
	if !ok || r.phase != PhaseAnswering {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(text) > maxAnswerLen {
		text = text[:maxAnswerLen]
	}
	p.Answer = text
	p.Answered = true
	if r.analytics != nil {
		r.analytics.Track(EvtAnswer, p.AuthPlayerID, r.id, "")
	}
}

// HandleGuess records a guess at the current answer's author
func (r *Room) HandleGuess(playerID, authorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseGuessing || r.round == nil || r.round.Revealing {
		return
	}
	if _, ok := r.players[playerID]; !ok {
		return
	}
	if _, ok := r.players[authorID]; !ok {
		return
	}
	if playerID == r.round.CurrentAuthor() {
		return // authors sit their own answer out
	}
	r.round.Guesses[playerID] = authorID
}

// HandleRematch resets the match from the result screen
func (r *Room) HandleRematch(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseResult {
		return
	}
	if _, ok := r.players[playerID]; !ok {
		return
	}
	for _, p := range r.players {
		p.ResetMatch()
	}
	r.phase = PhaseLobby
	r.roundNum = 0
	r.round = nil
	r.deck = NewPromptDeck()
}

// update runs one room tick
func (r *Room) update() {
	r.mu.Lock()
	defer r.mu.Unlock()

	dt := 1.0 / float64(TickRate)
	r.tick++
	r.timer -= dt

	switch r.phase {
	case PhaseLobby:
		r.updateLobby()
	case PhasePrompt:
		if r.timer <= 0 {
			r.phase = PhaseAnswering
			r.timer = AnswerTime
		}
	case PhaseAnswering:
		if r.timer <= 0 || r.allAnswered() {
			r.beginGuessing()
		}
	case PhaseGuessing:
		r.updateGuessing()
	case PhaseRoundScore:
		if r.timer <= 0 {
			if r.roundNum < r.cfg.Rounds {
				r.phase = PhaseIntermission
				r.timer = IntermissionTime
			} else {
				r.finishMatch()
			}
		}
	case PhaseIntermission:
		if r.timer <= 0 {
			r.beginRound()
		}
	case PhaseResult:
		if r.timer <= 0 {
			// Nobody asked for a rematch; drop back to the lobby.
			for _, p := range r.players {
				p.ResetMatch()
			}
			r.phase = PhaseLobby
			r.roundNum = 0
			r.round = nil
		}
	}

	if r.tick%MiniScoreEvery == 0 {
		r.broadcastMiniScores()
	}
	if r.tick%uint64(BroadcastEvery) == 0 {
		r.broadcastState()
	}
}

// updateLobby starts the match once enough players are ready
func (r *Room) updateLobby() {
	if len(r.players) < MinPlayersToStart {
		return
	}
	for _, p := range r.players {
		if !p.Ready {
			return
		}
	}
	r.matchStart = time.Now()
	r.roundNum = 0
	if r.analytics != nil {
		r.analytics.Track(EvtMatchStart, 0, r.id, "")
	}
	r.beginRound()
}

// beginRound deals the next prompt
func (r *Room) beginRound() {
	r.roundNum++
	for _, p := range r.players {
		p.ResetRound()
	}
	r.round = NewRoundState(r.roundNum, r.deck.Draw())
	r.phase = PhasePrompt
	r.timer = PromptTime
	r.broadcastMsg(Envelope{T: MsgPrompt, Data: PromptMsg{
		Round:  r.roundNum,
		Rounds: r.cfg.Rounds,
		Text:   r.round.Prompt.Text,
	}})
	if r.analytics != nil {
		r.analytics.Track(EvtRoundStart, 0, r.id, r.round.Prompt.ID)
	}
}

// allAnswered reports whether every player submitted this round
func (r *Room) allAnswered() bool {
	for _, p := range r.players {
		if !p.Answered {
			return false
		}
	}
	return len(r.players) > 0
}

// beginGuessing shuffles the submitted answers and opens guessing on the
// first one. Rounds with fewer than two answers have nothing to guess.
func (r *Room) beginGuessing() {
	var authors []string
	for id, p := range r.players {
		if p.Answered {
			authors = append(authors, id)
		}
	}
	sort.Strings(authors) // stable base order before the shuffle
	if len(authors) < 2 {
		r.phase = PhaseRoundScore
		r.timer = RoundScoreTime
		return
	}

	r.round.Order = shuffleIDs(authors)
	r.round.Current = 0
	r.round.Guesses = make(map[string]string)
	r.phase = PhaseGuessing
	r.timer = GuessTime
	r.sendCurrentAnswer()
}

// sendCurrentAnswer broadcasts the anonymous answer now up for guessing
func (r *Room) sendCurrentAnswer() {
	author := r.players[r.round.CurrentAuthor()]
	if author == nil {
		return
	}
	r.broadcastMsg(Envelope{T: MsgAnswers, Data: AnswerEntry{
		Idx:  r.round.Current,
		Text: author.Answer,
	}})
}

// updateGuessing advances the guess/reveal cadence
func (r *Room) updateGuessing() {
	if r.round == nil {
		r.phase = PhaseRoundScore
		r.timer = RoundScoreTime
		return
	}
	if r.round.Revealing {
		if r.timer <= 0 {
			r.nextAnswer()
		}
		return
	}
	if r.timer <= 0 || r.allGuessed() {
		r.revealCurrent()
	}
}

// allGuessed reports whether every eligible player locked a guess
func (r *Room) allGuessed() bool {
	author := r.round.CurrentAuthor()
	eligible := 0
	for id := range r.players {
		if id != author {
			eligible++
		}
	}
	return eligible > 0 && len(r.round.Guesses) >= eligible
}

// revealCurrent scores the current answer and announces its author.
// Correct guessers earn a point each; the author earns one per guesser
// they fooled.
func (r *Room) revealCurrent() {
	authorID := r.round.CurrentAuthor()
	author := r.players[authorID]
	if author == nil {
		// Author left mid-round; nothing to score.
		r.nextAnswer()
		return
	}

	var correct []string
	for guesserID, guessed := range r.round.Guesses {
		g, ok := r.players[guesserID]
		if !ok {
			continue
		}
		if guessed == authorID {
			g.Score += PointsPerCorrectGuess
			g.CorrectGuesses++
			correct = append(correct, guesserID)
		} else {
			author.Score += PointsPerFooled
			author.Fooled++
		}
	}
	sort.Strings(correct)

	r.broadcastMsg(Envelope{T: MsgReveal, Data: RevealMsg{
		Idx:      r.round.Current,
		Text:     author.Answer,
		AuthorID: authorID,
		Correct:  correct,
	}})

	r.round.Revealing = true
	r.timer = RevealTime
}

// nextAnswer moves guessing to the next answer or closes the round
func (r *Room) nextAnswer() {
	r.round.Revealing = false
	r.round.Current++
	if r.round.Current >= len(r.round.Order) {
		r.phase = PhaseRoundScore
		r.timer = RoundScoreTime
		r.broadcastMsg(Envelope{T: MsgRoundEnd, Data: map[string]int{"round": r.roundNum}})
		return
	}
	r.round.Guesses = make(map[string]string)
	r.timer = GuessTime
	r.sendCurrentAnswer()
}

// finishMatch broadcasts standings and persists stats for signed-in players
func (r *Room) finishMatch() {
	standings := make([]ResultEntry, 0, len(r.players))
	for _, p := range r.players {
		standings = append(standings, ResultEntry{
			ID:     p.ID,
			Name:   p.Name,
			Score:  p.Score,
			Popped: r.arbiter.Score(p.ID),
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if standings[i].Popped != standings[j].Popped {
			return standings[i].Popped > standings[j].Popped
		}
		return standings[i].ID < standings[j].ID
	})
	r.broadcastMsg(Envelope{T: MsgResult, Data: standings})

	duration := time.Since(r.matchStart).Seconds()
	r.persistMatch(standings, duration)
	if r.analytics != nil {
		r.analytics.Track(EvtMatchEnd, 0, r.id, "")
	}

	r.phase = PhaseResult
	r.timer = ResultTime
}

// persistMatch records the match and per-player stats for authed players
func (r *Room) persistMatch(standings []ResultEntry, duration float64) {
	if r.db == nil || len(standings) == 0 {
		return
	}
	matchID, err := r.db.RecordMatch(r.cfg.Rounds, duration)
	if err != nil {
		return
	}
	winnerID := standings[0].ID
	for _, p := range r.players {
		if p.AuthPlayerID == 0 {
			continue
		}
		won := p.ID == winnerID
		popped := r.arbiter.Score(p.ID)
		xp := MatchXP(p.Score, popped, won)
		r.db.RecordMatchPlayer(matchID, p.AuthPlayerID, p.Score, popped, won)
		_, _, err := r.db.UpdateStatsAfterMatch(p.AuthPlayerID, p.CorrectGuesses, p.Fooled, popped, won, duration, xp)
		if err != nil {
			continue
		}
		unlocked := CheckAchievements(r.db, p.AuthPlayerID, p.Score, won)
		if len(unlocked) > 0 {
			if client, ok := r.clients[p.ID]; ok {
				client.SendJSON(Envelope{T: MsgUnlocked, Data: unlocked})
			}
		}
	}
}

// HandleMiniLaunch relays a launch to the rest of the room
func (r *Room) HandleMiniLaunch(playerID string, m MiniLaunchMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[playerID]; !ok {
		return
	}
	m.PID = playerID
	r.relayExcept(playerID, Envelope{T: MsgMiniLaunch, Data: m})
}

// HandleMiniPop settles a pop report through the arbiter and relays it.
// Duplicate reports still relay (retirement is idempotent on every client)
// but never score twice.
func (r *Room) HandleMiniPop(playerID string, m MiniPopMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerID]
	if !ok {
		return
	}
	first := r.arbiter.RecordPop(playerID, m.Slot)
	m.PID = playerID
	r.relayExcept(playerID, Envelope{T: MsgMiniPop, Data: m})
	if first && r.analytics != nil {
		r.analytics.Track(EvtBubblePop, p.AuthPlayerID, r.id, "")
	}
}

// HandleMiniPos relays an airborne position sample
func (r *Room) HandleMiniPos(playerID string, m MiniPosMsg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[playerID]; !ok {
		return
	}
	m.PID = playerID
	r.relayExcept(playerID, Envelope{T: MsgMiniPos, Data: m})
}

// HandleMiniSnap serves the full catch-up snapshot to one late joiner
func (r *Room) HandleMiniSnap(playerID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[playerID]
	if !ok {
		return
	}
	client.SendJSON(Envelope{T: MsgMiniFull, Data: r.arbiter.Snapshot()})
}

// broadcastMiniScores pushes the authoritative pop table to everyone
func (r *Room) broadcastMiniScores() {
	scores := r.arbiter.ScoreTable()
	if len(scores) == 0 {
		return
	}
	r.broadcastMsg(Envelope{T: MsgMiniScore, Data: MiniScoreMsg{Scores: scores}})
}

// relayExcept sends a message to every client except the origin
func (r *Room) relayExcept(originID string, msg Envelope) {
	for id, client := range r.clients {
		if id == originID {
			continue
		}
		client.SendJSON(msg)
	}
}

// broadcastState sends the msgpack room state frame to all clients
func (r *Room) broadcastState() {
	state := RoomState{
		Phase:    int(r.phase),
		Round:    r.roundNum,
		Rounds:   r.cfg.Rounds,
		TimeLeft: r.timer,
		Players:  make([]PlayerState, 0, len(r.players)),
		Tick:     r.tick,
	}
	for _, p := range r.players {
		state.Players = append(state.Players, p.ToState(r.arbiter.Score(p.ID)))
	}
	sort.Slice(state.Players, func(i, j int) bool {
		return state.Players[i].ID < state.Players[j].ID
	})

	data, err := msgpack.Marshal(state)
	if err != nil {
		return
	}
	for _, client := range r.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a message to all clients in the room
func (r *Room) broadcastMsg(msg Envelope) {
	for _, client := range r.clients {
		client.SendJSON(msg)
	}
}
