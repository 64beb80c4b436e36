package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgCreate   = "create" // create room
	MsgList     = "list"   // list rooms
	MsgCheck    = "check"  // check if room exists
	MsgReady    = "ready"
	MsgAnswer   = "answer" // submit round answer
	MsgGuess    = "guess"  // guess an answer's author
	MsgRematch  = "rematch"
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // token-based resume
	MsgProfile  = "profile"

	// Minigame (bubble lounge) traffic, relayed between room members
	MsgMiniLaunch = "mg_launch"
	MsgMiniPop    = "mg_pop"
	MsgMiniPos    = "mg_pos"
	MsgMiniSnap   = "mg_snap" // late-joiner snapshot request
)

// Server -> Client message types
const (
	MsgState     = "state" // msgpack binary room state
	MsgWelcome   = "welcome"
	MsgRooms     = "rooms"
	MsgJoined    = "joined"
	MsgCreated   = "created" // room created, client should navigate
	MsgError     = "error"
	MsgChecked   = "checked"
	MsgPrompt    = "prompt"
	MsgAnswers   = "answers" // shuffled answers for the guessing phase
	MsgReveal    = "reveal"  // one answer's author revealed
	MsgRoundEnd  = "round_end"
	MsgResult    = "result"
	MsgAuthOK    = "auth_ok"
	MsgAuthErr   = "auth_err"
	MsgProfileD  = "profile_data"
	MsgUnlocked  = "unlocked" // achievement unlocked
	MsgMiniScore = "mg_score" // authoritative pop score table
	MsgMiniFull  = "mg_full"  // full minigame snapshot
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// JoinMsg is sent when a player wants to join a room
type JoinMsg struct {
	Name   string `json:"name"`
	RoomID string `json:"rid"`
	Avatar string `json:"av,omitempty"` // avatar seed; generated when empty
}

// CreateMsg is sent when a player wants to create a room
type CreateMsg struct {
	Name     string `json:"name"`
	RoomName string `json:"rname"`
	Rounds   int    `json:"rounds,omitempty"`
}

// CheckMsg is sent by a client to check if a room exists
type CheckMsg struct {
	RID string `json:"rid"`
}

// CheckedMsg is the response to a room check
type CheckedMsg struct {
	RID     string `json:"rid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}

// WelcomeMsg is sent to a player when they join. Seed and Epoch are the
// shared minigame synchronization parameters every client in the room
// derives its bubble spawns from.
type WelcomeMsg struct {
	ID     string `json:"id"`
	Avatar string `json:"av"`
	Seed   string `json:"seed"`
	Epoch  int64  `json:"epoch"` // unix millis of the room clock origin
}

// AnswerMsg carries a player's submitted answer
type AnswerMsg struct {
	Text string `json:"text"`
}

// GuessMsg carries a guess at the current answer's author
type GuessMsg struct {
	AuthorID string `json:"aid"`
}

// PromptMsg announces the round prompt
type PromptMsg struct {
	Round  int    `json:"round"`
	Rounds int    `json:"rounds"`
	Text   string `json:"text"`
}

// AnswerEntry is one anonymous answer shown during guessing
type AnswerEntry struct {
	Idx  int    `json:"i"`
	Text string `json:"text"`
}

// RevealMsg exposes the author of one answer plus who guessed right
type RevealMsg struct {
	Idx      int      `json:"i"`
	Text     string   `json:"text"`
	AuthorID string   `json:"aid"`
	Correct  []string `json:"correct"` // player IDs that guessed right
}

// PlayerState is broadcast per player in the room state frame
type PlayerState struct {
	ID       string `msgpack:"id" json:"id"`
	Name     string `msgpack:"n" json:"n"`
	Avatar   string `msgpack:"av" json:"av"`
	Score    int    `msgpack:"sc" json:"sc"`
	Popped   int    `msgpack:"pp" json:"pp"` // authoritative bubble pops
	Ready    bool   `msgpack:"rd" json:"rd"`
	Answered bool   `msgpack:"an" json:"an"`
}

// RoomState is the periodic full state broadcast, msgpack-encoded over a
// binary frame
type RoomState struct {
	Phase    int           `msgpack:"ph"`
	Round    int           `msgpack:"rn"`
	Rounds   int           `msgpack:"rs"`
	TimeLeft float64       `msgpack:"tl"`
	Players  []PlayerState `msgpack:"p"`
	Tick     uint64        `msgpack:"tick"`
}

// RoomInfo is used in the room list
type RoomInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// MiniLaunchMsg relays a launch. PID is filled in by the server on the way
// out so clients cannot speak for each other.
type MiniLaunchMsg struct {
	PID   string  `json:"pid,omitempty"`
	Angle float64 `json:"a"`
	Power float64 `json:"p"`
}

// MiniPopMsg relays a bubble pop report
type MiniPopMsg struct {
	PID  string `json:"pid,omitempty"`
	Slot int64  `json:"slot"`
}

// MiniPosMsg relays an airborne position sample
type MiniPosMsg struct {
	PID string  `json:"pid,omitempty"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	VX  float64 `json:"vx"`
	VY  float64 `json:"vy"`
}

// MiniScoreMsg is the periodic authoritative pop count table
type MiniScoreMsg struct {
	Scores map[string]int `json:"scores"`
}

// MiniKey is one processed (player, slot) pop fact
type MiniKey struct {
	PID  string `json:"pid"`
	Slot int64  `json:"slot"`
}

// MiniSnapshotMsg is the late-joiner catch-up payload
type MiniSnapshotMsg struct {
	Popped []int64        `json:"popped"`
	Scores map[string]int `json:"scores"`
	Keys   []MiniKey      `json:"keys"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates by password
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg authenticates by a previously issued token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"u"`
	Token    string `json:"tok,omitempty"`
}

// ProfileMsg returns the authenticated player's persistent profile
type ProfileMsg struct {
	Username     string   `json:"u"`
	Level        int      `json:"lvl"`
	XP           int      `json:"xp"`
	Games        int      `json:"games"`
	Wins         int      `json:"wins"`
	Guessed      int      `json:"guessed"`
	Fooled       int      `json:"fooled"`
	Popped       int      `json:"popped"`
	Achievements []string `json:"ach"`
}

// ResultEntry is one row of the final standings
type ResultEntry struct {
	ID     string `json:"id"`
	Name   string `json:"n"`
	Score  int    `json:"sc"`
	Popped int    `json:"pp"`
}
