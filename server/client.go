package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 8192
	sendBufSize       = 256
	maxMessagesPerSec = 60
	maxNameLen        = 16
	maxRoomNameLen    = 30
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	playerID   string
	sessionID  string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authPlayerID int64  // 0 = unauthenticated/guest
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgLeave:
		c.handleLeave()
	case MsgReady:
		c.handleReady()
	case MsgAnswer:
		c.handleAnswer(env.D)
	case MsgGuess:
		c.handleGuess(env.D)
	case MsgRematch:
		c.handleRematch()
	case MsgMiniLaunch:
		c.handleMiniLaunch(env.D)
	case MsgMiniPop:
		c.handleMiniPop(env.D)
	case MsgMiniPos:
		c.handleMiniPos(env.D)
	case MsgMiniSnap:
		c.handleMiniSnap()
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	}
}

func (c *Client) handleList() {
	c.SendJSON(Envelope{T: MsgRooms, Data: c.hub.sessions.ListSessions()})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	rname := msg.RoomName
	if rname == "" {
		rname = "Party Room"
	}
	if len(rname) > maxRoomNameLen {
		rname = rname[:maxRoomNameLen]
	}

	cfg := DefaultRoundConfig()
	if msg.Rounds >= MinRounds && msg.Rounds <= MaxRounds {
		cfg.Rounds = msg.Rounds
	}
	sess := c.hub.sessions.CreateSession(rname, cfg, c.hub.db, c.hub.analytics)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "too many active rooms"}})
		return
	}

	c.hub.sessions.MarkActive(sess.ID)
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"rid": sess.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := msg.Name
	if name == "" {
		name = GenerateGuestName()
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	sess := c.hub.sessions.GetSession(msg.RoomID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "room not found"}})
		return
	}

	player := sess.Room.AddPlayer(name, msg.Avatar)
	if player == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "room full"}})
		return
	}
	c.hub.sessions.MarkActive(sess.ID)
	c.playerID = player.ID
	c.sessionID = sess.ID
	player.AuthPlayerID = c.authPlayerID

	sess.Room.SetClient(player.ID, c)

	c.SendJSON(Envelope{T: MsgJoined, Data: map[string]string{"rid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
		ID:     player.ID,
		Avatar: player.Avatar,
		Seed:   sess.Room.Seed(),
		Epoch:  sess.Room.Epoch().UnixMilli(),
	}})
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.RID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{RID: msg.RID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		RID:     msg.RID,
		Exists:  true,
		Name:    sess.Name,
		Players: sess.Room.PlayerCount(),
	}})
}

func (c *Client) handleLeave() {
	if c.sessionID != "" {
		c.hub.sessions.RemovePlayer(c.sessionID, c.playerID)
		c.sessionID = ""
		c.playerID = ""
	}
}

// room returns the client's current room, or nil
func (c *Client) room() *Room {
	if c.sessionID == "" || c.playerID == "" {
		return nil
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil {
		return nil
	}
	return sess.Room
}

func (c *Client) handleReady() {
	if room := c.room(); room != nil {
		room.HandleReady(c.playerID)
	}
}

func (c *Client) handleAnswer(data json.RawMessage) {
	var msg AnswerMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if room := c.room(); room != nil {
		room.HandleAnswer(c.playerID, msg.Text)
	}
}

func (c *Client) handleGuess(data json.RawMessage) {
	var msg GuessMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if room := c.room(); room != nil {
		room.HandleGuess(c.playerID, msg.AuthorID)
	}
}

func (c *Client) handleRematch() {
	if room := c.room(); room != nil {
		room.HandleRematch(c.playerID)
	}
}

func (c *Client) handleMiniLaunch(data json.RawMessage) {
	var msg MiniLaunchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if room := c.room(); room != nil {
		room.HandleMiniLaunch(c.playerID, msg)
	}
}

func (c *Client) handleMiniPop(data json.RawMessage) {
	var msg MiniPopMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if room := c.room(); room != nil {
		room.HandleMiniPop(c.playerID, msg)
	}
}

func (c *Client) handleMiniPos(data json.RawMessage) {
	var msg MiniPosMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if room := c.room(); room != nil {
		room.HandleMiniPos(c.playerID, msg)
	}
}

func (c *Client) handleMiniSnap() {
	if room := c.room(); room != nil {
		room.HandleMiniSnap(c.playerID)
	}
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil || c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgAuthErr, Data: ErrorMsg{Msg: "accounts disabled"}})
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgAuthErr, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.finishAuth(id, msg.Username, token)
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil || c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgAuthErr, Data: ErrorMsg{Msg: "accounts disabled"}})
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgAuthErr, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.finishAuth(id, msg.Username, token)
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgAuthErr, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	c.finishAuth(id, username, "")
}

func (c *Client) finishAuth(id int64, username, token string) {
	c.authPlayerID = id
	c.authUsername = username
	c.hub.SetOnline(id, c)
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtLogin, id, "", "")
	}
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{PlayerID: id, Username: username, Token: token}})
}

func (c *Client) handleProfile() {
	if c.authPlayerID == 0 || c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not signed in"}})
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile unavailable"}})
		return
	}
	achievements, _ := c.hub.db.GetAchievements(c.authPlayerID)
	c.SendJSON(Envelope{T: MsgProfileD, Data: ProfileMsg{
		Username:     c.authUsername,
		Level:        stats.Level,
		XP:           stats.XP,
		Games:        stats.Games,
		Wins:         stats.Wins,
		Guessed:      stats.CorrectGuesses,
		Fooled:       stats.Fooled,
		Popped:       stats.BubblesPopped,
		Achievements: achievements,
	}})
}
