package main

import (
	"sync"
	"time"
)

const maxRooms = 100

// RoomIdleTimeout is how long an empty room survives before the janitor
// collects it. A variable so tests can shorten it.
var RoomIdleTimeout = 5 * time.Minute

// Session represents a joinable room
type Session struct {
	ID         string
	Name       string
	Room       *Room
	lastActive time.Time
}

// SessionManager handles creation and lookup of rooms
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a new SessionManager and starts its janitor
func NewSessionManager() *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*Session),
	}
	go sm.janitor()
	return sm
}

// CreateSession creates a new room. Returns nil if the limit is reached.
func (sm *SessionManager) CreateSession(name string, cfg RoundConfig, db *DB, analytics *Analytics) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxRooms {
		return nil
	}

	id := GenerateUUID()
	room := NewRoom(id, name, cfg, db, analytics)
	sess := &Session{
		ID:         id,
		Name:       name,
		Room:       room,
		lastActive: time.Now(),
	}
	sm.sessions[id] = sess
	go room.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive refreshes a session's idle clock
func (sm *SessionManager) MarkActive(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sess, ok := sm.sessions[id]; ok {
		sess.lastActive = time.Now()
	}
}

// RemovePlayer removes a player from a room and collects the room if it
// just became empty.
func (sm *SessionManager) RemovePlayer(sessionID, playerID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Room.RemovePlayer(playerID)

	if sess.Room.PlayerCount() == 0 {
		sess.Room.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active rooms
func (sm *SessionManager) ListSessions() []RoomInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]RoomInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, RoomInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Players: sess.Room.PlayerCount(),
		})
	}
	return list
}

// SessionCount returns the number of live rooms
func (sm *SessionManager) SessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// janitor collects rooms that sat empty past the idle timeout
func (sm *SessionManager) janitor() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-RoomIdleTimeout)
		sm.mu.Lock()
		for id, sess := range sm.sessions {
			if sess.Room.PlayerCount() == 0 && sess.lastActive.Before(cutoff) {
				sess.Room.Stop()
				delete(sm.sessions, id)
			}
		}
		sm.mu.Unlock()
	}
}
