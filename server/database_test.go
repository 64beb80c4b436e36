package main

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestXPCurve(t *testing.T) {
	if XPForLevel(1) != 0 {
		t.Errorf("XPForLevel(1) = %d, want 0", XPForLevel(1))
	}
	if XPForLevel(2) != 100 {
		t.Errorf("XPForLevel(2) = %d, want 100", XPForLevel(2))
	}
	if XPForLevel(3) <= XPForLevel(2) {
		t.Error("XP requirements must increase per level")
	}
	if XPToNextLevel(1) != 100 {
		t.Errorf("XPToNextLevel(1) = %d, want 100", XPToNextLevel(1))
	}
}

func TestCalculateLevel(t *testing.T) {
	if lvl := CalculateLevel(0); lvl != 1 {
		t.Errorf("CalculateLevel(0) = %d, want 1", lvl)
	}
	if lvl := CalculateLevel(100); lvl != 2 {
		t.Errorf("CalculateLevel(100) = %d, want 2", lvl)
	}
	if lvl := CalculateLevel(99); lvl != 1 {
		t.Errorf("CalculateLevel(99) = %d, want 1", lvl)
	}
	if lvl := CalculateLevel(1 << 60); lvl != 100 {
		t.Errorf("level should cap at 100, got %d", lvl)
	}
}

func TestMatchXP(t *testing.T) {
	base := MatchXP(0, 0, false)
	if base <= 0 {
		t.Error("even a losing match should pay some XP")
	}
	if MatchXP(3, 0, false) <= base {
		t.Error("word-game points should pay XP")
	}
	if MatchXP(0, 10, false) <= base {
		t.Error("pops should pay XP")
	}
	if MatchXP(0, 0, true) <= base {
		t.Error("winning should pay a bonus")
	}
}

func TestCreatePlayerAndStats(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreatePlayer("alice", "hash")
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}

	p, err := db.GetPlayerByUsername("alice")
	if err != nil || p == nil {
		t.Fatalf("GetPlayerByUsername: %v %v", p, err)
	}
	if p.ID != id || p.PassHash != "hash" {
		t.Errorf("player row = %+v", p)
	}

	stats, err := db.GetStats(id)
	if err != nil || stats == nil {
		t.Fatalf("GetStats: %v %v", stats, err)
	}
	if stats.Level != 1 || stats.Games != 0 {
		t.Errorf("fresh stats = %+v", stats)
	}

	exists, _ := db.UsernameExists("alice")
	if !exists {
		t.Error("UsernameExists should find alice")
	}
	exists, _ = db.UsernameExists("nobody")
	if exists {
		t.Error("UsernameExists should not find nobody")
	}
}

func TestGetPlayerMissing(t *testing.T) {
	db := openTestDB(t)
	p, err := db.GetPlayerByUsername("ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("unknown username should return nil, nil")
	}
}

func TestUpdateStatsAfterMatch(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("bob", "h")

	totalXP, level, err := db.UpdateStatsAfterMatch(id, 2, 1, 6, true, 300, 120)
	if err != nil {
		t.Fatalf("UpdateStatsAfterMatch: %v", err)
	}
	if totalXP != 120 {
		t.Errorf("totalXP = %d, want 120", totalXP)
	}
	if level != 2 {
		t.Errorf("level = %d, want 2 at 120 XP", level)
	}

	stats, _ := db.GetStats(id)
	if stats.Games != 1 || stats.Wins != 1 {
		t.Errorf("games/wins = %d/%d, want 1/1", stats.Games, stats.Wins)
	}
	if stats.CorrectGuesses != 2 || stats.Fooled != 1 || stats.BubblesPopped != 6 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Playtime != 300 {
		t.Errorf("playtime = %v, want 300", stats.Playtime)
	}
}

func TestRecordMatchAndHistory(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("carol", "h")

	matchID, err := db.RecordMatch(5, 420)
	if err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	if err := db.RecordMatchPlayer(matchID, id, 4, 11, true); err != nil {
		t.Fatalf("RecordMatchPlayer: %v", err)
	}

	hist, err := db.GetMatchHistory(id, 10)
	if err != nil {
		t.Fatalf("GetMatchHistory: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("history entries = %d, want 1", len(hist))
	}
	if hist[0].Score != 4 || hist[0].Popped != 11 || !hist[0].Won {
		t.Errorf("history entry = %+v", hist[0])
	}
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("dave", "h")

	first, err := db.UnlockAchievement(id, "first_pop")
	if err != nil || !first {
		t.Fatalf("first unlock: %v %v", first, err)
	}
	again, err := db.UnlockAchievement(id, "first_pop")
	if err != nil {
		t.Fatalf("second unlock: %v", err)
	}
	if again {
		t.Error("re-unlock should report false")
	}

	list, _ := db.GetAchievements(id)
	if len(list) != 1 || list[0] != "first_pop" {
		t.Errorf("achievements = %v", list)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetSetting("missing")
	if err != nil || v != "" {
		t.Fatalf("missing setting = %q, %v", v, err)
	}

	if err := db.SetSetting("jwt_secret", "aabb"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := db.SetSetting("jwt_secret", "ccdd"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	v, _ = db.GetSetting("jwt_secret")
	if v != "ccdd" {
		t.Errorf("setting = %q, want ccdd", v)
	}
}

func TestCheckAchievementsFromStats(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreatePlayer("eve", "h")

	// One correct guess and a pop on record.
	db.UpdateStatsAfterMatch(id, 1, 0, 1, false, 60, 30)

	unlocked := CheckAchievements(db, id, 0, false)
	got := make(map[string]bool)
	for _, def := range unlocked {
		got[def.ID] = true
	}
	if !got["first_guess"] || !got["first_pop"] {
		t.Errorf("expected first_guess and first_pop, got %v", got)
	}

	// Second check unlocks nothing new.
	if again := CheckAchievements(db, id, 0, false); len(again) != 0 {
		t.Errorf("re-check unlocked %v", again)
	}
}

func TestAuthRegisterLogin(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("frank", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if token == "" {
		t.Fatal("register should issue a token")
	}

	gotID, username, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != id || username != "frank" {
		t.Errorf("token claims = %d %q", gotID, username)
	}

	if _, _, err := auth.Login("frank", "wrong", "1.2.3.4"); err == nil {
		t.Error("wrong password should fail")
	}
	loginID, _, err := auth.Login("frank", "hunter2", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loginID != id {
		t.Errorf("login ID = %d, want %d", loginID, id)
	}

	if _, _, err := auth.Register("frank", "hunter2"); err == nil {
		t.Error("duplicate username should fail")
	}
	if _, _, err := auth.Register("x", "hunter2"); err == nil {
		t.Error("too-short username should fail")
	}
}

func TestJWTSecretPersisted(t *testing.T) {
	db := openTestDB(t)

	a1 := NewAuth(db)
	_, token, err := a1.Register("grace", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A second Auth over the same DB must load the same secret, so the
	// old token still validates after a restart.
	a2 := NewAuth(db)
	if _, _, err := a2.ValidateToken(token); err != nil {
		t.Errorf("token should survive an auth restart: %v", err)
	}
}
