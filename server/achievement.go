package main

// Achievement definitions
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_guess", "Good Ear", "Guess an author correctly"},
	{"detective", "Detective", "Reach 50 correct guesses"},
	{"mastermind", "Mastermind", "Reach 200 correct guesses"},
	{"trickster", "Trickster", "Fool 50 guessers with your answers"},
	{"perfect_round", "Mind Reader", "Score 5 or more in a single match"},
	{"first_pop", "Pop!", "Pop your first bubble"},
	{"bubble_hunter", "Bubble Hunter", "Pop 100 bubbles"},
	{"bubble_storm", "Bubble Storm", "Pop 1000 bubbles"},
	{"victor", "Victor", "Win 10 matches"},
	{"veteran", "Veteran", "Reach level 10"},
	{"legend", "Legend", "Reach level 50"},
	{"regular", "Regular", "Play for 1 hour total"},
}

// CheckAchievements checks if any new achievements should be unlocked for a player.
// Returns a list of newly unlocked achievement IDs.
func CheckAchievements(db *DB, playerID int64, matchScore int, won bool) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	var unlocked []AchievementDef

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_guess":
			return stats.CorrectGuesses >= 1
		case "detective":
			return stats.CorrectGuesses >= 50
		case "mastermind":
			return stats.CorrectGuesses >= 200
		case "trickster":
			return stats.Fooled >= 50
		case "perfect_round":
			return matchScore >= 5
		case "first_pop":
			return stats.BubblesPopped >= 1
		case "bubble_hunter":
			return stats.BubblesPopped >= 100
		case "bubble_storm":
			return stats.BubblesPopped >= 1000
		case "victor":
			return stats.Wins >= 10
		case "veteran":
			return stats.Level >= 10
		case "legend":
			return stats.Level >= 50
		case "regular":
			return stats.Playtime >= 3600
		}
		return false
	}

	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
