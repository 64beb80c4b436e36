package main

// Prompt is one fill-in question shown to the whole room. Every player
// answers it, then the room guesses who said what.
type Prompt struct {
	ID   string
	Text string
}

// PromptCatalog is the built-in prompt deck
var PromptCatalog = []Prompt{
	{"worst_advice", "The worst advice I've ever been given was ___"},
	{"secret_talent", "My most useless talent is ___"},
	{"fired_for", "I would definitely get fired for ___"},
	{"three_am", "It's 3am and I'm wide awake because ___"},
	{"autobiography", "My autobiography would be titled ___"},
	{"last_search", "The most embarrassing thing in my search history is ___"},
	{"superpower", "If I had a superpower it would be ___, but only on Tuesdays"},
	{"roommate", "The worst thing about living with me is ___"},
	{"apocalypse", "In the apocalypse my survival plan is ___"},
	{"group_chat", "The group chat went silent after I said ___"},
	{"hidden_fear", "I'm irrationally afraid of ___"},
	{"cancelled", "My favorite show got cancelled because of ___"},
	{"first_date", "My go-to first date move is ___"},
	{"lottery", "If I won the lottery the first thing I'd buy is ___"},
	{"time_travel", "I'd travel back in time just to ___"},
	{"pet_peeve", "My biggest pet peeve is people who ___"},
	{"karaoke", "My karaoke song is ___ and nobody can stop me"},
	{"fridge", "The oldest thing in my fridge is ___"},
	{"fake_fact", "A fake fact I tell people with total confidence: ___"},
	{"alarm", "I've hit snooze ___ times in one morning"},
	{"chore", "The chore I'd pay any amount of money to never do again is ___"},
	{"wifi_name", "My ideal wifi network name is ___"},
	{"interview", "The worst thing to say in a job interview is ___"},
	{"diet", "My diet starts tomorrow, right after ___"},
	{"teacher", "My favorite teacher once caught me ___"},
	{"road_trip", "Three hours into a road trip I will absolutely ___"},
	{"museum", "They should open a museum dedicated to ___"},
	{"holiday", "I would invent a holiday celebrating ___"},
	{"last_words", "My famous last words will be ___"},
	{"conspiracy", "A conspiracy theory I could be talked into: ___"},
	{"hot_take", "My most controversial food opinion is ___"},
	{"reality_show", "I'd win a reality show about ___"},
	{"voicemail", "My voicemail greeting should just say ___"},
	{"gym", "I stopped going to the gym because ___"},
	{"password", "My passwords are all variations of ___"},
	{"neighbor", "My neighbors definitely think I ___"},
	{"talent_show", "For the office talent show I'm doing ___"},
	{"tattoo", "If forced to get a tattoo today it would be ___"},
	{"mascot", "Our team mascot should be ___"},
	{"recipe", "My signature dish is ___ and it has sent people home early"},
}

// PromptCatalogMap provides O(1) lookup by prompt ID
var PromptCatalogMap map[string]Prompt

func init() {
	PromptCatalogMap = make(map[string]Prompt, len(PromptCatalog))
	for _, p := range PromptCatalog {
		PromptCatalogMap[p.ID] = p
	}
}

// PromptDeck deals prompts without repeats until the catalog is exhausted
type PromptDeck struct {
	used map[string]bool
}

// NewPromptDeck creates an empty-handed deck
func NewPromptDeck() *PromptDeck {
	return &PromptDeck{used: make(map[string]bool)}
}

// Draw returns a prompt not seen this match. When the catalog runs dry the
// deck resets rather than failing.
func (d *PromptDeck) Draw() Prompt {
	if len(d.used) >= len(PromptCatalog) {
		d.used = make(map[string]bool)
	}
	start := int(randFloat() * float64(len(PromptCatalog)))
	for i := 0; i < len(PromptCatalog); i++ {
		p := PromptCatalog[(start+i)%len(PromptCatalog)]
		if !d.used[p.ID] {
			d.used[p.ID] = true
			return p
		}
	}
	return PromptCatalog[start%len(PromptCatalog)]
}
