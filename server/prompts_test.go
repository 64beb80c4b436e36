package main

import "testing"

func TestPromptDeckNoRepeats(t *testing.T) {
	d := NewPromptDeck()
	seen := make(map[string]bool)
	for i := 0; i < len(PromptCatalog); i++ {
		p := d.Draw()
		if seen[p.ID] {
			t.Fatalf("prompt %q dealt twice before the catalog ran out", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestPromptDeckResetsWhenExhausted(t *testing.T) {
	d := NewPromptDeck()
	for i := 0; i < len(PromptCatalog); i++ {
		d.Draw()
	}
	// One more draw must still succeed
	p := d.Draw()
	if p.ID == "" {
		t.Error("exhausted deck should reset, not deal empty prompts")
	}
}

func TestPromptCatalogMapComplete(t *testing.T) {
	if len(PromptCatalogMap) != len(PromptCatalog) {
		t.Fatalf("catalog map has %d entries, catalog has %d", len(PromptCatalogMap), len(PromptCatalog))
	}
	for _, p := range PromptCatalog {
		if PromptCatalogMap[p.ID].Text != p.Text {
			t.Errorf("catalog map mismatch for %q", p.ID)
		}
	}
}

func TestAvatarDeterministic(t *testing.T) {
	a1 := AvatarFor("seed-one")
	a2 := AvatarFor("seed-one")
	if a1 != a2 {
		t.Error("the same seed must always render the same avatar")
	}
}

func TestAvatarColorsDiffer(t *testing.T) {
	for _, seed := range []string{"a", "bb", "ccc", "dddd", "player42"} {
		a := AvatarFor(seed)
		if a.Color1 == a.Color2 {
			t.Errorf("seed %q produced matching colors %s", seed, a.Color1)
		}
	}
}
