package models

// Vibe is one entry of the fixed vibe catalog.
type Vibe struct {
	ID    string
	Label string
	Emoji string
}

var Vibes = []Vibe{
	{ID: "chill", Label: "Chill", Emoji: "😌"},
	{ID: "roam", Label: "Adventurer", Emoji: "🧭"},
	{ID: "grind", Label: "Studious", Emoji: "📚"},
	{ID: "social", Label: "Social butterfly", Emoji: "🦋"},
	{ID: "create", Label: "Creative", Emoji: "🎨"},
	{ID: "active", Label: "Athletic", Emoji: "⚡"},
}

func LookupVibe(id string) (Vibe, bool) {
	for _, v := range Vibes {
		if v.ID == id {
			return v, true
		}
	}
	return Vibe{}, false
}
