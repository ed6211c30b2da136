package wordlist

import "strings"

// Fallback is the last-resort word list. Every level length from 4 to 7 has
// candidates so a day can always be played offline.
var Fallback = []string{
	"TREE", "CAMP", "WORD", "LAMP", "FROG", "SAND", "MILK", "ROSE", "WIND", "BOAT",
	"WATER", "STONE", "LIGHT", "BRAVE", "CRANE", "SLATE", "PLANT", "RIVER", "HOUSE", "CLOUD",
	"FAMILY", "MARKET", "GARDEN", "PLANET", "BRIDGE", "FOREST", "SILVER", "WINTER", "CASTLE", "POCKET",
	"JOURNEY", "HARVEST", "LANTERN", "BLANKET", "CAPTAIN", "CRYSTAL", "DOLPHIN", "FREEDOM", "KITCHEN", "MORNING",
}

// FallbackText is the fallback list in word-source form.
func FallbackText() []byte {
	return []byte(strings.Join(Fallback, "\n"))
}
