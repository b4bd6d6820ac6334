// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/gacharealm/types"
)

var verbAliases = map[string]string{
	// Status
	"st":    "status",
	"stats": "status",
	"me":    "status",
	"char":  "status",

	// Inventory
	"i":   "inventory",
	"inv": "inventory",
	"bag": "inventory",

	// Examine
	"x":       "examine",
	"inspect": "examine",
	"look":    "examine",
	"l":       "examine",
	"lore":    "examine",
	"read":    "examine",

	// Shop
	"store":    "shop",
	"market":   "shop",
	"purchase": "buy",
	"vendor":   "sell",

	// Equipment
	"wield":  "equip",
	"wear":   "equip",
	"don":    "equip",
	"remove": "unequip",
	"doff":   "unequip",

	// Consumables
	"drink":   "use",
	"quaff":   "use",
	"throw":   "use",
	"consume": "use",

	// Blacksmith
	"forge":  "craft",
	"smith":  "craft",
	"refine": "enhance",
	"enh":    "enhance",

	// Battle
	"explore": "hunt",
	"fight":   "hunt",
	"a":       "attack",
	"hit":     "attack",
	"strike":  "attack",
	"ult":     "ultimate",
	"special": "ultimate",

	// Dungeons
	"dungeon": "enter",
	"raid":    "enter",

	// Quests
	"board":  "quests",
	"quest":  "quests",
	"take":   "accept",
	"turnin": "claim",

	// Gacha
	"draw":   "pull",
	"roll":   "pull",
	"summon": "pull",
	"shrine": "gacha",

	// Pets
	"pet":     "pets",
	"call":    "activate",
	"release": "dismiss",

	// Town
	"class":    "classes",
	"become":   "choose",
	"build":    "upgrade",
	"trophy":   "trophies",
	"road":     "trophies",
	"sleep":    "rest",
	"heal":     "rest",
	"inn":      "rest",
	"name":     "rename",
	"h":        "help",
	"?":        "help",
	"commands": "help",
}

var prepositions = map[string]bool{
	"on": true, "to": true, "with": true, "from": true, "as": true, "for": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent. The verb is
// lowercased; object and target keep their original case so names can be
// set verbatim.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(input)
	words[0] = strings.ToLower(words[0])

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "look at", "take off", "put on" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}
	second := strings.ToLower(words[1])

	switch words[0] {
	case "look", "l":
		if second == "at" {
			return append([]string{"examine"}, words[2:]...)
		}
	case "put":
		if second == "on" {
			return append([]string{"equip"}, words[2:]...)
		}
	case "take":
		if second == "off" {
			return append([]string{"unequip"}, words[2:]...)
		}
	case "turn":
		if second == "in" {
			return append([]string{"claim"}, words[2:]...)
		}
	case "use":
		if second == "ultimate" || second == "ult" {
			return []string{"ultimate"}
		}
	case "upgrade":
		if second == "town" {
			return []string{"upgrade"}
		}
	case "go":
		switch second {
		case "hunting", "hunt", "explore":
			return []string{"hunt"}
		case "to", "into":
			if len(words) > 2 {
				return append([]string{"enter"}, words[2:]...)
			}
		}
		return append([]string{"enter"}, words[1:]...)
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[strings.ToLower(w)] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if i > 0 && prepositions[strings.ToLower(w)] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
