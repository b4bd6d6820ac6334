// Package resolve maps names typed by the player to catalog IDs, inventory
// stacks, and owned pets.
package resolve

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("there is no %q", e.Name)
	}
	return fmt.Sprintf("there is no %s called %q", e.Kind, e.Name)
}

// candidate is one thing a name can resolve to.
type candidate struct {
	key  string // returned on match
	id   string // catalog or instance ID
	name string // display name
}

// enhancementSuffix matches "+3" at either end of a name.
var enhancementSuffix = regexp.MustCompile(`^\+(\d+)\s+|\s*\+(\d+)$`)

// splitEnhancement strips a "+N" prefix or suffix from name.
// level is -1 when the name carries none.
func splitEnhancement(name string) (base string, level int) {
	m := enhancementSuffix.FindStringSubmatch(name)
	if m == nil {
		return name, -1
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return name, -1
	}
	return strings.TrimSpace(enhancementSuffix.ReplaceAllString(name, "")), n
}

// CatalogItem resolves a name to any item ID in the catalog.
func CatalogItem(cat *state.Catalog, name string) (string, error) {
	cands := make([]candidate, 0, len(cat.ItemOrder))
	for _, id := range cat.ItemOrder {
		cands = append(cands, candidate{key: id, id: id, name: cat.Items[id].Name})
	}
	return match("item", name, cands)
}

// InventoryItem resolves a name to a stack the player holds. A "+N"
// suffix or prefix selects the enhancement level; without one, an item
// held at several levels is ambiguous.
func InventoryItem(cat *state.Catalog, p types.PlayerState, name string) (types.ItemRef, error) {
	base, level := splitEnhancement(name)

	var cands []candidate
	refs := map[string]types.ItemRef{}
	for _, e := range p.Inventory {
		if level >= 0 && e.Enhancement != level {
			continue
		}
		key := fmt.Sprintf("%s+%d", e.ItemID, e.Enhancement)
		refs[key] = e.ItemRef
		cands = append(cands, candidate{key: key, id: e.ItemID, name: cat.Items[e.ItemID].Name})
	}

	key, err := match("item in your inventory", base, cands)
	if err != nil {
		var amb *AmbiguityError
		if ok := asAmbiguity(err, &amb); ok {
			amb.Name = name
			amb.Candidates = stackNames(cat, refs, amb.Candidates)
		}
		return types.ItemRef{}, err
	}
	return refs[key], nil
}

// Pet resolves a name to an owned pet instance ID by nickname, species
// name, or instance ID.
func Pet(cat *state.Catalog, p types.PlayerState, name string) (string, error) {
	cands := make([]candidate, 0, len(p.Pets))
	for _, pet := range p.Pets {
		cands = append(cands, candidate{key: pet.ID, id: pet.ID, name: state.PetName(cat, pet)})
		if pet.Nickname != "" {
			cands = append(cands, candidate{key: pet.ID, id: pet.Species, name: cat.Pets[pet.Species].Name})
		}
	}
	return match("pet", name, cands)
}

// Dungeon resolves a dungeon name.
func Dungeon(cat *state.Catalog, name string) (string, error) {
	cands := make([]candidate, 0, len(cat.DungeonOrder))
	for _, id := range cat.DungeonOrder {
		cands = append(cands, candidate{key: id, id: id, name: cat.Dungeons[id].Name})
	}
	return match("dungeon", name, cands)
}

// Quest resolves a quest title.
func Quest(cat *state.Catalog, name string) (string, error) {
	cands := make([]candidate, 0, len(cat.QuestOrder))
	for _, id := range cat.QuestOrder {
		cands = append(cands, candidate{key: id, id: id, name: cat.Quests[id].Title})
	}
	return match("quest", name, cands)
}

// Recipe resolves a recipe by its ID or the name of the item it makes.
func Recipe(cat *state.Catalog, name string) (string, error) {
	cands := make([]candidate, 0, len(cat.RecipeOrder))
	for _, id := range cat.RecipeOrder {
		r := cat.Recipes[id]
		cands = append(cands, candidate{key: id, id: id, name: cat.Items[r.Result].Name})
	}
	return match("recipe", name, cands)
}

// Gacha resolves a gacha machine by name, ID, or kind ("item", "pet").
func Gacha(cat *state.Catalog, name string) (string, error) {
	for _, id := range cat.GachaOrder {
		if strings.EqualFold(string(cat.Gachas[id].Kind), strings.TrimSpace(name)) {
			return id, nil
		}
	}
	cands := make([]candidate, 0, len(cat.GachaOrder))
	for _, id := range cat.GachaOrder {
		cands = append(cands, candidate{key: id, id: id, name: cat.Gachas[id].Name})
	}
	return match("gacha", name, cands)
}

// Class resolves a selectable class name. The default class is never
// offered.
func Class(cat *state.Catalog, name string) (string, error) {
	var cands []candidate
	for _, id := range cat.ClassOrder {
		if c := cat.Classes[id]; !c.Default {
			cands = append(cands, candidate{key: id, id: id, name: c.Name})
		}
	}
	return match("class", name, cands)
}

// Milestone resolves a trophy milestone by ID or trophy count ("250").
func Milestone(cat *state.Catalog, name string) (string, error) {
	name = strings.TrimSpace(name)
	var cands []candidate
	for _, m := range cat.Milestones {
		if strconv.Itoa(m.Trophies) == name {
			return m.ID, nil
		}
		cands = append(cands, candidate{key: m.ID, id: m.ID, name: fmt.Sprintf("%d trophies", m.Trophies)})
	}
	return match("milestone", name, cands)
}

// match runs the resolution ladder: exact ID, exact name, whole-word
// match, prefix, then fuzzy search. Each rung must yield a single key.
func match(kind, name string, cands []candidate) (string, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return "", &NotFoundError{Kind: kind, Name: name}
	}
	underscored := strings.ReplaceAll(query, " ", "_")

	rungs := []func(c candidate) bool{
		func(c candidate) bool { return strings.ToLower(c.id) == query || strings.ToLower(c.id) == underscored },
		func(c candidate) bool { return strings.ToLower(c.name) == query },
		func(c candidate) bool {
			for _, word := range strings.Fields(strings.ToLower(c.name)) {
				if word == query {
					return true
				}
			}
			return false
		},
		func(c candidate) bool { return strings.HasPrefix(strings.ToLower(c.name), query) },
	}
	for _, rung := range rungs {
		keys, names := collect(cands, rung)
		switch len(keys) {
		case 0:
			continue
		case 1:
			return keys[0], nil
		default:
			return "", &AmbiguityError{Name: name, Candidates: names}
		}
	}

	return fuzzyMatch(kind, name, cands)
}

// fuzzyMatch picks the best fuzzy match when it beats the runner-up.
func fuzzyMatch(kind, name string, cands []candidate) (string, error) {
	data := make([]string, len(cands))
	for i, c := range cands {
		data[i] = c.name
	}
	matches := fuzzy.Find(name, data)
	if len(matches) == 0 {
		return "", &NotFoundError{Kind: kind, Name: name}
	}
	best := cands[matches[0].Index]
	if len(matches) > 1 && matches[1].Score == matches[0].Score && cands[matches[1].Index].key != best.key {
		var names []string
		for _, m := range matches {
			if m.Score == matches[0].Score {
				names = append(names, cands[m.Index].name)
			}
		}
		return "", &AmbiguityError{Name: name, Candidates: names}
	}
	return best.key, nil
}

// collect returns the distinct keys accepted by pred and their names.
func collect(cands []candidate, pred func(candidate) bool) (keys, names []string) {
	seen := map[string]bool{}
	for _, c := range cands {
		if !pred(c) || seen[c.key] {
			continue
		}
		seen[c.key] = true
		keys = append(keys, c.key)
		names = append(names, c.name)
	}
	return keys, names
}

func asAmbiguity(err error, target **AmbiguityError) bool {
	amb, ok := err.(*AmbiguityError)
	if ok {
		*target = amb
	}
	return ok
}

// stackNames renders ambiguous stacks with their enhancement level.
func stackNames(cat *state.Catalog, refs map[string]types.ItemRef, names []string) []string {
	out := make([]string, 0, len(refs))
	for _, key := range slices.Sorted(maps.Keys(refs)) {
		ref := refs[key]
		n := state.ItemName(cat, ref)
		for _, want := range names {
			if cat.Items[ref.ItemID].Name == want {
				out = append(out, n)
				break
			}
		}
	}
	return out
}
