// Package state holds the immutable catalog and the pure helpers that read
// and update a PlayerState value: inventory stacks, derived stats, and
// normalization of loaded saves.
package state

import (
	"fmt"

	"github.com/nathoo/gacharealm/types"
)

// Enhancement bonuses per level.
const (
	WeaponAttackPerLevel  = 2
	ArmorDefensePerLevel  = 1
	PetStatPerLevel       = 1
	DefaultAccuracy       = 0.9
	DefaultCritChance     = 0.05
	DefaultCritMultiplier = 1.5
)

// Catalog holds the immutable game definitions loaded from Lua.
// Order slices keep definition order for listings and random pools.
type Catalog struct {
	Game  types.GameDef
	Start types.PlayerState

	Items    map[string]types.Item
	Pets     map[string]types.PetDef
	Monsters map[string]types.MonsterDef
	Dungeons map[string]types.Dungeon
	Quests   map[string]types.QuestDef
	Recipes  map[string]types.Recipe
	Classes  map[string]types.ClassDef
	Gachas   map[string]types.GachaDef

	ItemOrder    []string
	PetOrder     []string
	MonsterOrder []string
	DungeonOrder []string
	QuestOrder   []string
	RecipeOrder  []string
	ClassOrder   []string
	GachaOrder   []string

	Town       []types.TownLevel       // ascending by level
	Milestones []types.TrophyMilestone // ascending by trophies
}

// NewCatalog returns an empty catalog with all maps allocated.
func NewCatalog() *Catalog {
	return &Catalog{
		Items:    map[string]types.Item{},
		Pets:     map[string]types.PetDef{},
		Monsters: map[string]types.MonsterDef{},
		Dungeons: map[string]types.Dungeon{},
		Quests:   map[string]types.QuestDef{},
		Recipes:  map[string]types.Recipe{},
		Classes:  map[string]types.ClassDef{},
		Gachas:   map[string]types.GachaDef{},
	}
}

// GradeOrder returns the 1-based rank of a grade, or 0 if unknown.
func GradeOrder(g types.Grade) int {
	switch g {
	case types.GradeCommon:
		return 1
	case types.GradeUncommon:
		return 2
	case types.GradeRare:
		return 3
	case types.GradeEpic:
		return 4
	case types.GradeLegendary:
		return 5
	case types.GradeUltimate:
		return 6
	default:
		return 0
	}
}

// NewPlayer returns a fresh copy of the catalog's starting player.
func NewPlayer(cat *Catalog) types.PlayerState {
	return Normalize(cat, Clone(cat.Start))
}

// Clone returns a deep copy of p. Mutators work on a clone so the caller's
// snapshot stays untouched on error.
func Clone(p types.PlayerState) types.PlayerState {
	c := p
	c.ClaimedMilestones = append([]string{}, p.ClaimedMilestones...)
	c.Inventory = append([]types.InventoryEntry{}, p.Inventory...)
	c.ActiveQuests = append([]types.QuestProgress{}, p.ActiveQuests...)
	c.CompletedQuests = append([]string{}, p.CompletedQuests...)
	c.Equipment = types.Equipment{
		Weapon: cloneRef(p.Equipment.Weapon),
		Armor:  cloneRef(p.Equipment.Armor),
	}
	c.Pets = make([]types.Pet, len(p.Pets))
	for i, pet := range p.Pets {
		pet.Armor = cloneRef(pet.Armor)
		c.Pets[i] = pet
	}
	return c
}

func cloneRef(r *types.ItemRef) *types.ItemRef {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

// Quantity returns how many units of ref the player holds.
func Quantity(p types.PlayerState, ref types.ItemRef) int {
	for _, e := range p.Inventory {
		if e.ItemRef == ref {
			return e.Quantity
		}
	}
	return 0
}

// TotalQuantity returns the units of an item across all enhancement levels.
func TotalQuantity(p types.PlayerState, itemID string) int {
	n := 0
	for _, e := range p.Inventory {
		if e.ItemID == itemID {
			n += e.Quantity
		}
	}
	return n
}

// AddItem merges qty units into the stack for ref, creating it if needed.
func AddItem(p *types.PlayerState, ref types.ItemRef, qty int) {
	if qty <= 0 {
		return
	}
	for i := range p.Inventory {
		if p.Inventory[i].ItemRef == ref {
			p.Inventory[i].Quantity += qty
			return
		}
	}
	p.Inventory = append(p.Inventory, types.InventoryEntry{ItemRef: ref, Quantity: qty})
}

// RemoveItem takes qty units from the stack for ref. The stack is deleted
// when it reaches zero. Returns false without changes if the stack is short.
func RemoveItem(p *types.PlayerState, ref types.ItemRef, qty int) bool {
	for i := range p.Inventory {
		if p.Inventory[i].ItemRef != ref {
			continue
		}
		if p.Inventory[i].Quantity < qty {
			return false
		}
		p.Inventory[i].Quantity -= qty
		if p.Inventory[i].Quantity == 0 {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		}
		return true
	}
	return qty <= 0
}

// FindPet returns the index of the pet with the given ID, or -1.
func FindPet(p types.PlayerState, id string) int {
	for i, pet := range p.Pets {
		if pet.ID == id {
			return i
		}
	}
	return -1
}

// ActivePet returns the active pet and its definition, if any.
func ActivePet(cat *Catalog, p types.PlayerState) (types.Pet, types.PetDef, bool) {
	if p.ActivePetID == "" {
		return types.Pet{}, types.PetDef{}, false
	}
	i := FindPet(p, p.ActivePetID)
	if i < 0 {
		return types.Pet{}, types.PetDef{}, false
	}
	def, ok := cat.Pets[p.Pets[i].Species]
	if !ok {
		return types.Pet{}, types.PetDef{}, false
	}
	return p.Pets[i], def, true
}

// EquippedWeapon returns the equipped weapon record, if any.
func EquippedWeapon(cat *Catalog, p types.PlayerState) (types.Item, int, bool) {
	if p.Equipment.Weapon == nil {
		return types.Item{}, 0, false
	}
	item, ok := cat.Items[p.Equipment.Weapon.ItemID]
	return item, p.Equipment.Weapon.Enhancement, ok
}

// Class returns the player's class, falling back to the catalog default.
func Class(cat *Catalog, p types.PlayerState) (types.ClassDef, bool) {
	if p.Class != "" {
		c, ok := cat.Classes[p.Class]
		return c, ok
	}
	for _, id := range cat.ClassOrder {
		if c := cat.Classes[id]; c.Default {
			return c, true
		}
	}
	return types.ClassDef{}, false
}

// TotalAttack is base attack plus weapon, weapon enhancement, and the
// active pet's attack contribution.
func TotalAttack(cat *Catalog, p types.PlayerState) int {
	atk := p.Attack
	if w, enh, ok := EquippedWeapon(cat, p); ok {
		atk += w.Damage + enh*WeaponAttackPerLevel
	}
	if pet, def, ok := ActivePet(cat, p); ok {
		atk += def.AttackBonus + pet.Enhancement*PetStatPerLevel
	}
	return atk
}

// TotalDefense is base defense plus armor, the active pet, and its armor.
func TotalDefense(cat *Catalog, p types.PlayerState) int {
	def := p.Defense
	if ref := p.Equipment.Armor; ref != nil {
		if a, ok := cat.Items[ref.ItemID]; ok {
			def += a.Defense + ref.Enhancement*ArmorDefensePerLevel
		}
	}
	if pet, pd, ok := ActivePet(cat, p); ok {
		def += pd.DefenseBonus + pet.Enhancement*PetStatPerLevel
		if pet.Armor != nil {
			if a, ok := cat.Items[pet.Armor.ItemID]; ok {
				def += a.Defense + pet.Armor.Enhancement*ArmorDefensePerLevel
			}
		}
	}
	return def
}

// Accuracy returns the equipped weapon's hit chance.
func Accuracy(cat *Catalog, p types.PlayerState) float64 {
	if w, _, ok := EquippedWeapon(cat, p); ok && w.Accuracy > 0 {
		return w.Accuracy
	}
	return DefaultAccuracy
}

// CritChance returns the weapon crit chance plus the class bonus.
func CritChance(cat *Catalog, p types.PlayerState) float64 {
	chance := DefaultCritChance
	if w, _, ok := EquippedWeapon(cat, p); ok && w.CritChance > 0 {
		chance = w.CritChance
	}
	if p.Class != "" {
		if c, ok := cat.Classes[p.Class]; ok {
			chance += c.CritChance
		}
	}
	return chance
}

// CritMultiplier returns the equipped weapon's crit multiplier.
func CritMultiplier(cat *Catalog, p types.PlayerState) float64 {
	if w, _, ok := EquippedWeapon(cat, p); ok && w.CritMultiplier > 0 {
		return w.CritMultiplier
	}
	return DefaultCritMultiplier
}

// ItemName formats a stack reference for display, e.g. "Steel Sword +2".
func ItemName(cat *Catalog, ref types.ItemRef) string {
	name := ref.ItemID
	if item, ok := cat.Items[ref.ItemID]; ok {
		name = item.Name
	}
	if ref.Enhancement > 0 {
		return fmt.Sprintf("%s +%d", name, ref.Enhancement)
	}
	return name
}

// PetName returns the pet's nickname or its species name.
func PetName(cat *Catalog, pet types.Pet) string {
	name := pet.Nickname
	if name == "" {
		if def, ok := cat.Pets[pet.Species]; ok {
			name = def.Name
		} else {
			name = pet.Species
		}
	}
	if pet.Enhancement > 0 {
		return fmt.Sprintf("%s +%d", name, pet.Enhancement)
	}
	return name
}

// TownLevel returns the definition of the player's current town tier.
func TownLevel(cat *Catalog, level int) (types.TownLevel, bool) {
	for _, t := range cat.Town {
		if t.Level == level {
			return t, true
		}
	}
	return types.TownLevel{}, false
}

// Normalize repairs a loaded or merged player so its fields are consistent:
// no nil slices, hp within [0, maxHp], xp below the next threshold,
// non-negative gold and enhancement, no empty or unknown stacks,
// duplicate stacks merged, and an active pet that is owned.
func Normalize(cat *Catalog, p types.PlayerState) types.PlayerState {
	if p.ClaimedMilestones == nil {
		p.ClaimedMilestones = []string{}
	}
	if p.ActiveQuests == nil {
		p.ActiveQuests = []types.QuestProgress{}
	}
	if p.CompletedQuests == nil {
		p.CompletedQuests = []string{}
	}
	if p.Pets == nil {
		p.Pets = []types.Pet{}
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XPToNextLevel < 1 {
		p.XPToNextLevel = cat.Start.XPToNextLevel
		if p.XPToNextLevel < 1 {
			p.XPToNextLevel = 100
		}
	}
	if p.XP < 0 {
		p.XP = 0
	}
	if p.XP >= p.XPToNextLevel {
		p.XP = p.XPToNextLevel - 1
	}
	if p.Gold < 0 {
		p.Gold = 0
	}
	if p.TownLevel < 1 {
		p.TownLevel = 1
	}
	if p.CraftingLevel < 1 {
		p.CraftingLevel = 1
	}
	if p.MaxHP < 1 {
		p.MaxHP = 1
	}
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	if p.HP < 0 {
		p.HP = 0
	}

	inv := []types.InventoryEntry{}
	for _, e := range p.Inventory {
		if e.Quantity <= 0 {
			continue
		}
		if _, ok := cat.Items[e.ItemID]; !ok {
			continue
		}
		e.ItemRef = clampRef(e.ItemRef)
		merged := false
		for i := range inv {
			if inv[i].ItemRef == e.ItemRef {
				inv[i].Quantity += e.Quantity
				merged = true
				break
			}
		}
		if !merged {
			inv = append(inv, e)
		}
	}
	p.Inventory = inv

	p.Equipment.Weapon = clampRefPtr(p.Equipment.Weapon)
	p.Equipment.Armor = clampRefPtr(p.Equipment.Armor)
	if r := p.Equipment.Weapon; r != nil {
		if it, ok := cat.Items[r.ItemID]; !ok || it.Kind != types.KindWeapon {
			p.Equipment.Weapon = nil
		}
	}
	if r := p.Equipment.Armor; r != nil {
		if it, ok := cat.Items[r.ItemID]; !ok || it.Kind != types.KindArmor {
			p.Equipment.Armor = nil
		}
	}

	pets := []types.Pet{}
	for _, pet := range p.Pets {
		if _, ok := cat.Pets[pet.Species]; !ok {
			continue
		}
		if pet.Enhancement < 0 {
			pet.Enhancement = 0
		}
		pet.Armor = clampRefPtr(pet.Armor)
		if pet.Armor != nil {
			if it, ok := cat.Items[pet.Armor.ItemID]; !ok || it.Kind != types.KindPetArmor {
				pet.Armor = nil
			}
		}
		pets = append(pets, pet)
	}
	p.Pets = pets
	if p.ActivePetID != "" && FindPet(p, p.ActivePetID) < 0 {
		p.ActivePetID = ""
	}

	quests := []types.QuestProgress{}
	for _, q := range p.ActiveQuests {
		if _, ok := cat.Quests[q.QuestID]; ok {
			quests = append(quests, q)
		}
	}
	p.ActiveQuests = quests

	return p
}

func clampRef(r types.ItemRef) types.ItemRef {
	if r.Enhancement < 0 {
		r.Enhancement = 0
	}
	return r
}

// clampRefPtr copies before clamping so a shared pointer is never mutated.
func clampRefPtr(r *types.ItemRef) *types.ItemRef {
	if r == nil || r.Enhancement >= 0 {
		return r
	}
	c := clampRef(*r)
	return &c
}
