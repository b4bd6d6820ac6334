// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading; there is no Lua at runtime.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// eachTable calls fn for every table in the array part of tbl.
func eachTable(tbl *lua.LTable, fn func(*lua.LTable)) {
	if tbl == nil {
		return
	}
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			fn(t)
		}
	}
}

// stringList returns the strings in the array part of tbl.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	out := make([]string, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into a Catalog. Structural
// problems (missing Game or Player, duplicate IDs) are reported together.
func compile(coll *collector) (*state.Catalog, error) {
	cat := state.NewCatalog()
	ve := &ValidationError{}

	if coll.game == nil {
		ve.Errors = append(ve.Errors, "no Game{} definition found")
	} else {
		cat.Game = compileGame(coll.game)
	}
	if coll.player == nil {
		ve.Errors = append(ve.Errors, "no Player{} definition found")
	} else {
		cat.Start = compilePlayer(coll.player)
	}

	seen := map[string]map[string]bool{}
	sort.SliceStable(coll.defs, func(i, j int) bool { return coll.defs[i].order < coll.defs[j].order })
	for _, raw := range coll.defs {
		ns := namespace(raw.kind)
		if seen[ns] == nil {
			seen[ns] = map[string]bool{}
		}
		if seen[ns][raw.id] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate %s ID %q", ns, raw.id))
			continue
		}
		seen[ns][raw.id] = true

		switch raw.kind {
		case defWeapon, defArmor, defPetArmor, defConsumable, defMaterial:
			cat.Items[raw.id] = compileItem(raw)
			cat.ItemOrder = append(cat.ItemOrder, raw.id)
		case defPet:
			cat.Pets[raw.id] = compilePet(raw)
			cat.PetOrder = append(cat.PetOrder, raw.id)
		case defMonster:
			cat.Monsters[raw.id] = compileMonster(raw)
			cat.MonsterOrder = append(cat.MonsterOrder, raw.id)
		case defDungeon:
			cat.Dungeons[raw.id] = compileDungeon(raw)
			cat.DungeonOrder = append(cat.DungeonOrder, raw.id)
		case defQuest:
			cat.Quests[raw.id] = compileQuest(raw)
			cat.QuestOrder = append(cat.QuestOrder, raw.id)
		case defRecipe:
			cat.Recipes[raw.id] = compileRecipe(raw)
			cat.RecipeOrder = append(cat.RecipeOrder, raw.id)
		case defTrophy:
			cat.Milestones = append(cat.Milestones, types.TrophyMilestone{
				ID:       raw.id,
				Trophies: getInt(raw.table, "trophies"),
				Rewards:  compileReward(getTable(raw.table, "rewards")),
			})
		case defClass:
			cat.Classes[raw.id] = compileClass(raw)
			cat.ClassOrder = append(cat.ClassOrder, raw.id)
		case defGacha:
			cat.Gachas[raw.id] = compileGacha(raw)
			cat.GachaOrder = append(cat.GachaOrder, raw.id)
		}
	}

	for _, tbl := range coll.town {
		cat.Town = append(cat.Town, types.TownLevel{
			Level:       getInt(tbl, "level"),
			Name:        getString(tbl, "name"),
			XPRequired:  getInt(tbl, "xp_required"),
			UpgradeCost: getInt(tbl, "upgrade_cost"),
		})
	}
	sort.SliceStable(cat.Town, func(i, j int) bool { return cat.Town[i].Level < cat.Town[j].Level })
	sort.SliceStable(cat.Milestones, func(i, j int) bool { return cat.Milestones[i].Trophies < cat.Milestones[j].Trophies })

	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return cat, nil
}

// namespace groups definition kinds that share an ID space.
func namespace(kind string) string {
	switch kind {
	case defWeapon, defArmor, defPetArmor, defConsumable, defMaterial:
		return "item"
	default:
		return kind
	}
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:           getString(tbl, "title"),
		Author:          getString(tbl, "author"),
		Version:         getString(tbl, "version"),
		Intro:           getString(tbl, "intro"),
		EnhanceMaterial: getString(tbl, "enhance_material"),
	}
}

func compilePlayer(tbl *lua.LTable) types.PlayerState {
	p := types.PlayerState{
		Name:          getString(tbl, "name"),
		Level:         getInt(tbl, "level"),
		XP:            getInt(tbl, "xp"),
		XPToNextLevel: getInt(tbl, "xp_to_next_level"),
		HP:            getInt(tbl, "hp"),
		MaxHP:         getInt(tbl, "max_hp"),
		Attack:        getInt(tbl, "attack"),
		Defense:       getInt(tbl, "defense"),
		Gold:          getInt(tbl, "gold"),
		CraftingLevel: getInt(tbl, "crafting_level"),
		TownLevel:     getInt(tbl, "town_level"),
	}
	if p.HP == 0 {
		p.HP = p.MaxHP
	}
	if w := getString(tbl, "weapon"); w != "" {
		p.Equipment.Weapon = &types.ItemRef{ItemID: w}
	}
	if a := getString(tbl, "armor"); a != "" {
		p.Equipment.Armor = &types.ItemRef{ItemID: a}
	}
	eachTable(getTable(tbl, "inventory"), func(t *lua.LTable) {
		p.Inventory = append(p.Inventory, types.InventoryEntry{
			ItemRef:  types.ItemRef{ItemID: getString(t, "item")},
			Quantity: getInt(t, "quantity"),
		})
	})
	return p
}

func compileItem(raw rawDef) types.Item {
	tbl := raw.table
	it := types.Item{
		ID:          raw.id,
		Kind:        types.ItemKind(raw.kind),
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Grade:       types.Grade(getString(tbl, "grade")),
		Price:       getInt(tbl, "price"),
	}
	switch it.Kind {
	case types.KindWeapon:
		it.Damage = getInt(tbl, "damage")
		it.Accuracy = getNumber(tbl, "accuracy")
		it.CritChance = getNumber(tbl, "crit_chance")
		it.CritMultiplier = getNumber(tbl, "crit_multiplier")
		it.ProcChance = getNumber(tbl, "proc_chance")
		it.ProcDamage = getInt(tbl, "proc_damage")
		it.WeaponType = getString(tbl, "weapon_type")
	case types.KindArmor, types.KindPetArmor:
		it.Defense = getInt(tbl, "defense")
	case types.KindConsumable:
		if eff := getTable(tbl, "effect"); eff != nil {
			it.Effect = &types.ConsumableEffect{
				Kind:     types.ConsumableKind(getString(eff, "kind")),
				Amount:   getInt(eff, "amount"),
				Duration: getInt(eff, "duration"),
			}
		}
	case types.KindMaterial:
	}
	return it
}

func compilePet(raw rawDef) types.PetDef {
	tbl := raw.table
	pet := types.PetDef{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		Description:  getString(tbl, "description"),
		Grade:        types.Grade(getString(tbl, "grade")),
		AttackBonus:  getInt(tbl, "attack_bonus"),
		DefenseBonus: getInt(tbl, "defense_bonus"),
	}
	if sk := getTable(tbl, "skill"); sk != nil {
		pet.Skill = types.PetSkill{
			Name:   getString(sk, "name"),
			Kind:   types.PetSkillKind(getString(sk, "kind")),
			Chance: getNumber(sk, "chance"),
			Amount: getInt(sk, "amount"),
		}
	}
	return pet
}

func compileMonster(raw rawDef) types.MonsterDef {
	tbl := raw.table
	m := types.MonsterDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Icon:     getString(tbl, "icon"),
		HP:       getInt(tbl, "hp"),
		Attack:   getInt(tbl, "attack"),
		Defense:  getInt(tbl, "defense"),
		XP:       getInt(tbl, "xp"),
		Gold:     getInt(tbl, "gold"),
		Trophies: getInt(tbl, "trophies"),
		Wild:     getBool(tbl, "wild", true),
	}
	eachTable(getTable(tbl, "loot"), func(t *lua.LTable) {
		m.Loot = append(m.Loot, types.LootEntry{
			ItemID:   getString(t, "item"),
			Chance:   getNumber(t, "chance"),
			Quantity: getInt(t, "quantity"),
		})
	})
	return m
}

func compileReward(tbl *lua.LTable) types.Reward {
	if tbl == nil {
		return types.Reward{}
	}
	r := types.Reward{
		XP:   getInt(tbl, "xp"),
		Gold: getInt(tbl, "gold"),
	}
	eachTable(getTable(tbl, "items"), func(t *lua.LTable) {
		r.Items = append(r.Items, types.ItemGrant{
			ItemID:   getString(t, "item"),
			Quantity: getInt(t, "quantity"),
		})
	})
	return r
}

func compileDungeon(raw rawDef) types.Dungeon {
	tbl := raw.table
	d := types.Dungeon{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Difficulty:  getInt(tbl, "difficulty"),
		Stages:      stringList(getTable(tbl, "stages")),
		Rewards:     compileReward(getTable(tbl, "rewards")),
	}
	eachTable(getTable(tbl, "substitutes"), func(t *lua.LTable) {
		d.Substitutes = append(d.Substitutes, types.Substitute{
			Monster:    getString(t, "monster"),
			With:       getString(t, "with"),
			BelowLevel: getInt(t, "below_level"),
		})
	})
	return d
}

func compileQuest(raw rawDef) types.QuestDef {
	tbl := raw.table
	return types.QuestDef{
		ID:          raw.id,
		Title:       getString(tbl, "title"),
		Description: getString(tbl, "description"),
		Kind:        types.QuestKind(getString(tbl, "kind")),
		Target:      getString(tbl, "target"),
		Quantity:    getInt(tbl, "quantity"),
		Rewards:     compileReward(getTable(tbl, "rewards")),
	}
}

func compileRecipe(raw rawDef) types.Recipe {
	tbl := raw.table
	r := types.Recipe{
		ID:               raw.id,
		Result:           getString(tbl, "result"),
		MinCraftingLevel: getInt(tbl, "min_crafting_level"),
	}
	if r.MinCraftingLevel == 0 {
		r.MinCraftingLevel = 1
	}
	eachTable(getTable(tbl, "materials"), func(t *lua.LTable) {
		r.Materials = append(r.Materials, types.MaterialCost{
			ItemID:   getString(t, "item"),
			Quantity: getInt(t, "quantity"),
		})
	})
	return r
}

func compileClass(raw rawDef) types.ClassDef {
	tbl := raw.table
	c := types.ClassDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		MaxHP:       getInt(tbl, "max_hp"),
		Attack:      getInt(tbl, "attack"),
		Defense:     getInt(tbl, "defense"),
		CritChance:  getNumber(tbl, "crit_chance"),
		Default:     getBool(tbl, "default", false),
	}
	if u := getTable(tbl, "ultimate"); u != nil {
		c.Ultimate = types.Ultimate{
			Name:       getString(u, "name"),
			Multiplier: getNumber(u, "multiplier"),
			StunChance: getNumber(u, "stun_chance"),
			StunTurns:  getInt(u, "stun_turns"),
			CritScale:  getNumber(u, "crit_scale"),
		}
	}
	return c
}

func compileGacha(raw rawDef) types.GachaDef {
	tbl := raw.table
	g := types.GachaDef{
		ID:   raw.id,
		Name: getString(tbl, "name"),
		Kind: types.GachaKind(getString(tbl, "kind")),
		Cost: getInt(tbl, "cost"),
	}
	eachTable(getTable(tbl, "buckets"), func(t *lua.LTable) {
		g.Buckets = append(g.Buckets, types.GachaBucket{
			Grade:  types.Grade(getString(t, "grade")),
			Chance: getNumber(t, "chance"),
		})
	})
	return g
}
