package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// Definition kinds recorded by the constructors.
const (
	defWeapon     = "weapon"
	defArmor      = "armor"
	defPetArmor   = "pet_armor"
	defConsumable = "consumable"
	defMaterial   = "material"
	defPet        = "pet"
	defMonster    = "monster"
	defDungeon    = "dungeon"
	defQuest      = "quest"
	defRecipe     = "recipe"
	defTrophy     = "trophy"
	defClass      = "class"
	defGacha      = "gacha"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

// curried returns a constructor of the form Kind "id" { ... }.
func curried(L *lua.LState, coll *collector, kind string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.defs = append(coll.defs, rawDef{kind: kind, id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", enhance_material = "..." }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Player { name = "...", hp = 50, weapon = "wooden_club", ... }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		coll.player = L.CheckTable(1)
		return 0
	}))

	// Town { level = 1, name = "...", xp_required = 0, upgrade_cost = 1000 }
	L.SetGlobal("Town", L.NewFunction(func(L *lua.LState) int {
		coll.town = append(coll.town, L.CheckTable(1))
		return 0
	}))

	for name, kind := range map[string]string{
		"Weapon":     defWeapon,
		"Armor":      defArmor,
		"PetArmor":   defPetArmor,
		"Consumable": defConsumable,
		"Material":   defMaterial,
		"Pet":        defPet,
		"Monster":    defMonster,
		"Dungeon":    defDungeon,
		"Quest":      defQuest,
		"Recipe":     defRecipe,
		"Trophy":     defTrophy,
		"Class":      defClass,
		"Gacha":      defGacha,
	} {
		L.SetGlobal(name, curried(L, coll, kind))
	}
}

func registerHelpers(L *lua.LState) {
	// Heal(amount) and DamageEnemy(amount) build consumable effects.
	L.SetGlobal("Heal", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("heal"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))

	L.SetGlobal("DamageEnemy", L.NewFunction(func(L *lua.LState) int {
		amount := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("damage_enemy"))
		tbl.RawSetString("amount", amount)
		L.Push(tbl)
		return 1
	}))

	// Grant("item", quantity) is a reward or recipe line.
	L.SetGlobal("Grant", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		qty := L.OptNumber(2, 1)
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("quantity", qty)
		L.Push(tbl)
		return 1
	}))

	// Drop("item", chance, quantity) is one loot roll.
	L.SetGlobal("Drop", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		chance := L.CheckNumber(2)
		qty := L.OptNumber(3, 1)
		tbl := L.NewTable()
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("chance", chance)
		tbl.RawSetString("quantity", qty)
		L.Push(tbl)
		return 1
	}))

	// Skill { ... } and Ultimate { ... } are pass-through for readability.
	passThrough := L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	})
	L.SetGlobal("Skill", passThrough)
	L.SetGlobal("Ultimate", passThrough)
	L.SetGlobal("Reward", passThrough)
}
