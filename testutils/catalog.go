// Package testutils provides shared fixtures for engine tests.
package testutils

import (
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

// Catalog builds a small catalog with the default game's numbers: the
// starter gear, crafting materials, one item per gacha grade, three pets,
// four monsters, three dungeons, and the quest, town, trophy, and class
// tables.
func Catalog() *state.Catalog {
	cat := state.NewCatalog()
	cat.Game = types.GameDef{
		Title:           "Test Realm",
		Author:          "Test",
		Version:         "0.1.0",
		EnhanceMaterial: "magic_stone",
	}

	items := []types.Item{
		{ID: "wooden_club", Kind: types.KindWeapon, Name: "Wooden Club", Grade: types.GradeCommon, Price: 10, Damage: 3, Accuracy: 0.8},
		{ID: "old_sword", Kind: types.KindWeapon, Name: "Old Sword", Grade: types.GradeCommon, Price: 50, Damage: 5, Accuracy: 0.9},
		{ID: "steel_sword", Kind: types.KindWeapon, Name: "Steel Sword", Grade: types.GradeUncommon, Price: 200, Damage: 10, Accuracy: 0.9, CritChance: 0.05, CritMultiplier: 1.5},
		{ID: "leather_armor", Kind: types.KindArmor, Name: "Leather Armor", Grade: types.GradeUncommon, Price: 120, Defense: 5},
		{ID: "small_potion", Kind: types.KindConsumable, Name: "Small Health Potion", Grade: types.GradeCommon, Price: 20,
			Effect: &types.ConsumableEffect{Kind: types.ConsumableHeal, Amount: 20}},
		{ID: "iron_ore", Kind: types.KindMaterial, Name: "Iron Ore", Grade: types.GradeCommon, Price: 10},
		{ID: "leather", Kind: types.KindMaterial, Name: "Leather", Grade: types.GradeCommon, Price: 8},
		{ID: "commander_spear", Kind: types.KindWeapon, Name: "Commander's Spear", Grade: types.GradeEpic, Price: 1000, Damage: 25, Accuracy: 0.95,
			CritChance: 0.1, CritMultiplier: 1.8, ProcChance: 0.1, ProcDamage: 10},
		{ID: "steel_armor", Kind: types.KindArmor, Name: "Steel Armor", Grade: types.GradeRare, Price: 650, Defense: 15},
		{ID: "elven_bow", Kind: types.KindWeapon, Name: "Elven Bow", Grade: types.GradeEpic, Price: 1200, WeaponType: "Bow", Damage: 22,
			Accuracy: 1.1, CritChance: 0.15, CritMultiplier: 2.0},
		{ID: "skyfury", Kind: types.KindWeapon, Name: "Skyfury", Grade: types.GradeLegendary, Price: 5000, Damage: 50, Accuracy: 0.9,
			CritChance: 0.2, CritMultiplier: 2.5},
		{ID: "magic_stone", Kind: types.KindMaterial, Name: "Magic Stone", Grade: types.GradeRare, Price: 100},
		{ID: "poison_vial", Kind: types.KindConsumable, Name: "Poison Vial", Grade: types.GradeUncommon, Price: 80,
			Effect: &types.ConsumableEffect{Kind: types.ConsumableDamageEnemy, Amount: 30}},
		{ID: "leather_barding", Kind: types.KindPetArmor, Name: "Leather Barding", Grade: types.GradeCommon, Price: 60, Defense: 3},
	}
	for _, it := range items {
		cat.Items[it.ID] = it
		cat.ItemOrder = append(cat.ItemOrder, it.ID)
	}

	pets := []types.PetDef{
		{ID: "griffin_jr", Name: "Griffin Jr", Grade: types.GradeRare, AttackBonus: 5,
			Skill: types.PetSkill{Name: "Claw", Kind: types.SkillDamage, Chance: 0.15, Amount: 10}},
		{ID: "stone_turtle", Name: "Stone Turtle", Grade: types.GradeRare, DefenseBonus: 8,
			Skill: types.PetSkill{Name: "Harden", Kind: types.SkillDefenseBuff, Chance: 1.0, Amount: 10}},
		{ID: "baby_dragon", Name: "Baby Dragon", Grade: types.GradeEpic, AttackBonus: 10, DefenseBonus: 5,
			Skill: types.PetSkill{Name: "Little Ember", Kind: types.SkillDamage, Chance: 0.2, Amount: 25}},
	}
	for _, p := range pets {
		cat.Pets[p.ID] = p
		cat.PetOrder = append(cat.PetOrder, p.ID)
	}

	monsters := []types.MonsterDef{
		{ID: "slime", Name: "Slime", HP: 20, Attack: 5, Defense: 0, XP: 5, Gold: 10, Trophies: 5, Wild: true,
			Loot: []types.LootEntry{{ItemID: "leather", Chance: 0.1, Quantity: 1}}},
		{ID: "goblin", Name: "Goblin", HP: 30, Attack: 6, Defense: 2, XP: 10, Gold: 20, Trophies: 10, Wild: true,
			Loot: []types.LootEntry{{ItemID: "old_sword", Chance: 0.05, Quantity: 1}}},
		{ID: "orc", Name: "Orc", HP: 45, Attack: 8, Defense: 3, XP: 20, Gold: 40, Trophies: 15, Wild: true,
			Loot: []types.LootEntry{{ItemID: "steel_sword", Chance: 0.02, Quantity: 1}}},
		{ID: "dungeon_guardian", Name: "Dungeon Guardian", HP: 130, Attack: 18, Defense: 7, XP: 100, Gold: 200, Trophies: 20,
			Loot: []types.LootEntry{{ItemID: "magic_stone", Chance: 0.5, Quantity: 2}}},
	}
	for _, m := range monsters {
		cat.Monsters[m.ID] = m
		cat.MonsterOrder = append(cat.MonsterOrder, m.ID)
	}

	dungeons := []types.Dungeon{
		{ID: "slime_den", Name: "Slime Den", Difficulty: 1,
			Stages:  []string{"slime", "slime", "slime", "slime", "goblin", "slime", "slime", "goblin", "slime", "goblin"},
			Rewards: types.Reward{XP: 150, Gold: 250, Items: []types.ItemGrant{{ItemID: "leather", Quantity: 5}}}},
		{ID: "goblin_cave", Name: "Goblin Cave", Difficulty: 2,
			Stages:  []string{"goblin", "goblin", "goblin", "orc", "goblin", "orc", "goblin", "orc", "orc", "orc"},
			Rewards: types.Reward{XP: 500, Gold: 1000, Items: []types.ItemGrant{{ItemID: "magic_stone", Quantity: 3}}}},
		{ID: "orc_outpost", Name: "Orc Outpost", Difficulty: 3,
			Stages: []string{"orc", "orc", "orc", "orc", "orc", "dungeon_guardian", "orc", "dungeon_guardian", "orc", "dungeon_guardian"},
			Rewards: types.Reward{XP: 2500, Gold: 5000, Items: []types.ItemGrant{
				{ItemID: "commander_spear", Quantity: 1}, {ItemID: "magic_stone", Quantity: 10}}},
			Substitutes: []types.Substitute{{Monster: "dungeon_guardian", With: "orc", BelowLevel: 10}}},
	}
	for _, d := range dungeons {
		cat.Dungeons[d.ID] = d
		cat.DungeonOrder = append(cat.DungeonOrder, d.ID)
	}

	quests := []types.QuestDef{
		{ID: "novice_hunter", Title: "Novice Hunter", Kind: types.QuestDefeatMonster, Target: "slime", Quantity: 5,
			Rewards: types.Reward{XP: 50, Gold: 100}},
		{ID: "leather_gathering", Title: "Leather Gathering", Kind: types.QuestCollectItem, Target: "leather", Quantity: 10,
			Rewards: types.Reward{XP: 30, Gold: 150}},
		{ID: "first_craft", Title: "First Craft", Kind: types.QuestCraftItem, Target: "steel_sword", Quantity: 1,
			Rewards: types.Reward{XP: 100, Gold: 200, Items: []types.ItemGrant{{ItemID: "magic_stone", Quantity: 2}}}},
		{ID: "cave_cleaner", Title: "Cave Cleaner", Kind: types.QuestClearDungeon, Target: "slime_den", Quantity: 1,
			Rewards: types.Reward{XP: 80, Gold: 300}},
	}
	for _, q := range quests {
		cat.Quests[q.ID] = q
		cat.QuestOrder = append(cat.QuestOrder, q.ID)
	}

	recipes := []types.Recipe{
		{ID: "craft_steel_sword", Result: "steel_sword", MinCraftingLevel: 1,
			Materials: []types.MaterialCost{{ItemID: "iron_ore", Quantity: 5}}},
		{ID: "craft_leather_armor", Result: "leather_armor", MinCraftingLevel: 1,
			Materials: []types.MaterialCost{{ItemID: "leather", Quantity: 10}}},
	}
	for _, r := range recipes {
		cat.Recipes[r.ID] = r
		cat.RecipeOrder = append(cat.RecipeOrder, r.ID)
	}

	cat.Town = []types.TownLevel{
		{Level: 1, Name: "Ruins", XPRequired: 0, UpgradeCost: 1000},
		{Level: 2, Name: "Village", XPRequired: 100, UpgradeCost: 3000},
		{Level: 3, Name: "City", XPRequired: 500, UpgradeCost: 12000},
		{Level: 4, Name: "Castle", XPRequired: 2000, UpgradeCost: 50000},
		{Level: 5, Name: "Kingdom", XPRequired: 10000},
	}
	cat.Milestones = []types.TrophyMilestone{
		{ID: "trophy_100", Trophies: 100, Rewards: types.Reward{Gold: 500}},
		{ID: "trophy_250", Trophies: 250, Rewards: types.Reward{Items: []types.ItemGrant{{ItemID: "magic_stone", Quantity: 5}}}},
		{ID: "trophy_500", Trophies: 500, Rewards: types.Reward{Gold: 2000, Items: []types.ItemGrant{{ItemID: "steel_armor", Quantity: 1}}}},
		{ID: "trophy_1000", Trophies: 1000, Rewards: types.Reward{Gold: 10000, Items: []types.ItemGrant{{ItemID: "elven_bow", Quantity: 1}}}},
	}

	classes := []types.ClassDef{
		{ID: "adventurer", Name: "Adventurer", Default: true,
			Ultimate: types.Ultimate{Name: "Power Strike", Multiplier: 2.5}},
		{ID: "warrior", Name: "Warrior", MaxHP: 20, Defense: 5,
			Ultimate: types.Ultimate{Name: "Crushing Blow", Multiplier: 3, StunChance: 0.5, StunTurns: 1}},
		{ID: "archer", Name: "Archer", Attack: 5, CritChance: 0.05,
			Ultimate: types.Ultimate{Name: "Snipe", Multiplier: 1, CritScale: 2}},
	}
	for _, c := range classes {
		cat.Classes[c.ID] = c
		cat.ClassOrder = append(cat.ClassOrder, c.ID)
	}

	gachas := []types.GachaDef{
		{ID: "item_gacha", Name: "Item Shrine", Kind: types.GachaItem, Cost: 300, Buckets: []types.GachaBucket{
			{Grade: types.GradeLegendary, Chance: 0.01},
			{Grade: types.GradeEpic, Chance: 0.05},
			{Grade: types.GradeRare, Chance: 0.15},
			{Grade: types.GradeUncommon, Chance: 0.30},
			{Grade: types.GradeCommon, Chance: 0.49},
		}},
		{ID: "pet_gacha", Name: "Pet Shrine", Kind: types.GachaPet, Cost: 500, Buckets: []types.GachaBucket{
			{Grade: types.GradeEpic, Chance: 0.05},
			{Grade: types.GradeRare, Chance: 0.95},
		}},
	}
	for _, g := range gachas {
		cat.Gachas[g.ID] = g
		cat.GachaOrder = append(cat.GachaOrder, g.ID)
	}

	cat.Start = types.PlayerState{
		Name:          "Adventurer",
		Level:         1,
		XP:            0,
		XPToNextLevel: 100,
		HP:            50,
		MaxHP:         50,
		Attack:        5,
		Defense:       2,
		Gold:          100,
		CraftingLevel: 1,
		TownLevel:     1,
		Equipment: types.Equipment{
			Weapon: &types.ItemRef{ItemID: "wooden_club"},
		},
	}

	return cat
}

// Player returns the starting player of cat after applying edit.
func Player(cat *state.Catalog, edit func(p *types.PlayerState)) types.PlayerState {
	p := state.NewPlayer(cat)
	if edit != nil {
		edit(&p)
	}
	return p
}
