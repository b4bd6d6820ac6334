// Package types defines the shared data structures for the GachaRealm engine.
// This package contains only type definitions: no logic, no methods.
package types

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// ItemKind is the closed set of item categories.
type ItemKind string

const (
	KindWeapon     ItemKind = "weapon"
	KindArmor      ItemKind = "armor"
	KindPetArmor   ItemKind = "pet_armor"
	KindConsumable ItemKind = "consumable"
	KindMaterial   ItemKind = "material"
)

// Grade is an item or pet rarity tier.
type Grade string

const (
	GradeCommon    Grade = "Common"
	GradeUncommon  Grade = "Uncommon"
	GradeRare      Grade = "Rare"
	GradeEpic      Grade = "Epic"
	GradeLegendary Grade = "Legendary"
	GradeUltimate  Grade = "Ultimate"
)

// ConsumableKind selects what a consumable does when used.
type ConsumableKind string

const (
	ConsumableHeal        ConsumableKind = "heal"
	ConsumableDamageEnemy ConsumableKind = "damage_enemy"
)

// ConsumableEffect is the effect of a consumable item.
type ConsumableEffect struct {
	Kind     ConsumableKind
	Amount   int
	Duration int // turns; 0 = instant
}

// Item is an immutable catalog record.
type Item struct {
	ID          string
	Kind        ItemKind
	Name        string
	Description string
	Grade       Grade
	Price       int

	// Weapon stats.
	Damage         int
	Accuracy       float64 // 0 = default
	CritChance     float64
	CritMultiplier float64 // 0 = default
	ProcChance     float64
	ProcDamage     int
	WeaponType     string

	// Armor and pet armor.
	Defense int

	Effect *ConsumableEffect // consumables only
}

// ItemRef identifies a stack: the same item at the same enhancement level.
type ItemRef struct {
	ItemID      string `json:"item_id"`
	Enhancement int    `json:"enhancement"`
}

// InventoryEntry is a stack of identical items in the player's inventory.
type InventoryEntry struct {
	ItemRef
	Quantity int `json:"quantity"`
}

// Equipment holds the player's equipped gear.
type Equipment struct {
	Weapon *ItemRef `json:"weapon,omitempty"`
	Armor  *ItemRef `json:"armor,omitempty"`
}

// PetSkillKind is the closed set of pet skill behaviors.
type PetSkillKind string

const (
	SkillDamage      PetSkillKind = "damage"
	SkillHeal        PetSkillKind = "heal"
	SkillDefenseBuff PetSkillKind = "defense_buff"
)

// PetSkill is a chance-based pet ability. For defense_buff, Amount is a
// percentage applied to the player's defense.
type PetSkill struct {
	Name   string
	Kind   PetSkillKind
	Chance float64
	Amount int
}

// PetDef is the catalog definition of a pet species.
type PetDef struct {
	ID           string
	Name         string
	Description  string
	Grade        Grade
	AttackBonus  int
	DefenseBonus int
	Skill        PetSkill
}

// Pet is an owned pet instance.
type Pet struct {
	ID          string   `json:"id"`
	Species     string   `json:"species"`
	Nickname    string   `json:"nickname,omitempty"`
	Enhancement int      `json:"enhancement"`
	Armor       *ItemRef `json:"armor,omitempty"`
}

// LootEntry is one independent drop roll.
type LootEntry struct {
	ItemID   string
	Chance   float64
	Quantity int
}

// MonsterDef is the catalog definition of a monster.
type MonsterDef struct {
	ID       string
	Name     string
	Icon     string
	HP       int
	Attack   int
	Defense  int
	XP       int
	Gold     int
	Trophies int
	Loot     []LootEntry
	Wild     bool // eligible for random hunts
}

// Monster is a live battle instance. It is never persisted.
type Monster struct {
	MonsterDef
	MaxHP int
	Stun  int // enemy turns left to skip
}

// ItemGrant is a quantity of an unenhanced item.
type ItemGrant struct {
	ItemID   string
	Quantity int
}

// Reward is a bundle granted by dungeons, quests, and milestones.
type Reward struct {
	XP    int
	Gold  int
	Items []ItemGrant
}

// Substitute swaps a stage monster for another below a player level.
type Substitute struct {
	Monster    string
	With       string
	BelowLevel int
}

// Dungeon is the catalog definition of a multi-stage battle sequence.
type Dungeon struct {
	ID          string
	Name        string
	Description string
	Difficulty  int
	Stages      []string // monster IDs
	Rewards     Reward
	Substitutes []Substitute
}

// QuestKind is the closed set of quest objectives.
type QuestKind string

const (
	QuestDefeatMonster QuestKind = "DEFEAT_MONSTER"
	QuestCollectItem   QuestKind = "COLLECT_ITEM"
	QuestCraftItem     QuestKind = "CRAFT_ITEM"
	QuestClearDungeon  QuestKind = "CLEAR_DUNGEON"
)

// QuestDef is the catalog definition of a quest.
type QuestDef struct {
	ID          string
	Title       string
	Description string
	Kind        QuestKind
	Target      string
	Quantity    int
	Rewards     Reward
}

// QuestProgress tracks an active quest.
type QuestProgress struct {
	QuestID   string `json:"quest_id"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

// MaterialCost is one ingredient of a recipe.
type MaterialCost struct {
	ItemID   string
	Quantity int
}

// Recipe is a crafting recipe producing one unenhanced item.
type Recipe struct {
	ID               string
	Result           string
	Materials        []MaterialCost
	MinCraftingLevel int
}

// TownLevel is one tier of town development. UpgradeCost is the gold
// needed to leave this tier (0 at max).
type TownLevel struct {
	Level       int
	Name        string
	XPRequired  int
	UpgradeCost int
}

// TrophyMilestone is a one-time reward unlocked by trophy count.
type TrophyMilestone struct {
	ID       string
	Trophies int
	Rewards  Reward
}

// Ultimate is a class finisher usable at full charge.
type Ultimate struct {
	Name       string
	Multiplier float64
	StunChance float64
	StunTurns  int
	CritScale  float64 // > 0 means guaranteed crit at weapon multiplier × CritScale
}

// ClassDef is a selectable character class.
type ClassDef struct {
	ID          string
	Name        string
	Description string
	MaxHP       int
	Attack      int
	Defense     int
	CritChance  float64
	Default     bool // ultimate used while no class is chosen
	Ultimate    Ultimate
}

// GachaKind selects what a gacha pool produces.
type GachaKind string

const (
	GachaItem GachaKind = "item"
	GachaPet  GachaKind = "pet"
)

// GachaBucket is one grade probability of a gacha.
type GachaBucket struct {
	Grade  Grade
	Chance float64
}

// GachaDef is a gacha machine.
type GachaDef struct {
	ID      string
	Name    string
	Kind    GachaKind
	Cost    int
	Buckets []GachaBucket
}

// GachaResult is exactly one of an item stack ref or a new pet.
type GachaResult struct {
	Item *ItemRef
	Pet  *Pet
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title           string
	Author          string
	Version         string
	Intro           string
	EnhanceMaterial string // item consumed by enhancement
}

// PlayerState is the complete persisted player record.
type PlayerState struct {
	Name              string           `json:"name"`
	Level             int              `json:"level"`
	XP                int              `json:"xp"`
	XPToNextLevel     int              `json:"xp_to_next_level"`
	HP                int              `json:"hp"`
	MaxHP             int              `json:"max_hp"`
	Attack            int              `json:"attack"`
	Defense           int              `json:"defense"`
	Gold              int              `json:"gold"`
	CraftingLevel     int              `json:"crafting_level"`
	Trophies          int              `json:"trophies"`
	ClaimedMilestones []string         `json:"claimed_milestones"`
	Inventory         []InventoryEntry `json:"inventory"`
	Equipment         Equipment        `json:"equipment"`
	Class             string           `json:"class,omitempty"`
	TownLevel         int              `json:"town_level"`
	TownXP            int              `json:"town_xp"`
	ActiveQuests      []QuestProgress  `json:"active_quests"`
	CompletedQuests   []string         `json:"completed_quests"`
	Pets              []Pet            `json:"pets"`
	ActivePetID       string           `json:"active_pet_id,omitempty"`
}

// Event is emitted by mutators and consumed by quest dispatch.
type Event struct {
	Type    string
	Subject string // monster, item, or dungeon ID
	Amount  int
	Source  string // "loot", "dungeon", "shop", "gacha", ...
}

// LoreRequest asks a front end to fetch flavor text for an item.
type LoreRequest struct {
	Name        string
	Type        string
	Description string
}

// Result is the output of a single game step.
type Result struct {
	Events []Event
	Output []string
	Lore   *LoreRequest
}

// Event types emitted by the engine.
const (
	EventMonsterDefeated = "monster_defeated"
	EventItemGained      = "item_gained"
	EventItemCrafted     = "item_crafted"
	EventDungeonCleared  = "dungeon_cleared"
	EventLevelUp         = "level_up"
	EventQuestCompleted  = "quest_completed"
)

// Event sources for EventItemGained.
const (
	SourceLoot      = "loot"
	SourceDungeon   = "dungeon"
	SourceShop      = "shop"
	SourceGacha     = "gacha"
	SourceCraft     = "craft"
	SourceQuest     = "quest"
	SourceMilestone = "milestone"
	SourceEnhance   = "enhance"
)
