package loader

import (
	"fmt"
	"math"
	"strings"

	"github.com/nathoo/gacharealm/engine/economy"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var validPetSkills = map[types.PetSkillKind]bool{
	types.SkillDamage:      true,
	types.SkillHeal:        true,
	types.SkillDefenseBuff: true,
}

var validConsumables = map[types.ConsumableKind]bool{
	types.ConsumableHeal:        true,
	types.ConsumableDamageEnemy: true,
}

// validate checks the compiled catalog for referential integrity and
// consistency. Warnings never fail the load.
func validate(cat *state.Catalog) ([]string, error) {
	ve := &ValidationError{}

	if cat.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	if m := cat.Game.EnhanceMaterial; m != "" {
		if it, ok := cat.Items[m]; !ok || it.Kind != types.KindMaterial {
			ve.errorf("Game.enhance_material %q is not a material item", m)
		}
	}

	validateStart(cat, ve)
	validateItems(cat, ve)
	validatePets(cat, ve)
	validateMonsters(cat, ve)
	validateDungeons(cat, ve)
	validateQuests(cat, ve)
	validateRecipes(cat, ve)
	validateTown(cat, ve)
	validateClasses(cat, ve)
	validateGachas(cat, ve)

	for _, m := range cat.Milestones {
		if m.Trophies <= 0 {
			ve.errorf("trophy %q: trophies must be positive", m.ID)
		}
		validateReward(cat, ve, "trophy "+m.ID, m.Rewards)
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateStart(cat *state.Catalog, ve *ValidationError) {
	p := cat.Start
	if p.MaxHP <= 0 {
		ve.errorf("Player.max_hp must be positive")
	}
	if p.Level <= 0 {
		ve.errorf("Player.level must be positive")
	}
	if p.XPToNextLevel <= 0 {
		ve.errorf("Player.xp_to_next_level must be positive")
	}
	if w := p.Equipment.Weapon; w != nil {
		if it, ok := cat.Items[w.ItemID]; !ok || it.Kind != types.KindWeapon {
			ve.errorf("Player.weapon %q is not a weapon", w.ItemID)
		}
	}
	if a := p.Equipment.Armor; a != nil {
		if it, ok := cat.Items[a.ItemID]; !ok || it.Kind != types.KindArmor {
			ve.errorf("Player.armor %q is not an armor", a.ItemID)
		}
	}
	for _, e := range p.Inventory {
		if _, ok := cat.Items[e.ItemID]; !ok {
			ve.errorf("Player.inventory references unknown item %q", e.ItemID)
		}
		if e.Quantity <= 0 {
			ve.errorf("Player.inventory %q: quantity must be positive", e.ItemID)
		}
	}
}

func validateItems(cat *state.Catalog, ve *ValidationError) {
	for _, id := range cat.ItemOrder {
		it := cat.Items[id]
		if it.Name == "" {
			ve.errorf("item %q: name is required", id)
		}
		if state.GradeOrder(it.Grade) == 0 {
			ve.errorf("item %q: unknown grade %q", id, it.Grade)
		}
		if it.Price < 0 {
			ve.errorf("item %q: price cannot be negative", id)
		}
		switch it.Kind {
		case types.KindWeapon:
			if it.Damage <= 0 {
				ve.warnf("item %q: weapon has no damage", id)
			}
			if it.CritChance < 0 || it.CritChance > 1 || it.ProcChance < 0 || it.ProcChance > 1 {
				ve.errorf("item %q: chances must be within [0,1]", id)
			}
		case types.KindConsumable:
			if it.Effect == nil {
				ve.errorf("item %q: consumable needs an effect", id)
			} else if !validConsumables[it.Effect.Kind] {
				ve.errorf("item %q: unknown effect %q", id, it.Effect.Kind)
			} else if it.Effect.Amount <= 0 {
				ve.errorf("item %q: effect amount must be positive", id)
			}
		}
	}
}

func validatePets(cat *state.Catalog, ve *ValidationError) {
	for _, id := range cat.PetOrder {
		pet := cat.Pets[id]
		if pet.Name == "" {
			ve.errorf("pet %q: name is required", id)
		}
		if state.GradeOrder(pet.Grade) == 0 {
			ve.errorf("pet %q: unknown grade %q", id, pet.Grade)
		}
		if !validPetSkills[pet.Skill.Kind] {
			ve.errorf("pet %q: unknown skill kind %q", id, pet.Skill.Kind)
		}
		if pet.Skill.Chance < 0 || pet.Skill.Chance > 1 {
			ve.errorf("pet %q: skill chance must be within [0,1]", id)
		}
	}
}

func validateMonsters(cat *state.Catalog, ve *ValidationError) {
	wild := 0
	for _, id := range cat.MonsterOrder {
		m := cat.Monsters[id]
		if m.HP <= 0 {
			ve.errorf("monster %q: hp must be positive", id)
		}
		if m.Wild {
			wild++
		}
		for _, l := range m.Loot {
			if _, ok := cat.Items[l.ItemID]; !ok {
				ve.errorf("monster %q: loot references unknown item %q", id, l.ItemID)
			}
			if l.Chance <= 0 || l.Chance > 1 {
				ve.errorf("monster %q: loot chance for %q must be within (0,1]", id, l.ItemID)
			}
			if l.Quantity <= 0 {
				ve.errorf("monster %q: loot quantity for %q must be positive", id, l.ItemID)
			}
		}
	}
	if wild == 0 {
		ve.warnf("no wild monsters: hunting is unavailable")
	}
}

func validateDungeons(cat *state.Catalog, ve *ValidationError) {
	for _, id := range cat.DungeonOrder {
		d := cat.Dungeons[id]
		if len(d.Stages) == 0 {
			ve.errorf("dungeon %q: needs at least one stage", id)
		}
		for i, m := range d.Stages {
			if _, ok := cat.Monsters[m]; !ok {
				ve.errorf("dungeon %q: stage %d references unknown monster %q", id, i+1, m)
			}
		}
		for _, s := range d.Substitutes {
			if _, ok := cat.Monsters[s.Monster]; !ok {
				ve.errorf("dungeon %q: substitute references unknown monster %q", id, s.Monster)
			}
			if _, ok := cat.Monsters[s.With]; !ok {
				ve.errorf("dungeon %q: substitute references unknown monster %q", id, s.With)
			}
		}
		validateReward(cat, ve, "dungeon "+id, d.Rewards)
	}
}

func validateQuests(cat *state.Catalog, ve *ValidationError) {
	for _, id := range cat.QuestOrder {
		q := cat.Quests[id]
		if q.Quantity <= 0 {
			ve.errorf("quest %q: quantity must be positive", id)
		}
		var ok bool
		switch q.Kind {
		case types.QuestDefeatMonster:
			_, ok = cat.Monsters[q.Target]
		case types.QuestCollectItem, types.QuestCraftItem:
			_, ok = cat.Items[q.Target]
		case types.QuestClearDungeon:
			_, ok = cat.Dungeons[q.Target]
		default:
			ve.errorf("quest %q: unknown kind %q", id, q.Kind)
			continue
		}
		if !ok {
			ve.errorf("quest %q: unknown target %q", id, q.Target)
		}
		validateReward(cat, ve, "quest "+id, q.Rewards)
	}
}

func validateRecipes(cat *state.Catalog, ve *ValidationError) {
	for _, id := range cat.RecipeOrder {
		r := cat.Recipes[id]
		if _, ok := cat.Items[r.Result]; !ok {
			ve.errorf("recipe %q: unknown result %q", id, r.Result)
		}
		if len(r.Materials) == 0 {
			ve.errorf("recipe %q: needs at least one material", id)
		}
		for _, m := range r.Materials {
			if _, ok := cat.Items[m.ItemID]; !ok {
				ve.errorf("recipe %q: unknown material %q", id, m.ItemID)
			}
			if m.Quantity <= 0 {
				ve.errorf("recipe %q: material %q quantity must be positive", id, m.ItemID)
			}
		}
	}
}

func validateTown(cat *state.Catalog, ve *ValidationError) {
	if len(cat.Town) == 0 {
		ve.errorf("no Town{} levels defined")
		return
	}
	for i, t := range cat.Town {
		if t.Level != i+1 {
			ve.errorf("town levels must be contiguous from 1, found %d at position %d", t.Level, i+1)
		}
		if i > 0 && t.XPRequired < cat.Town[i-1].XPRequired {
			ve.errorf("town level %d: xp_required decreases", t.Level)
		}
		if i < len(cat.Town)-1 && t.UpgradeCost <= 0 {
			ve.errorf("town level %d: upgrade_cost must be positive", t.Level)
		}
	}
}

func validateClasses(cat *state.Catalog, ve *ValidationError) {
	defaults := 0
	for _, id := range cat.ClassOrder {
		c := cat.Classes[id]
		if c.Default {
			defaults++
		}
		if c.Ultimate.Name == "" {
			ve.errorf("class %q: ultimate name is required", id)
		}
		if c.Ultimate.Multiplier <= 0 {
			ve.errorf("class %q: ultimate multiplier must be positive", id)
		}
		if c.Ultimate.StunChance < 0 || c.Ultimate.StunChance > 1 {
			ve.errorf("class %q: stun chance must be within [0,1]", id)
		}
	}
	if defaults != 1 {
		ve.errorf("exactly one default class is required, found %d", defaults)
	}
}

func validateGachas(cat *state.Catalog, ve *ValidationError) {
	for _, id := range cat.GachaOrder {
		g := cat.Gachas[id]
		if g.Kind != types.GachaItem && g.Kind != types.GachaPet {
			ve.errorf("gacha %q: unknown kind %q", id, g.Kind)
			continue
		}
		if g.Cost <= 0 {
			ve.errorf("gacha %q: cost must be positive", id)
		}
		sum := 0.0
		for _, b := range g.Buckets {
			sum += b.Chance
			if state.GradeOrder(b.Grade) == 0 {
				ve.errorf("gacha %q: unknown grade %q", id, b.Grade)
				continue
			}
			if len(economy.Pool(cat, g.Kind, b.Grade)) == 0 {
				ve.errorf("gacha %q: no %s of grade %s", id, g.Kind, b.Grade)
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			ve.errorf("gacha %q: bucket chances sum to %g, want 1", id, sum)
		}
	}
}

func validateReward(cat *state.Catalog, ve *ValidationError, owner string, r types.Reward) {
	for _, g := range r.Items {
		if _, ok := cat.Items[g.ItemID]; !ok {
			ve.errorf("%s: reward references unknown item %q", owner, g.ItemID)
		}
		if g.Quantity <= 0 {
			ve.errorf("%s: reward quantity for %q must be positive", owner, g.ItemID)
		}
	}
}
