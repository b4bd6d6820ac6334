// Package battle resolves turn-based fights between the player and one
// monster. A Battle holds the monster and turn state; the player is passed
// in as a snapshot and returned updated, the same way the economy mutators
// work.
package battle

import (
	"fmt"
	"math"

	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/progression"
	"github.com/nathoo/gacharealm/engine/rng"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// Phase is the battle state machine position.
type Phase int

const (
	NotStarted Phase = iota
	PlayerTurn
	EnemyTurn
	Victory
	Defeat
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case PlayerTurn:
		return "player turn"
	case EnemyTurn:
		return "enemy turn"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

const (
	// MaxCharge is the ultimate gauge size; the ultimate fires only when full.
	MaxCharge = 5
	// ReviveHP is the hp a defeated player is left with.
	ReviveHP = 1
	// TownXPDivisor splits monster xp into town xp.
	TownXPDivisor = 2
)

// Options are the battle policy knobs.
type Options struct {
	MissChargesUltimate bool
}

// DefaultOptions returns the standard policy: a miss still charges.
func DefaultOptions() Options {
	return Options{MissChargesUltimate: true}
}

// Battle is one fight. It is never persisted.
type Battle struct {
	Monster     types.Monster
	Phase       Phase
	Charge      int
	DefenseBuff int // percent bonus to player defense for this battle

	opts Options
}

// New prepares a battle against a scaled copy of def.
func New(def types.MonsterDef, factor float64, opts Options) *Battle {
	return &Battle{
		Monster: Scale(def, factor),
		Phase:   NotStarted,
		opts:    opts,
	}
}

// Scale copies def into a live monster with hp, attack, and defense
// multiplied by factor (floored, at least 1 hp). Factors of 1 or below
// zero keep the catalog numbers.
func Scale(def types.MonsterDef, factor float64) types.Monster {
	m := types.Monster{MonsterDef: def}
	if factor > 0 && factor != 1 {
		m.HP = int(math.Floor(float64(def.HP) * factor))
		m.Attack = int(math.Floor(float64(def.Attack) * factor))
		m.Defense = int(math.Floor(float64(def.Defense) * factor))
	}
	if m.HP < 1 {
		m.HP = 1
	}
	m.Loot = append([]types.LootEntry(nil), def.Loot...)
	m.MaxHP = m.HP
	return m
}

// RandomWild picks a wild monster uniformly in catalog order.
func RandomWild(cat *state.Catalog, src rng.Source) (types.MonsterDef, error) {
	var pool []string
	for _, id := range cat.MonsterOrder {
		if cat.Monsters[id].Wild {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		return types.MonsterDef{}, errors.NotFound("There is nothing to hunt here.")
	}
	return cat.Monsters[pool[src.Intn(len(pool))]], nil
}

// Over reports whether the battle has ended.
func (b *Battle) Over() bool {
	return b.Phase == Victory || b.Phase == Defeat
}

// Ready reports whether the ultimate can be used.
func (b *Battle) Ready() bool {
	return b.Charge >= MaxCharge
}

func (b *Battle) expect(phase Phase) error {
	if b.Over() {
		return errors.FailedPrecondition("The battle is already over.")
	}
	if b.Phase != phase {
		return errors.FailedPreconditionf("You cannot do that during the %s.", b.Phase)
	}
	return nil
}

func (b *Battle) charge() {
	if b.Charge < MaxCharge {
		b.Charge++
	}
}

// Start opens the battle on the player's turn. A defense_buff pet skill is
// rolled here and lasts the whole battle; a skill with chance 1 does not
// consume a draw.
func (b *Battle) Start(cat *state.Catalog, p types.PlayerState, src rng.Source) (types.Result, error) {
	if b.Phase != NotStarted {
		return types.Result{}, errors.FailedPrecondition("The battle has already started.")
	}
	out := []string{fmt.Sprintf("A wild %s appears! (HP %d, ATK %d, DEF %d)",
		b.Monster.Name, b.Monster.HP, b.Monster.Attack, b.Monster.Defense)}

	if pet, def, ok := state.ActivePet(cat, p); ok && def.Skill.Kind == types.SkillDefenseBuff {
		if def.Skill.Chance >= 1 || rng.Chance(src, def.Skill.Chance) {
			b.DefenseBuff = def.Skill.Amount
			out = append(out, fmt.Sprintf("%s uses %s! Defense +%d%% for this battle.",
				state.PetName(cat, pet), def.Skill.Name, def.Skill.Amount))
		}
	}

	b.Phase = PlayerTurn
	return types.Result{Output: out}, nil
}

// Attack resolves a basic attack. Draws happen in a fixed order:
// accuracy, crit, weapon proc, pet skill.
func (b *Battle) Attack(cat *state.Catalog, p types.PlayerState, src rng.Source) (types.PlayerState, types.Result, error) {
	if err := b.expect(PlayerTurn); err != nil {
		return p, types.Result{}, err
	}
	next := state.Clone(p)
	var out []string

	// 1. Accuracy.
	if !rng.Chance(src, state.Accuracy(cat, next)) {
		out = append(out, "Your attack missed!")
		if b.opts.MissChargesUltimate {
			b.charge()
		}
		b.Phase = EnemyTurn
		return next, types.Result{Output: out}, nil
	}

	// 2. Crit, applied to attack power before mitigation.
	power := state.TotalAttack(cat, next)
	crit := rng.Chance(src, state.CritChance(cat, next))
	if crit {
		power = int(math.Floor(float64(power) * state.CritMultiplier(cat, next)))
	}
	dmg := progression.Damage(power, b.Monster.Defense)
	if crit {
		out = append(out, fmt.Sprintf("Critical hit! You deal %d damage to the %s.", dmg, b.Monster.Name))
	} else {
		out = append(out, fmt.Sprintf("You deal %d damage to the %s.", dmg, b.Monster.Name))
	}

	// 3. Weapon proc.
	if w, _, ok := state.EquippedWeapon(cat, next); ok && w.ProcDamage > 0 {
		if rng.Chance(src, w.ProcChance) {
			dmg += w.ProcDamage
			out = append(out, fmt.Sprintf("%s triggers! %d extra damage.", w.Name, w.ProcDamage))
		}
	}

	// 4. Pet skill.
	if pet, def, ok := state.ActivePet(cat, next); ok {
		switch def.Skill.Kind {
		case types.SkillDamage:
			if rng.Chance(src, def.Skill.Chance) {
				dmg += def.Skill.Amount
				out = append(out, fmt.Sprintf("%s uses %s! %d extra damage.", state.PetName(cat, pet), def.Skill.Name, def.Skill.Amount))
			}
		case types.SkillHeal:
			if rng.Chance(src, def.Skill.Chance) {
				before := next.HP
				effects.Apply(cat, &next, []effects.Effect{{Kind: effects.Heal, Amount: def.Skill.Amount}})
				out = append(out, fmt.Sprintf("%s uses %s! You recover %d HP.", state.PetName(cat, pet), def.Skill.Name, next.HP-before))
			}
		case types.SkillDefenseBuff:
			// Rolled once in Start.
		default:
			return p, types.Result{}, errors.Internalf("unknown pet skill kind %q", def.Skill.Kind)
		}
	}

	b.Monster.HP -= dmg
	b.charge()
	res := b.afterPlayerAction(cat, &next, src, out)
	return next, res, nil
}

// Ultimate fires the class finisher at full charge and empties the gauge.
func (b *Battle) Ultimate(cat *state.Catalog, p types.PlayerState, src rng.Source) (types.PlayerState, types.Result, error) {
	if err := b.expect(PlayerTurn); err != nil {
		return p, types.Result{}, err
	}
	if !b.Ready() {
		return p, types.Result{}, errors.Insufficientf("Your ultimate is not charged (%d/%d).", b.Charge, MaxCharge)
	}
	class, ok := state.Class(cat, p)
	if !ok {
		return p, types.Result{}, errors.Internal("no class defines an ultimate")
	}
	ult := class.Ultimate
	next := state.Clone(p)

	mult := ult.Multiplier
	if ult.CritScale > 0 {
		mult = state.CritMultiplier(cat, next) * ult.CritScale
	}
	power := int(math.Floor(float64(state.TotalAttack(cat, next)) * mult))
	dmg := progression.Damage(power, b.Monster.Defense)
	b.Monster.HP -= dmg
	b.Charge = 0

	out := []string{fmt.Sprintf("%s! You deal %d damage to the %s.", ult.Name, dmg, b.Monster.Name)}
	if ult.StunChance > 0 && b.Monster.HP > 0 && rng.Chance(src, ult.StunChance) {
		b.Monster.Stun = ult.StunTurns
		out = append(out, fmt.Sprintf("The %s is stunned!", b.Monster.Name))
	}

	res := b.afterPlayerAction(cat, &next, src, out)
	return next, res, nil
}

// UseItem consumes one unit of a consumable during the player's turn.
func (b *Battle) UseItem(cat *state.Catalog, p types.PlayerState, ref types.ItemRef, src rng.Source) (types.PlayerState, types.Result, error) {
	if err := b.expect(PlayerTurn); err != nil {
		return p, types.Result{}, err
	}
	item, ok := cat.Items[ref.ItemID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such item: %s", ref.ItemID)
	}
	if item.Kind != types.KindConsumable {
		return p, types.Result{}, errors.InvalidTargetf("%s cannot be used in battle.", item.Name)
	}
	if item.Effect == nil {
		return p, types.Result{}, errors.Internalf("consumable %s has no effect", item.ID)
	}
	if state.Quantity(p, ref) < 1 {
		return p, types.Result{}, errors.Insufficientf("You have no %s.", state.ItemName(cat, ref))
	}

	next := state.Clone(p)
	var out []string
	switch item.Effect.Kind {
	case types.ConsumableHeal:
		before := next.HP
		effects.Apply(cat, &next, []effects.Effect{{Kind: effects.Heal, Amount: item.Effect.Amount}})
		out = append(out, fmt.Sprintf("You use %s and recover %d HP.", item.Name, next.HP-before))
	case types.ConsumableDamageEnemy:
		b.Monster.HP -= item.Effect.Amount
		out = append(out, fmt.Sprintf("You throw %s! %d damage to the %s.", item.Name, item.Effect.Amount, b.Monster.Name))
	default:
		return p, types.Result{}, errors.Internalf("unknown consumable kind %q", item.Effect.Kind)
	}
	state.RemoveItem(&next, ref, 1)
	b.charge()

	res := b.afterPlayerAction(cat, &next, src, out)
	return next, res, nil
}

// EnemyTurn resolves the monster's action. A stunned monster skips its
// turn and the stun counts down.
func (b *Battle) EnemyTurn(cat *state.Catalog, p types.PlayerState) (types.PlayerState, types.Result, error) {
	if err := b.expect(EnemyTurn); err != nil {
		return p, types.Result{}, err
	}
	next := state.Clone(p)

	if b.Monster.Stun > 0 {
		b.Monster.Stun--
		b.Phase = PlayerTurn
		return next, types.Result{Output: []string{fmt.Sprintf("The %s is stunned and cannot move!", b.Monster.Name)}}, nil
	}

	dmg := progression.Damage(b.Monster.Attack, b.Defense(cat, next))
	next.HP -= dmg
	out := []string{fmt.Sprintf("The %s hits you for %d damage.", b.Monster.Name, dmg)}

	if next.HP <= 0 {
		next.HP = ReviveHP
		b.Phase = Defeat
		out = append(out, "You were defeated... You come to with 1 HP.")
		return next, types.Result{Output: out}, nil
	}

	b.Phase = PlayerTurn
	return next, types.Result{Output: out}, nil
}

// Defense is the player's total defense with this battle's buff applied.
func (b *Battle) Defense(cat *state.Catalog, p types.PlayerState) int {
	def := state.TotalDefense(cat, p)
	if b.DefenseBuff > 0 {
		def = def * (100 + b.DefenseBuff) / 100
	}
	return def
}

func (b *Battle) afterPlayerAction(cat *state.Catalog, p *types.PlayerState, src rng.Source, out []string) types.Result {
	if b.Monster.HP > 0 {
		b.Phase = EnemyTurn
		return types.Result{Output: out}
	}
	b.Monster.HP = 0
	evts, lines := b.settleVictory(cat, p, src)
	return types.Result{Events: evts, Output: append(out, lines...)}
}

// settleVictory grants the monster's gold, xp, trophies, and town xp and
// rolls each loot entry independently. hp is left as is.
func (b *Battle) settleVictory(cat *state.Catalog, p *types.PlayerState, src rng.Source) ([]types.Event, []string) {
	b.Phase = Victory
	m := b.Monster

	effs := []effects.Effect{
		{Kind: effects.Gold, Amount: m.Gold},
		{Kind: effects.XP, Amount: m.XP},
		{Kind: effects.Trophies, Amount: m.Trophies},
		{Kind: effects.TownXP, Amount: m.XP / TownXPDivisor},
	}
	for _, l := range m.Loot {
		if !rng.Chance(src, l.Chance) {
			continue
		}
		qty := l.Quantity
		if qty < 1 {
			qty = 1
		}
		effs = append(effs, effects.Effect{
			Kind:   effects.Item,
			Ref:    types.ItemRef{ItemID: l.ItemID},
			Amount: qty,
			Source: types.SourceLoot,
		})
	}

	events := []types.Event{{Type: types.EventMonsterDefeated, Subject: m.ID, Amount: 1}}
	evts, lines := effects.Apply(cat, p, effs)
	out := append([]string{fmt.Sprintf("You defeated the %s!", m.Name)}, lines...)
	return append(events, evts...), out
}
