// Package effects implements centralized reward mutation via the Apply
// function. Every gain of gold, xp, items, trophies, or town xp goes
// through here so the matching events are always emitted.
package effects

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/nathoo/gacharealm/engine/progression"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

// Kind is the closed set of effect types.
type Kind string

const (
	Gold     Kind = "gold"
	XP       Kind = "xp"
	Item     Kind = "item"
	Trophies Kind = "trophies"
	TownXP   Kind = "town_xp"
	Heal     Kind = "heal"
	Restore  Kind = "restore" // hp to max
)

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Kind   Kind
	Amount int
	Ref    types.ItemRef // Item only
	Source string        // Item only: where the item came from
}

// Apply applies effects to p in order, mutating it.
// Returns events emitted and output text collected.
func Apply(cat *state.Catalog, p *types.PlayerState, effs []Effect) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	for _, eff := range effs {
		switch eff.Kind {
		case Gold:
			if eff.Amount <= 0 {
				continue
			}
			p.Gold += eff.Amount
			output = append(output, fmt.Sprintf("+%s gold", humanize.Comma(int64(eff.Amount))))

		case XP:
			if eff.Amount <= 0 {
				continue
			}
			lu := progression.ApplyXP(p, eff.Amount)
			output = append(output, fmt.Sprintf("+%d XP", eff.Amount))
			if lu.Levels > 0 {
				output = append(output, fmt.Sprintf("Level up! You are now level %d. (+%s gold)",
					p.Level, humanize.Comma(int64(lu.GoldBonus))))
				events = append(events, types.Event{
					Type:   types.EventLevelUp,
					Amount: p.Level,
				})
			}

		case Item:
			if eff.Amount <= 0 {
				continue
			}
			state.AddItem(p, eff.Ref, eff.Amount)
			name := state.ItemName(cat, eff.Ref)
			if eff.Amount > 1 {
				output = append(output, fmt.Sprintf("Obtained %s x%d.", name, eff.Amount))
			} else {
				output = append(output, fmt.Sprintf("Obtained %s.", name))
			}
			events = append(events, types.Event{
				Type:    types.EventItemGained,
				Subject: eff.Ref.ItemID,
				Amount:  eff.Amount,
				Source:  eff.Source,
			})

		case Trophies:
			if eff.Amount <= 0 {
				continue
			}
			p.Trophies += eff.Amount
			output = append(output, fmt.Sprintf("+%d trophies", eff.Amount))

		case TownXP:
			if eff.Amount <= 0 {
				continue
			}
			p.TownXP += eff.Amount

		case Heal:
			if eff.Amount <= 0 {
				continue
			}
			before := p.HP
			p.HP += eff.Amount
			if p.HP > p.MaxHP {
				p.HP = p.MaxHP
			}
			output = append(output, fmt.Sprintf("Recovered %d HP.", p.HP-before))

		case Restore:
			p.HP = p.MaxHP

		default:
			panic(fmt.Sprintf("effects: unknown kind %q", eff.Kind))
		}
	}

	return events, output
}

// Reward converts a reward bundle into effects. Items carry source so
// quest dispatch can tell loot from purchases.
func Reward(r types.Reward, source string) []Effect {
	effs := []Effect{
		{Kind: Gold, Amount: r.Gold},
		{Kind: XP, Amount: r.XP},
	}
	for _, g := range r.Items {
		effs = append(effs, Effect{Kind: Item, Ref: types.ItemRef{ItemID: g.ItemID}, Amount: g.Quantity, Source: source})
	}
	return effs
}
