// Package economy implements the out-of-battle state transitions: shop,
// equipment, crafting, enhancement, gacha, pets, town, and class.
//
// Every mutator takes a player snapshot and returns the next one. On error
// the input snapshot is returned unchanged.
package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/progression"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// Buy purchases one unenhanced unit of an item.
func Buy(cat *state.Catalog, p types.PlayerState, itemID string) (types.PlayerState, types.Result, error) {
	item, ok := cat.Items[itemID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such item: %s", itemID)
	}
	if item.Kind == types.KindMaterial {
		return p, types.Result{}, errors.InvalidTargetf("%s is not sold in the shop.", item.Name)
	}
	if p.Gold < item.Price {
		return p, types.Result{}, errors.Insufficientf("%s costs %s gold; you have %s.",
			item.Name, humanize.Comma(int64(item.Price)), humanize.Comma(int64(p.Gold)))
	}

	next := state.Clone(p)
	next.Gold -= item.Price
	evts, _ := effects.Apply(cat, &next, []effects.Effect{
		{Kind: effects.Item, Ref: types.ItemRef{ItemID: itemID}, Amount: 1, Source: types.SourceShop},
	})
	return next, types.Result{Events: evts, Output: []string{
		fmt.Sprintf("You bought %s for %s gold.", item.Name, humanize.Comma(int64(item.Price))),
	}}, nil
}

// Sell sells one unit of a stack for half its catalog price.
func Sell(cat *state.Catalog, p types.PlayerState, ref types.ItemRef) (types.PlayerState, types.Result, error) {
	item, ok := cat.Items[ref.ItemID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such item: %s", ref.ItemID)
	}
	if err := requireOwned(cat, p, ref); err != nil {
		return p, types.Result{}, err
	}

	price := progression.SellPrice(item.Price)
	next := state.Clone(p)
	state.RemoveItem(&next, ref, 1)
	next.Gold += price
	return next, types.Result{Output: []string{
		fmt.Sprintf("You sold %s for %s gold.", state.ItemName(cat, ref), humanize.Comma(int64(price))),
	}}, nil
}

// requireOwned checks that at least one unit of ref sits in the inventory.
// An equipped item is never in the inventory, so asking for it names the
// slot instead of reporting it missing.
func requireOwned(cat *state.Catalog, p types.PlayerState, ref types.ItemRef) error {
	if state.Quantity(p, ref) > 0 {
		return nil
	}
	if slot := equippedSlot(p, ref); slot != "" {
		return errors.InvalidTargetf("%s is equipped as your %s. Unequip it first.", state.ItemName(cat, ref), slot)
	}
	return errors.NotFoundf("You don't have %s.", state.ItemName(cat, ref))
}

func equippedSlot(p types.PlayerState, ref types.ItemRef) string {
	if w := p.Equipment.Weapon; w != nil && *w == ref {
		return "weapon"
	}
	if a := p.Equipment.Armor; a != nil && *a == ref {
		return "armor"
	}
	for _, pet := range p.Pets {
		if pet.Armor != nil && *pet.Armor == ref {
			return "pet armor"
		}
	}
	return ""
}
