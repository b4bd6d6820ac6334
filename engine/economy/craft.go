package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/progression"
	"github.com/nathoo/gacharealm/engine/rng"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// Craft consumes a recipe's materials and adds one unenhanced result.
// Either every material is consumed or nothing changes.
func Craft(cat *state.Catalog, p types.PlayerState, recipeID string) (types.PlayerState, types.Result, error) {
	recipe, ok := cat.Recipes[recipeID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such recipe: %s", recipeID)
	}
	result, ok := cat.Items[recipe.Result]
	if !ok {
		return p, types.Result{}, errors.Internalf("recipe %s produces unknown item %s", recipe.ID, recipe.Result)
	}
	if p.CraftingLevel < recipe.MinCraftingLevel {
		return p, types.Result{}, errors.InvalidTargetf("%s requires crafting level %d.", result.Name, recipe.MinCraftingLevel)
	}
	for _, m := range recipe.Materials {
		ref := types.ItemRef{ItemID: m.ItemID}
		if have := state.Quantity(p, ref); have < m.Quantity {
			return p, types.Result{}, errors.Insufficientf("Not enough %s (%d/%d).", state.ItemName(cat, ref), have, m.Quantity)
		}
	}

	next := state.Clone(p)
	for _, m := range recipe.Materials {
		state.RemoveItem(&next, types.ItemRef{ItemID: m.ItemID}, m.Quantity)
	}
	evts, _ := effects.Apply(cat, &next, []effects.Effect{
		{Kind: effects.Item, Ref: types.ItemRef{ItemID: result.ID}, Amount: 1, Source: types.SourceCraft},
	})
	evts = append(evts, types.Event{Type: types.EventItemCrafted, Subject: result.ID, Amount: 1})
	return next, types.Result{Events: evts, Output: []string{fmt.Sprintf("You crafted %s.", result.Name)}}, nil
}

// enhanceCost checks and deducts the gold and material cost of enhancing
// from level. The cost is paid whether or not the attempt succeeds.
func enhanceCost(cat *state.Catalog, p *types.PlayerState, level int, grade types.Grade) error {
	gold := progression.EnhanceGoldCost(level, grade)
	stones := progression.EnhanceMaterialCost(level)
	material := types.ItemRef{ItemID: cat.Game.EnhanceMaterial}
	if material.ItemID == "" {
		return errors.Internal("no enhancement material configured")
	}
	if p.Gold < gold {
		return errors.Insufficientf("Enhancing costs %s gold; you have %s.", humanize.Comma(int64(gold)), humanize.Comma(int64(p.Gold)))
	}
	if have := state.Quantity(*p, material); have < stones {
		return errors.Insufficientf("Not enough %s (%d/%d).", state.ItemName(cat, material), have, stones)
	}
	p.Gold -= gold
	state.RemoveItem(p, material, stones)
	return nil
}

// Enhance attempts to raise one unit of an unequipped weapon, armor, or
// pet armor stack by one level. On success that unit moves to the
// level+1 stack; on failure only the cost is lost.
func Enhance(cat *state.Catalog, p types.PlayerState, ref types.ItemRef, src rng.Source) (types.PlayerState, types.Result, error) {
	item, ok := cat.Items[ref.ItemID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such item: %s", ref.ItemID)
	}
	switch item.Kind {
	case types.KindWeapon, types.KindArmor, types.KindPetArmor:
	case types.KindConsumable, types.KindMaterial:
		return p, types.Result{}, errors.InvalidTargetf("%s cannot be enhanced.", item.Name)
	default:
		return p, types.Result{}, errors.Internalf("unknown item kind %q", item.Kind)
	}
	if err := requireOwned(cat, p, ref); err != nil {
		return p, types.Result{}, err
	}

	next := state.Clone(p)
	if err := enhanceCost(cat, &next, ref.Enhancement, item.Grade); err != nil {
		return p, types.Result{}, err
	}

	if !rng.Chance(src, progression.EnhanceChance(ref.Enhancement)) {
		return next, types.Result{Output: []string{
			fmt.Sprintf("Enhancement failed. %s is unchanged.", state.ItemName(cat, ref)),
		}}, nil
	}

	up := types.ItemRef{ItemID: ref.ItemID, Enhancement: ref.Enhancement + 1}
	state.RemoveItem(&next, ref, 1)
	state.AddItem(&next, up, 1)
	return next, types.Result{Output: []string{
		fmt.Sprintf("Enhancement succeeded! You now have %s.", state.ItemName(cat, up)),
	}}, nil
}

// EnhancePet attempts to raise a pet's enhancement level, priced by the
// pet's grade on the same curve as items.
func EnhancePet(cat *state.Catalog, p types.PlayerState, petID string, src rng.Source) (types.PlayerState, types.Result, error) {
	idx := state.FindPet(p, petID)
	if idx < 0 {
		return p, types.Result{}, errors.NotFoundf("You have no pet %s.", petID)
	}
	def, ok := cat.Pets[p.Pets[idx].Species]
	if !ok {
		return p, types.Result{}, errors.Internalf("unknown pet species %s", p.Pets[idx].Species)
	}

	next := state.Clone(p)
	level := next.Pets[idx].Enhancement
	if err := enhanceCost(cat, &next, level, def.Grade); err != nil {
		return p, types.Result{}, err
	}

	if !rng.Chance(src, progression.EnhanceChance(level)) {
		return next, types.Result{Output: []string{
			fmt.Sprintf("Enhancement failed. %s is unchanged.", state.PetName(cat, next.Pets[idx])),
		}}, nil
	}
	next.Pets[idx].Enhancement++
	return next, types.Result{Output: []string{
		fmt.Sprintf("Enhancement succeeded! %s grows stronger.", state.PetName(cat, next.Pets[idx])),
	}}, nil
}
