package economy

import (
	"fmt"

	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// Equipment slots accepted by Unequip.
const (
	SlotWeapon   = "weapon"
	SlotArmor    = "armor"
	SlotPetArmor = "pet"
)

// Equip moves one unit of ref from the inventory into its slot. Weapons
// and armor go on the player; pet armor goes on the active pet. Whatever
// was in the slot returns to its stack.
func Equip(cat *state.Catalog, p types.PlayerState, ref types.ItemRef) (types.PlayerState, types.Result, error) {
	item, ok := cat.Items[ref.ItemID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such item: %s", ref.ItemID)
	}
	switch item.Kind {
	case types.KindWeapon, types.KindArmor:
	case types.KindPetArmor:
		if p.ActivePetID == "" {
			return p, types.Result{}, errors.InvalidTarget("You have no active pet to wear that.")
		}
		return EquipPetArmor(cat, p, p.ActivePetID, ref)
	case types.KindConsumable, types.KindMaterial:
		return p, types.Result{}, errors.InvalidTargetf("%s cannot be equipped.", item.Name)
	default:
		return p, types.Result{}, errors.Internalf("unknown item kind %q", item.Kind)
	}
	if state.Quantity(p, ref) < 1 {
		return p, types.Result{}, errors.NotFoundf("You don't have %s.", state.ItemName(cat, ref))
	}

	next := state.Clone(p)
	state.RemoveItem(&next, ref, 1)
	slot := &next.Equipment.Weapon
	if item.Kind == types.KindArmor {
		slot = &next.Equipment.Armor
	}
	var out []string
	if prev := *slot; prev != nil {
		state.AddItem(&next, *prev, 1)
		out = append(out, fmt.Sprintf("You put away %s.", state.ItemName(cat, *prev)))
	}
	r := ref
	*slot = &r
	out = append(out, fmt.Sprintf("You equip %s.", state.ItemName(cat, ref)))
	return next, types.Result{Output: out}, nil
}

// Unequip returns the item in a slot to the inventory. SlotPetArmor
// targets the active pet.
func Unequip(cat *state.Catalog, p types.PlayerState, slot string) (types.PlayerState, types.Result, error) {
	switch slot {
	case SlotWeapon, SlotArmor:
	case SlotPetArmor:
		if p.ActivePetID == "" {
			return p, types.Result{}, errors.InvalidTarget("You have no active pet.")
		}
		return UnequipPetArmor(cat, p, p.ActivePetID)
	default:
		return p, types.Result{}, errors.InvalidArgumentf("unknown slot %q", slot)
	}

	ref := p.Equipment.Weapon
	if slot == SlotArmor {
		ref = p.Equipment.Armor
	}
	if ref == nil {
		return p, types.Result{}, errors.InvalidTargetf("Nothing is equipped in your %s slot.", slot)
	}

	next := state.Clone(p)
	state.AddItem(&next, *ref, 1)
	if slot == SlotWeapon {
		next.Equipment.Weapon = nil
	} else {
		next.Equipment.Armor = nil
	}
	return next, types.Result{Output: []string{fmt.Sprintf("You unequip %s.", state.ItemName(cat, *ref))}}, nil
}

// EquipPetArmor puts one unit of pet armor on an owned pet.
func EquipPetArmor(cat *state.Catalog, p types.PlayerState, petID string, ref types.ItemRef) (types.PlayerState, types.Result, error) {
	idx := state.FindPet(p, petID)
	if idx < 0 {
		return p, types.Result{}, errors.NotFoundf("You have no pet %s.", petID)
	}
	item, ok := cat.Items[ref.ItemID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such item: %s", ref.ItemID)
	}
	if item.Kind != types.KindPetArmor {
		return p, types.Result{}, errors.InvalidTargetf("%s is not pet armor.", item.Name)
	}
	if state.Quantity(p, ref) < 1 {
		return p, types.Result{}, errors.NotFoundf("You don't have %s.", state.ItemName(cat, ref))
	}

	next := state.Clone(p)
	pet := &next.Pets[idx]
	state.RemoveItem(&next, ref, 1)
	if pet.Armor != nil {
		state.AddItem(&next, *pet.Armor, 1)
	}
	r := ref
	pet.Armor = &r
	return next, types.Result{Output: []string{
		fmt.Sprintf("%s now wears %s.", state.PetName(cat, *pet), state.ItemName(cat, ref)),
	}}, nil
}

// UnequipPetArmor returns a pet's armor to the inventory.
func UnequipPetArmor(cat *state.Catalog, p types.PlayerState, petID string) (types.PlayerState, types.Result, error) {
	idx := state.FindPet(p, petID)
	if idx < 0 {
		return p, types.Result{}, errors.NotFoundf("You have no pet %s.", petID)
	}
	if p.Pets[idx].Armor == nil {
		return p, types.Result{}, errors.InvalidTargetf("%s is not wearing anything.", state.PetName(cat, p.Pets[idx]))
	}

	next := state.Clone(p)
	pet := &next.Pets[idx]
	ref := *pet.Armor
	state.AddItem(&next, ref, 1)
	pet.Armor = nil
	return next, types.Result{Output: []string{
		fmt.Sprintf("You take %s off %s.", state.ItemName(cat, ref), state.PetName(cat, *pet)),
	}}, nil
}

// Use consumes a healing item outside battle.
func Use(cat *state.Catalog, p types.PlayerState, ref types.ItemRef) (types.PlayerState, types.Result, error) {
	item, ok := cat.Items[ref.ItemID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such item: %s", ref.ItemID)
	}
	if item.Kind != types.KindConsumable || item.Effect == nil {
		return p, types.Result{}, errors.InvalidTargetf("%s cannot be used.", item.Name)
	}
	if state.Quantity(p, ref) < 1 {
		return p, types.Result{}, errors.Insufficientf("You have no %s.", state.ItemName(cat, ref))
	}

	switch item.Effect.Kind {
	case types.ConsumableHeal:
		if p.HP >= p.MaxHP {
			return p, types.Result{}, errors.InvalidTarget("You are already at full health.")
		}
	case types.ConsumableDamageEnemy:
		return p, types.Result{}, errors.InvalidTargetf("%s can only be used in battle.", item.Name)
	default:
		return p, types.Result{}, errors.Internalf("unknown consumable kind %q", item.Effect.Kind)
	}

	next := state.Clone(p)
	state.RemoveItem(&next, ref, 1)
	before := next.HP
	effects.Apply(cat, &next, []effects.Effect{{Kind: effects.Heal, Amount: item.Effect.Amount}})
	return next, types.Result{Output: []string{
		fmt.Sprintf("You use %s and recover %d HP.", item.Name, next.HP-before),
	}}, nil
}
