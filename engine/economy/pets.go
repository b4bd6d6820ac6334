package economy

import (
	"fmt"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// ActivatePet makes an owned pet the one that fights alongside the player.
func ActivatePet(cat *state.Catalog, p types.PlayerState, petID string) (types.PlayerState, types.Result, error) {
	idx := state.FindPet(p, petID)
	if idx < 0 {
		return p, types.Result{}, errors.NotFoundf("You have no pet %s.", petID)
	}
	if p.ActivePetID == petID {
		return p, types.Result{}, errors.InvalidTargetf("%s is already at your side.", state.PetName(cat, p.Pets[idx]))
	}
	next := state.Clone(p)
	next.ActivePetID = petID
	return next, types.Result{Output: []string{
		fmt.Sprintf("%s joins you.", state.PetName(cat, next.Pets[idx])),
	}}, nil
}

// DismissPet clears the active pet.
func DismissPet(cat *state.Catalog, p types.PlayerState) (types.PlayerState, types.Result, error) {
	idx := state.FindPet(p, p.ActivePetID)
	if p.ActivePetID == "" || idx < 0 {
		return p, types.Result{}, errors.InvalidTarget("You have no active pet.")
	}
	next := state.Clone(p)
	next.ActivePetID = ""
	return next, types.Result{Output: []string{
		fmt.Sprintf("%s returns to the stable.", state.PetName(cat, p.Pets[idx])),
	}}, nil
}

// RenamePet sets a pet's nickname.
func RenamePet(cat *state.Catalog, p types.PlayerState, petID, name string) (types.PlayerState, types.Result, error) {
	idx := state.FindPet(p, petID)
	if idx < 0 {
		return p, types.Result{}, errors.NotFoundf("You have no pet %s.", petID)
	}
	name, err := validName(name)
	if err != nil {
		return p, types.Result{}, err
	}
	next := state.Clone(p)
	next.Pets[idx].Nickname = name
	return next, types.Result{Output: []string{fmt.Sprintf("Your pet is now called %s.", name)}}, nil
}
