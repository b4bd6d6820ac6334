package engine

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/nathoo/gacharealm/engine/economy"
	"github.com/nathoo/gacharealm/engine/quest"
	"github.com/nathoo/gacharealm/engine/resolve"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// handler routes one verb.
type handler struct {
	run func(e *Engine, in types.Intent) (types.Result, error)

	query      bool // never changes state
	bareQuery  bool // lists something when given no object
	battle     bool // allowed during a fight
	battleOnly bool
}

func (h handler) readOnly(in types.Intent) bool {
	return h.query || (h.bareQuery && in.Object == "")
}

var handlers = map[string]handler{
	"help":      {run: (*Engine).help, query: true, battle: true},
	"status":    {run: (*Engine).status, query: true, battle: true},
	"inventory": {run: (*Engine).inventory, query: true, battle: true},
	"examine":   {run: (*Engine).examine, query: true, battle: true},
	"shop":      {run: (*Engine).shop, query: true},
	"quests":    {run: (*Engine).questBoard, query: true, battle: true},
	"pets":      {run: (*Engine).petList, query: true, battle: true},
	"classes":   {run: (*Engine).classList, query: true},
	"gacha":     {run: (*Engine).gachaList, query: true},

	"buy":      {run: (*Engine).buy},
	"sell":     {run: (*Engine).sell},
	"equip":    {run: (*Engine).equip},
	"unequip":  {run: (*Engine).unequip},
	"use":      {run: (*Engine).use, battle: true},
	"craft":    {run: (*Engine).craft, bareQuery: true},
	"enhance":  {run: (*Engine).enhance},
	"pull":     {run: (*Engine).pull},
	"accept":   {run: (*Engine).accept},
	"claim":    {run: (*Engine).claim},
	"activate": {run: (*Engine).activate},
	"dismiss":  {run: (*Engine).dismiss},
	"choose":   {run: (*Engine).choose},
	"upgrade":  {run: (*Engine).upgrade},
	"trophies": {run: (*Engine).trophies, bareQuery: true},
	"rest":     {run: (*Engine).rest},
	"rename":   {run: (*Engine).rename},

	"hunt":     {run: (*Engine).hunt},
	"enter":    {run: (*Engine).enter, bareQuery: true},
	"attack":   {run: (*Engine).attack, battle: true, battleOnly: true},
	"ultimate": {run: (*Engine).ultimate, battle: true, battleOnly: true},
}

// apply commits a mutator's outcome.
func (e *Engine) apply(next types.PlayerState, res types.Result, err error) (types.Result, error) {
	if err != nil {
		return types.Result{}, err
	}
	e.commit(next, &res)
	return res, nil
}

func need(in types.Intent, what string) error {
	if strings.TrimSpace(in.Object) == "" {
		return errors.InvalidArgumentf("%s what?", what)
	}
	return nil
}

func (e *Engine) buy(in types.Intent) (types.Result, error) {
	if err := need(in, "Buy"); err != nil {
		return types.Result{}, err
	}
	count, name := splitCount(in.Object)
	id, err := resolve.CatalogItem(e.Catalog, name)
	if err != nil {
		return types.Result{}, err
	}

	var total types.Result
	for i := 0; i < count; i++ {
		next, res, err := economy.Buy(e.Catalog, e.Player, id)
		if err != nil {
			if i == 0 {
				return types.Result{}, err
			}
			total.Output = append(total.Output, errors.GetMessage(err))
			break
		}
		e.commit(next, &res)
		total.Events = append(total.Events, res.Events...)
		total.Output = append(total.Output, res.Output...)
	}
	return total, nil
}

// splitCount reads a leading quantity: "3 small potion".
func splitCount(object string) (int, string) {
	fields := strings.Fields(object)
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[0]); err == nil && n > 0 {
			return n, strings.Join(fields[1:], " ")
		}
	}
	return 1, object
}

func (e *Engine) sell(in types.Intent) (types.Result, error) {
	if err := need(in, "Sell"); err != nil {
		return types.Result{}, err
	}
	ref, err := resolve.InventoryItem(e.Catalog, e.Player, in.Object)
	if err != nil {
		return e.equippedInstead(in.Object, err)
	}
	return e.apply(economy.Sell(e.Catalog, e.Player, ref))
}

// equippedInstead explains a failed inventory lookup when the name matches
// equipped gear, which is never in the inventory.
func (e *Engine) equippedInstead(name string, err error) (types.Result, error) {
	var nf *resolve.NotFoundError
	if !stderrors.As(err, &nf) {
		return types.Result{}, err
	}
	for _, ref := range []*types.ItemRef{e.Player.Equipment.Weapon, e.Player.Equipment.Armor} {
		if ref == nil {
			continue
		}
		if id, rerr := resolve.CatalogItem(e.Catalog, name); rerr == nil && id == ref.ItemID {
			return types.Result{}, errors.InvalidTargetf("%s is equipped. Unequip it first.", e.Catalog.Items[id].Name)
		}
	}
	return types.Result{}, err
}

func (e *Engine) equip(in types.Intent) (types.Result, error) {
	if err := need(in, "Equip"); err != nil {
		return types.Result{}, err
	}
	ref, err := resolve.InventoryItem(e.Catalog, e.Player, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	if in.Target != "" {
		petID, err := resolve.Pet(e.Catalog, e.Player, in.Target)
		if err != nil {
			return types.Result{}, err
		}
		return e.apply(economy.EquipPetArmor(e.Catalog, e.Player, petID, ref))
	}
	return e.apply(economy.Equip(e.Catalog, e.Player, ref))
}

func (e *Engine) unequip(in types.Intent) (types.Result, error) {
	if err := need(in, "Unequip"); err != nil {
		return types.Result{}, err
	}
	if in.Target != "" {
		petID, err := resolve.Pet(e.Catalog, e.Player, in.Target)
		if err != nil {
			return types.Result{}, err
		}
		return e.apply(economy.UnequipPetArmor(e.Catalog, e.Player, petID))
	}

	slot := strings.ToLower(in.Object)
	switch slot {
	case economy.SlotWeapon, economy.SlotArmor, economy.SlotPetArmor:
	default:
		slot = e.slotOf(in.Object)
		if slot == "" {
			return types.Result{}, errors.InvalidTargetf("You are not wearing %q.", in.Object)
		}
	}
	return e.apply(economy.Unequip(e.Catalog, e.Player, slot))
}

// slotOf finds the slot holding the named item.
func (e *Engine) slotOf(name string) string {
	id, err := resolve.CatalogItem(e.Catalog, name)
	if err != nil {
		return ""
	}
	eq := e.Player.Equipment
	switch {
	case eq.Weapon != nil && eq.Weapon.ItemID == id:
		return economy.SlotWeapon
	case eq.Armor != nil && eq.Armor.ItemID == id:
		return economy.SlotArmor
	}
	return ""
}

func (e *Engine) use(in types.Intent) (types.Result, error) {
	if err := need(in, "Use"); err != nil {
		return types.Result{}, err
	}
	ref, err := resolve.InventoryItem(e.Catalog, e.Player, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	if e.InBattle() {
		return e.battleAction(e.battle.UseItem(e.Catalog, e.Player, ref, e.src()))
	}
	return e.apply(economy.Use(e.Catalog, e.Player, ref))
}

func (e *Engine) craft(in types.Intent) (types.Result, error) {
	if in.Object == "" {
		return e.recipeList(), nil
	}
	id, err := resolve.Recipe(e.Catalog, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	return e.apply(economy.Craft(e.Catalog, e.Player, id))
}

// enhance targets an inventory stack, falling back to an owned pet.
func (e *Engine) enhance(in types.Intent) (types.Result, error) {
	if err := need(in, "Enhance"); err != nil {
		return types.Result{}, err
	}
	ref, err := resolve.InventoryItem(e.Catalog, e.Player, in.Object)
	if err == nil {
		return e.apply(economy.Enhance(e.Catalog, e.Player, ref, e.src()))
	}
	var nf *resolve.NotFoundError
	if !stderrors.As(err, &nf) {
		return types.Result{}, err
	}
	petID, perr := resolve.Pet(e.Catalog, e.Player, in.Object)
	if perr != nil {
		return e.equippedInstead(in.Object, err)
	}
	return e.apply(economy.EnhancePet(e.Catalog, e.Player, petID, e.src()))
}

func (e *Engine) pull(in types.Intent) (types.Result, error) {
	if in.Object == "" {
		return e.gachaList(in)
	}
	id, err := resolve.Gacha(e.Catalog, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	next, _, res, err := economy.Draw(e.Catalog, e.Player, id, e.src())
	return e.apply(next, res, err)
}

func (e *Engine) accept(in types.Intent) (types.Result, error) {
	if err := need(in, "Accept"); err != nil {
		return types.Result{}, err
	}
	id, err := resolve.Quest(e.Catalog, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	return e.apply(quest.Accept(e.Catalog, e.Player, id))
}

// claim turns in a quest, or a trophy milestone when no quest matches.
func (e *Engine) claim(in types.Intent) (types.Result, error) {
	if err := need(in, "Claim"); err != nil {
		return types.Result{}, err
	}
	id, err := resolve.Quest(e.Catalog, in.Object)
	if err != nil {
		if mid, merr := resolve.Milestone(e.Catalog, in.Object); merr == nil {
			return e.apply(economy.ClaimTrophy(e.Catalog, e.Player, mid))
		}
		return types.Result{}, err
	}
	return e.apply(quest.Claim(e.Catalog, e.Player, id))
}

func (e *Engine) trophies(in types.Intent) (types.Result, error) {
	if in.Object == "" {
		return e.trophyRoad(), nil
	}
	id, err := resolve.Milestone(e.Catalog, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	return e.apply(economy.ClaimTrophy(e.Catalog, e.Player, id))
}

func (e *Engine) activate(in types.Intent) (types.Result, error) {
	if err := need(in, "Activate"); err != nil {
		return types.Result{}, err
	}
	id, err := resolve.Pet(e.Catalog, e.Player, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	return e.apply(economy.ActivatePet(e.Catalog, e.Player, id))
}

func (e *Engine) dismiss(types.Intent) (types.Result, error) {
	return e.apply(economy.DismissPet(e.Catalog, e.Player))
}

func (e *Engine) choose(in types.Intent) (types.Result, error) {
	if err := need(in, "Choose"); err != nil {
		return types.Result{}, err
	}
	id, err := resolve.Class(e.Catalog, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	return e.apply(economy.ChooseClass(e.Catalog, e.Player, id))
}

func (e *Engine) upgrade(types.Intent) (types.Result, error) {
	return e.apply(economy.UpgradeTown(e.Catalog, e.Player))
}

func (e *Engine) rest(types.Intent) (types.Result, error) {
	return e.apply(economy.Rest(e.Catalog, e.Player))
}

// rename sets the player's name, or a pet's with "rename <pet> to <name>".
func (e *Engine) rename(in types.Intent) (types.Result, error) {
	if err := need(in, "Rename"); err != nil {
		return types.Result{}, err
	}
	if in.Target != "" {
		id, err := resolve.Pet(e.Catalog, e.Player, in.Object)
		if err != nil {
			return types.Result{}, err
		}
		return e.apply(economy.RenamePet(e.Catalog, e.Player, id, in.Target))
	}
	return e.apply(economy.Rename(e.Player, in.Object))
}
