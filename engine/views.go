package engine

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nathoo/gacharealm/engine/battle"
	"github.com/nathoo/gacharealm/engine/economy"
	"github.com/nathoo/gacharealm/engine/progression"
	"github.com/nathoo/gacharealm/engine/quest"
	"github.com/nathoo/gacharealm/engine/resolve"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/types"
)

var helpText = []string{
	"Character:  status, inventory, examine <item>, rest, rename <name>",
	"Shop:       shop [kind], buy [n] <item>, sell <item>",
	"Gear:       equip <item> [to <pet>], unequip <slot|item> [from <pet>], use <item>",
	"Blacksmith: craft [<item>], enhance <item|pet>",
	"Battle:     hunt, enter [<dungeon>], attack, ultimate, use <item>",
	"Quests:     quests, accept <quest>, claim <quest>",
	"Gacha:      gacha, pull <item|pet>",
	"Pets:       pets, activate <pet>, dismiss, rename <pet> to <name>",
	"Town:       classes, choose <class>, upgrade, trophies [<count>]",
}

func (e *Engine) help(types.Intent) (types.Result, error) {
	return say(helpText...), nil
}

func gold(n int) string {
	return humanize.Comma(int64(n)) + " G"
}

func (e *Engine) status(types.Intent) (types.Result, error) {
	p := e.Player
	class := "none"
	if c, ok := e.Catalog.Classes[p.Class]; ok {
		class = c.Name
	}
	town := fmt.Sprintf("%d", p.TownLevel)
	if t, ok := state.TownLevel(e.Catalog, p.TownLevel); ok {
		town = fmt.Sprintf("%s (level %d, %s xp)", t.Name, t.Level, humanize.Comma(int64(p.TownXP)))
	}

	out := []string{
		fmt.Sprintf("%s, level %d %s", p.Name, p.Level, class),
		fmt.Sprintf("HP %d/%d   XP %d/%d", p.HP, p.MaxHP, p.XP, p.XPToNextLevel),
		fmt.Sprintf("ATK %d   DEF %d   Crit %.0f%%", state.TotalAttack(e.Catalog, p), state.TotalDefense(e.Catalog, p),
			state.CritChance(e.Catalog, p)*100),
		fmt.Sprintf("Gold %s   Trophies %s   Crafting %d", gold(p.Gold), humanize.Comma(int64(p.Trophies)), p.CraftingLevel),
		"Town: " + town,
	}
	if pet, _, ok := state.ActivePet(e.Catalog, p); ok {
		out = append(out, "Pet: "+state.PetName(e.Catalog, pet))
	}
	if b := e.battle; b != nil && !b.Over() {
		out = append(out, e.battleLine(b))
	}
	return say(out...), nil
}

func (e *Engine) battleLine(b *battle.Battle) string {
	m := b.Monster
	line := fmt.Sprintf("Fighting %s: HP %d/%d   Ultimate %d/%d", m.Name, m.HP, m.MaxHP, b.Charge, battle.MaxCharge)
	if e.run != nil {
		line += fmt.Sprintf("   Stage %d/%d", e.run.Stage, len(e.run.Stages))
	}
	return line
}

func (e *Engine) inventory(types.Intent) (types.Result, error) {
	p := e.Player
	eq := func(ref *types.ItemRef) string {
		if ref == nil {
			return "(none)"
		}
		return state.ItemName(e.Catalog, *ref)
	}
	out := []string{
		"Weapon: " + eq(p.Equipment.Weapon),
		"Armor:  " + eq(p.Equipment.Armor),
	}
	if len(p.Inventory) == 0 {
		return say(append(out, "Your bag is empty.")...), nil
	}
	out = append(out, "Bag:")
	for _, entry := range p.Inventory {
		out = append(out, fmt.Sprintf("  %s x%d", state.ItemName(e.Catalog, entry.ItemRef), entry.Quantity))
	}
	return say(out...), nil
}

// examine describes an item the player holds or any catalog item, and
// requests lore for it.
func (e *Engine) examine(in types.Intent) (types.Result, error) {
	if err := need(in, "Examine"); err != nil {
		return types.Result{}, err
	}
	ref, err := resolve.InventoryItem(e.Catalog, e.Player, in.Object)
	if err != nil {
		var amb *resolve.AmbiguityError
		if stderrors.As(err, &amb) {
			return types.Result{}, err
		}
		id, cerr := resolve.CatalogItem(e.Catalog, in.Object)
		if cerr != nil {
			return types.Result{}, cerr
		}
		ref = types.ItemRef{ItemID: id}
	}

	item := e.Catalog.Items[ref.ItemID]
	out := []string{fmt.Sprintf("%s [%s %s]", state.ItemName(e.Catalog, ref), item.Grade, item.Kind)}
	if item.Description != "" {
		out = append(out, item.Description)
	}
	out = append(out, itemStats(item, ref.Enhancement))
	return types.Result{
		Output: out,
		Lore:   &types.LoreRequest{Name: item.Name, Type: string(item.Kind), Description: item.Description},
	}, nil
}

func itemStats(item types.Item, enh int) string {
	var parts []string
	switch item.Kind {
	case types.KindWeapon:
		parts = append(parts, fmt.Sprintf("Damage %d", item.Damage+enh*state.WeaponAttackPerLevel))
		if item.Accuracy > 0 {
			parts = append(parts, fmt.Sprintf("Accuracy %.0f%%", item.Accuracy*100))
		}
		if item.CritChance > 0 {
			parts = append(parts, fmt.Sprintf("Crit %.0f%%", item.CritChance*100))
		}
		if item.ProcDamage > 0 {
			parts = append(parts, fmt.Sprintf("Proc %.0f%% for %d", item.ProcChance*100, item.ProcDamage))
		}
	case types.KindArmor, types.KindPetArmor:
		parts = append(parts, fmt.Sprintf("Defense %d", item.Defense+enh*state.ArmorDefensePerLevel))
	case types.KindConsumable:
		if item.Effect != nil {
			parts = append(parts, fmt.Sprintf("%s %d", item.Effect.Kind, item.Effect.Amount))
		}
	}
	parts = append(parts, "Price "+gold(item.Price), "Sells for "+gold(progression.SellPrice(item.Price)))
	return strings.Join(parts, "   ")
}

// shop lists everything for sale, optionally filtered by kind or grade.
func (e *Engine) shop(in types.Intent) (types.Result, error) {
	filter := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(in.Object), "s"))
	out := []string{"For sale:"}
	for _, id := range e.Catalog.ItemOrder {
		item := e.Catalog.Items[id]
		if item.Kind == types.KindMaterial {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(string(item.Kind)), filter) &&
			!strings.EqualFold(string(item.Grade), filter) {
			continue
		}
		out = append(out, fmt.Sprintf("  %-24s %-10s %10s", item.Name, item.Grade, gold(item.Price)))
	}
	if len(out) == 1 {
		out = append(out, "  (nothing matches)")
	}
	return say(out...), nil
}

func (e *Engine) questBoard(types.Intent) (types.Result, error) {
	var out []string
	if len(e.Player.ActiveQuests) > 0 {
		out = append(out, fmt.Sprintf("Active (%d/%d):", len(e.Player.ActiveQuests), quest.MaxActive))
		for _, qp := range e.Player.ActiveQuests {
			def := e.Catalog.Quests[qp.QuestID]
			mark := ""
			if qp.Completed {
				mark = " - complete, claim it!"
			}
			out = append(out, fmt.Sprintf("  %s %d/%d%s", def.Title, qp.Progress, def.Quantity, mark))
		}
	}
	avail := quest.Available(e.Catalog, e.Player)
	if len(avail) > 0 {
		out = append(out, "Available:")
		for _, q := range avail {
			out = append(out, fmt.Sprintf("  %s: %s (%s xp, %s)", q.Title, q.Description,
				humanize.Comma(int64(q.Rewards.XP)), gold(q.Rewards.Gold)))
		}
	}
	if len(out) == 0 {
		out = append(out, "The quest board is empty.")
	}
	return say(out...), nil
}

func (e *Engine) petList(types.Intent) (types.Result, error) {
	if len(e.Player.Pets) == 0 {
		return say("You have no pets. Try 'pull pet'."), nil
	}
	out := []string{"Pets:"}
	for _, pet := range e.Player.Pets {
		def := e.Catalog.Pets[pet.Species]
		line := fmt.Sprintf("  %s [%s] ATK +%d DEF +%d, %s", state.PetName(e.Catalog, pet), def.Grade,
			def.AttackBonus+pet.Enhancement*state.PetStatPerLevel,
			def.DefenseBonus+pet.Enhancement*state.PetStatPerLevel, def.Skill.Name)
		if pet.Armor != nil {
			line += ", wearing " + state.ItemName(e.Catalog, *pet.Armor)
		}
		if pet.ID == e.Player.ActivePetID {
			line += " (active)"
		}
		out = append(out, line)
	}
	return say(out...), nil
}

func (e *Engine) classList(types.Intent) (types.Result, error) {
	var out []string
	if e.Player.Class != "" {
		out = append(out, "You are a "+e.Catalog.Classes[e.Player.Class].Name+".")
	} else {
		out = append(out, fmt.Sprintf("Classes unlock at level %d:", economy.ClassLevel))
	}
	for _, id := range e.Catalog.ClassOrder {
		c := e.Catalog.Classes[id]
		if c.Default {
			continue
		}
		out = append(out, fmt.Sprintf("  %s: HP +%d ATK +%d DEF +%d, ultimate %s", c.Name, c.MaxHP, c.Attack, c.Defense, c.Ultimate.Name))
	}
	return say(out...), nil
}

func (e *Engine) gachaList(types.Intent) (types.Result, error) {
	out := []string{"Shrines:"}
	for _, id := range e.Catalog.GachaOrder {
		g := e.Catalog.Gachas[id]
		var odds []string
		for _, b := range g.Buckets {
			odds = append(odds, fmt.Sprintf("%s %g%%", b.Grade, b.Chance*100))
		}
		out = append(out, fmt.Sprintf("  %s (%s): %s", g.Name, gold(g.Cost), strings.Join(odds, ", ")))
	}
	return say(out...), nil
}

func (e *Engine) recipeList() types.Result {
	out := []string{fmt.Sprintf("Recipes (crafting level %d):", e.Player.CraftingLevel)}
	for _, id := range e.Catalog.RecipeOrder {
		r := e.Catalog.Recipes[id]
		var mats []string
		for _, m := range r.Materials {
			mats = append(mats, fmt.Sprintf("%d %s (have %d)", m.Quantity, e.Catalog.Items[m.ItemID].Name,
				state.TotalQuantity(e.Player, m.ItemID)))
		}
		out = append(out, fmt.Sprintf("  %s: %s", e.Catalog.Items[r.Result].Name, strings.Join(mats, ", ")))
	}
	return say(out...)
}

func (e *Engine) dungeonList() types.Result {
	out := []string{"Dungeons:"}
	for _, id := range e.Catalog.DungeonOrder {
		d := e.Catalog.Dungeons[id]
		out = append(out, fmt.Sprintf("  %s: %d stages, difficulty %d, reward %s xp and %s",
			d.Name, len(d.Stages), d.Difficulty, humanize.Comma(int64(d.Rewards.XP)), gold(d.Rewards.Gold)))
	}
	return say(out...)
}

func (e *Engine) trophyRoad() types.Result {
	out := []string{fmt.Sprintf("Trophies: %s", humanize.Comma(int64(e.Player.Trophies)))}
	for _, m := range e.Catalog.Milestones {
		mark := "locked"
		switch {
		case slices.Contains(e.Player.ClaimedMilestones, m.ID):
			mark = "claimed"
		case e.Player.Trophies >= m.Trophies:
			mark = "ready, 'trophies " + fmt.Sprint(m.Trophies) + "' to claim"
		}
		out = append(out, fmt.Sprintf("  %d trophies: %s", m.Trophies, mark))
	}
	return say(out...)
}
