package effects

import (
	"strings"
	"testing"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/testutils"
	"github.com/nathoo/gacharealm/types"
)

func testSetup() (*state.Catalog, types.PlayerState) {
	cat := testutils.Catalog()
	return cat, state.NewPlayer(cat)
}

func TestApply_Gold(t *testing.T) {
	cat, p := testSetup()
	_, out := Apply(cat, &p, []Effect{{Kind: Gold, Amount: 1500}})

	if p.Gold != 1600 {
		t.Errorf("gold = %d, want 1600", p.Gold)
	}
	if len(out) != 1 || out[0] != "+1,500 gold" {
		t.Errorf("output = %v", out)
	}
}

func TestApply_XPLevelUp(t *testing.T) {
	cat, p := testSetup()
	evts, out := Apply(cat, &p, []Effect{{Kind: XP, Amount: 100}})

	if p.Level != 2 || p.Gold != 300 {
		t.Fatalf("level=%d gold=%d, want 2/300", p.Level, p.Gold)
	}
	if len(evts) != 1 || evts[0].Type != types.EventLevelUp || evts[0].Amount != 2 {
		t.Errorf("events = %+v", evts)
	}
	if !strings.Contains(strings.Join(out, "\n"), "Level up!") {
		t.Errorf("missing level up output: %v", out)
	}
}

func TestApply_ItemEmitsEvent(t *testing.T) {
	cat, p := testSetup()
	evts, out := Apply(cat, &p, []Effect{
		{Kind: Item, Ref: types.ItemRef{ItemID: "leather"}, Amount: 5, Source: types.SourceLoot},
	})

	if got := state.Quantity(p, types.ItemRef{ItemID: "leather"}); got != 5 {
		t.Errorf("leather = %d", got)
	}
	if len(evts) != 1 {
		t.Fatalf("events = %+v", evts)
	}
	e := evts[0]
	if e.Type != types.EventItemGained || e.Subject != "leather" || e.Amount != 5 || e.Source != types.SourceLoot {
		t.Errorf("event = %+v", e)
	}
	if out[0] != "Obtained Leather x5." {
		t.Errorf("output = %q", out[0])
	}
}

func TestApply_ZeroAmountsSkipped(t *testing.T) {
	cat, p := testSetup()
	before := p
	evts, out := Apply(cat, &p, []Effect{
		{Kind: Gold}, {Kind: XP}, {Kind: Trophies}, {Kind: TownXP},
		{Kind: Item, Ref: types.ItemRef{ItemID: "leather"}},
	})

	if len(evts) != 0 || len(out) != 0 {
		t.Errorf("expected no events/output, got %v %v", evts, out)
	}
	if p.Gold != before.Gold || p.XP != before.XP || len(p.Inventory) != 0 {
		t.Error("zero effects changed state")
	}
}

func TestApply_HealClamps(t *testing.T) {
	cat, p := testSetup()
	p.HP = 40
	_, out := Apply(cat, &p, []Effect{{Kind: Heal, Amount: 20}})

	if p.HP != 50 {
		t.Errorf("hp = %d, want clamp to 50", p.HP)
	}
	if out[0] != "Recovered 10 HP." {
		t.Errorf("output = %q", out[0])
	}

	p.HP = 1
	Apply(cat, &p, []Effect{{Kind: Restore}})
	if p.HP != p.MaxHP {
		t.Errorf("restore hp = %d", p.HP)
	}
}

func TestApply_UnknownKindPanics(t *testing.T) {
	cat, p := testSetup()
	defer func() {
		if r := recover(); r == nil || !strings.Contains(r.(string), "mana") {
			t.Errorf("recover() = %v, want a panic naming the kind", r)
		}
	}()
	Apply(cat, &p, []Effect{{Kind: "mana", Amount: 5}})
}

func TestApply_TrophiesAndTownXP(t *testing.T) {
	cat, p := testSetup()
	Apply(cat, &p, []Effect{{Kind: Trophies, Amount: 15}, {Kind: TownXP, Amount: 10}})

	if p.Trophies != 15 || p.TownXP != 10 {
		t.Errorf("trophies=%d townXP=%d", p.Trophies, p.TownXP)
	}
}

func TestReward(t *testing.T) {
	r := types.Reward{XP: 150, Gold: 250, Items: []types.ItemGrant{{ItemID: "leather", Quantity: 5}}}
	effs := Reward(r, types.SourceDungeon)

	if len(effs) != 3 {
		t.Fatalf("effects = %+v", effs)
	}
	if effs[2].Kind != Item || effs[2].Source != types.SourceDungeon || effs[2].Amount != 5 {
		t.Errorf("item effect = %+v", effs[2])
	}
}
