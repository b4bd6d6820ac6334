package economy

import (
	"testing"

	"github.com/nathoo/gacharealm/engine/rng"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/testutils"
	"github.com/nathoo/gacharealm/types"
)

func TestCraft(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Inventory = inv(stack("iron_ore", 0, 7))
	})

	next, res, err := Craft(cat, p, "craft_steel_sword")
	if err != nil {
		t.Fatal(err)
	}
	if state.Quantity(next, types.ItemRef{ItemID: "iron_ore"}) != 2 ||
		state.Quantity(next, types.ItemRef{ItemID: "steel_sword"}) != 1 {
		t.Errorf("inventory = %+v", next.Inventory)
	}

	var crafted bool
	for _, e := range res.Events {
		if e.Type == types.EventItemCrafted && e.Subject == "steel_sword" {
			crafted = true
		}
		if e.Type == types.EventItemGained && e.Source != types.SourceCraft {
			t.Errorf("crafted item source = %q", e.Source)
		}
	}
	if !crafted {
		t.Errorf("events = %+v", res.Events)
	}
}

func TestCraft_ShortIsAtomic(t *testing.T) {
	cat := testutils.Catalog()
	cat.Recipes["two_part"] = types.Recipe{ID: "two_part", Result: "steel_armor", MinCraftingLevel: 1,
		Materials: []types.MaterialCost{{ItemID: "iron_ore", Quantity: 2}, {ItemID: "leather", Quantity: 4}}}
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Inventory = inv(stack("iron_ore", 0, 3), stack("leather", 0, 2))
	})

	next, _, err := Craft(cat, p, "two_part")
	if !errors.IsInsufficient(err) {
		t.Fatalf("err = %v", err)
	}
	if msg := errors.GetMessage(err); msg != "Not enough Leather (2/4)." {
		t.Errorf("message = %q", msg)
	}
	if state.Quantity(next, types.ItemRef{ItemID: "iron_ore"}) != 3 {
		t.Error("materials consumed on failure")
	}
}

func TestCraft_LevelGate(t *testing.T) {
	cat := testutils.Catalog()
	r := cat.Recipes["craft_steel_sword"]
	r.MinCraftingLevel = 3
	cat.Recipes[r.ID] = r
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Inventory = inv(stack("iron_ore", 0, 5))
	})

	if _, _, err := Craft(cat, p, r.ID); !errors.IsInvalidTarget(err) {
		t.Errorf("err = %v", err)
	}
}

func TestEnhance_SuccessSplitsOneUnit(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Gold = 1000
		p.Inventory = inv(stack("steel_sword", 0, 2), stack("magic_stone", 0, 3))
	})

	next, res, err := Enhance(cat, p, types.ItemRef{ItemID: "steel_sword"}, &rng.Scripted{Floats: []float64{0.5}})
	if err != nil {
		t.Fatal(err)
	}
	// Uncommon at +0: 100 × 1 × 2 gold, 1 stone.
	if next.Gold != 800 || state.Quantity(next, types.ItemRef{ItemID: "magic_stone"}) != 2 {
		t.Errorf("gold=%d stones=%d", next.Gold, state.Quantity(next, types.ItemRef{ItemID: "magic_stone"}))
	}
	if state.Quantity(next, types.ItemRef{ItemID: "steel_sword"}) != 1 ||
		state.Quantity(next, types.ItemRef{ItemID: "steel_sword", Enhancement: 1}) != 1 {
		t.Errorf("inventory = %+v", next.Inventory)
	}
	if res.Output[0] != "Enhancement succeeded! You now have Steel Sword +1." {
		t.Errorf("output = %v", res.Output)
	}
}

func TestEnhance_FailureKeepsItemLosesCost(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Gold = 2000
		p.Inventory = inv(stack("steel_sword", 5, 1), stack("magic_stone", 0, 3))
	})

	// +5 succeeds with 0.6; 0.7 fails. Cost 100 × 6 × 2 = 1200, 3 stones.
	next, _, err := Enhance(cat, p, types.ItemRef{ItemID: "steel_sword", Enhancement: 5}, &rng.Scripted{Floats: []float64{0.7}})
	if err != nil {
		t.Fatal(err)
	}
	if next.Gold != 800 || state.Quantity(next, types.ItemRef{ItemID: "magic_stone"}) != 0 {
		t.Errorf("gold=%d inventory=%+v", next.Gold, next.Inventory)
	}
	if state.Quantity(next, types.ItemRef{ItemID: "steel_sword", Enhancement: 5}) != 1 {
		t.Error("item lost on failure")
	}
}

func TestEnhance_Errors(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Gold = 50
		p.Inventory = inv(stack("steel_sword", 0, 1), stack("iron_ore", 0, 1))
	})

	tests := []struct {
		name string
		ref  types.ItemRef
		code errors.Code
	}{
		{"equipped", types.ItemRef{ItemID: "wooden_club"}, errors.CodeInvalidTarget},
		{"material", types.ItemRef{ItemID: "iron_ore"}, errors.CodeInvalidTarget},
		{"not enough gold", types.ItemRef{ItemID: "steel_sword"}, errors.CodeInsufficient},
		{"unowned", types.ItemRef{ItemID: "skyfury"}, errors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _, err := Enhance(cat, p, tt.ref, &rng.Scripted{})
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
			if next.Gold != p.Gold {
				t.Error("gold charged on error")
			}
		})
	}
}

func TestEnhance_NoStones(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Gold = 1000
		p.Inventory = inv(stack("steel_sword", 0, 1))
	})

	next, _, err := Enhance(cat, p, types.ItemRef{ItemID: "steel_sword"}, &rng.Scripted{})
	if !errors.IsInsufficient(err) || next.Gold != 1000 {
		t.Errorf("err=%v gold=%d", err, next.Gold)
	}
}

func TestEnhancePet(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Gold = 1000
		p.Pets = []types.Pet{{ID: "g1", Species: "griffin_jr"}}
		p.ActivePetID = "g1"
		p.Inventory = inv(stack("magic_stone", 0, 1))
	})

	next, _, err := EnhancePet(cat, p, "g1", &rng.Scripted{Floats: []float64{0.2}})
	if err != nil {
		t.Fatal(err)
	}
	// Rare pet at +0: 300 gold.
	if next.Gold != 700 || next.Pets[0].Enhancement != 1 {
		t.Errorf("gold=%d pet=%+v", next.Gold, next.Pets[0])
	}
	// 5 base + 3 club + 5 griffin + 1 enhancement.
	if got := state.TotalAttack(cat, next); got != 14 {
		t.Errorf("attack = %d, want 14", got)
	}
	if _, _, err := EnhancePet(cat, p, "nope", &rng.Scripted{}); !errors.IsNotFound(err) {
		t.Errorf("unknown pet err = %v", err)
	}
}
