package economy

import (
	"testing"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/testutils"
	"github.com/nathoo/gacharealm/types"
)

func inv(entries ...types.InventoryEntry) []types.InventoryEntry { return entries }

func stack(id string, enh, qty int) types.InventoryEntry {
	return types.InventoryEntry{ItemRef: types.ItemRef{ItemID: id, Enhancement: enh}, Quantity: qty}
}

func TestBuy(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) { p.Gold = 500 })

	next, res, err := Buy(cat, p, "steel_sword")
	if err != nil {
		t.Fatal(err)
	}
	if next.Gold != 300 || state.Quantity(next, types.ItemRef{ItemID: "steel_sword"}) != 1 {
		t.Errorf("gold=%d inventory=%v", next.Gold, next.Inventory)
	}
	if len(res.Events) != 1 || res.Events[0].Source != types.SourceShop {
		t.Errorf("events = %+v", res.Events)
	}
	if res.Output[0] != "You bought Steel Sword for 200 gold." {
		t.Errorf("output = %v", res.Output)
	}

	// A second purchase merges into the same stack.
	next, _, _ = Buy(cat, next, "steel_sword")
	if len(next.Inventory) != 1 || next.Inventory[0].Quantity != 2 {
		t.Errorf("inventory = %+v", next.Inventory)
	}
}

func TestBuy_Errors(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, nil)

	tests := []struct {
		item string
		code errors.Code
	}{
		{"steel_sword", errors.CodeInsufficient},
		{"iron_ore", errors.CodeInvalidTarget},
		{"excalibur", errors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			next, _, err := Buy(cat, p, tt.item)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
			if next.Gold != p.Gold || len(next.Inventory) != len(p.Inventory) {
				t.Error("state changed on error")
			}
		})
	}
}

func TestSell(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Inventory = inv(stack("steel_sword", 0, 1), stack("wooden_club", 0, 1))
	})

	next, res, err := Sell(cat, p, types.ItemRef{ItemID: "steel_sword"})
	if err != nil {
		t.Fatal(err)
	}
	if next.Gold != 200 || state.Quantity(next, types.ItemRef{ItemID: "steel_sword"}) != 0 {
		t.Errorf("gold=%d", next.Gold)
	}
	if len(next.Inventory) != 1 {
		t.Errorf("empty stack not removed: %+v", next.Inventory)
	}
	if res.Output[0] != "You sold Steel Sword for 100 gold." {
		t.Errorf("output = %v", res.Output)
	}

	// The spare club sells; the equipped one stays put.
	next, _, err = Sell(cat, next, types.ItemRef{ItemID: "wooden_club"})
	if err != nil {
		t.Fatal(err)
	}
	if next.Equipment.Weapon == nil {
		t.Error("equipped weapon was sold")
	}
}

func TestSell_Equipped(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, nil)

	_, _, err := Sell(cat, p, types.ItemRef{ItemID: "wooden_club"})
	if !errors.IsInvalidTarget(err) {
		t.Fatalf("err = %v", err)
	}
	if msg := errors.GetMessage(err); msg != "Wooden Club is equipped as your weapon. Unequip it first." {
		t.Errorf("message = %q", msg)
	}

	if _, _, err := Sell(cat, p, types.ItemRef{ItemID: "steel_sword"}); !errors.IsNotFound(err) {
		t.Errorf("unowned err = %v", err)
	}
}
