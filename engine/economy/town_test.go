package economy

import (
	"strings"
	"testing"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/testutils"
	"github.com/nathoo/gacharealm/types"
)

func TestChooseClass(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Level = 10
		p.MaxHP = 140
		p.HP = 30
	})

	next, _, err := ChooseClass(cat, p, "warrior")
	if err != nil {
		t.Fatal(err)
	}
	if next.Class != "warrior" || next.MaxHP != 160 || next.HP != 160 || next.Defense != 7 {
		t.Errorf("class=%s maxHP=%d hp=%d def=%d", next.Class, next.MaxHP, next.HP, next.Defense)
	}

	if _, _, err := ChooseClass(cat, next, "archer"); !errors.IsInvalidTarget(err) {
		t.Errorf("second class err = %v", err)
	}
}

func TestChooseClass_Gates(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, nil)

	if _, _, err := ChooseClass(cat, p, "archer"); !errors.IsInvalidTarget(err) {
		t.Errorf("low level err = %v", err)
	}
	p.Level = 12
	if _, _, err := ChooseClass(cat, p, "adventurer"); !errors.IsNotFound(err) {
		t.Errorf("default class err = %v", err)
	}
	next, _, err := ChooseClass(cat, p, "archer")
	if err != nil {
		t.Fatal(err)
	}
	if got := state.CritChance(cat, next); got < 0.0999 || got > 0.1001 {
		t.Errorf("archer crit = %v, want 0.10", got)
	}
}

func TestUpgradeTown(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.TownXP = 100
		p.Gold = 1500
	})

	next, res, err := UpgradeTown(cat, p)
	if err != nil {
		t.Fatal(err)
	}
	if next.TownLevel != 2 || next.Gold != 500 {
		t.Errorf("town=%d gold=%d", next.TownLevel, next.Gold)
	}
	if !strings.Contains(res.Output[0], "Village") {
		t.Errorf("output = %v", res.Output)
	}

	// Village → City needs 500 town xp.
	if _, _, err := UpgradeTown(cat, next); !errors.IsInsufficient(err) {
		t.Errorf("low town xp err = %v", err)
	}
}

func TestUpgradeTown_GoldAndMax(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) { p.TownXP = 100 })

	_, _, err := UpgradeTown(cat, p)
	if !errors.IsInsufficient(err) {
		t.Fatalf("err = %v", err)
	}
	if msg := errors.GetMessage(err); msg != "Upgrading costs 1,000 gold; you have 100." {
		t.Errorf("message = %q", msg)
	}

	p.TownLevel = 5
	p.Gold = 1_000_000
	if _, _, err := UpgradeTown(cat, p); !errors.IsFailedPrecondition(err) {
		t.Errorf("max level err = %v", err)
	}
}

func TestClaimTrophy(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) { p.Trophies = 260 })

	next, _, err := ClaimTrophy(cat, p, "trophy_100")
	if err != nil {
		t.Fatal(err)
	}
	if next.Gold != 600 {
		t.Errorf("gold = %d", next.Gold)
	}
	next, _, err = ClaimTrophy(cat, next, "trophy_250")
	if err != nil {
		t.Fatal(err)
	}
	if state.Quantity(next, types.ItemRef{ItemID: "magic_stone"}) != 5 {
		t.Error("magic stones missing")
	}

	if _, _, err := ClaimTrophy(cat, next, "trophy_100"); errors.GetCode(err) != errors.CodeAlreadyExists {
		t.Errorf("double claim err = %v", err)
	}
	if _, _, err := ClaimTrophy(cat, next, "trophy_500"); !errors.IsInsufficient(err) {
		t.Errorf("locked milestone err = %v", err)
	}
}

func TestRest(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) { p.HP = 1 })

	next, _, err := Rest(cat, p)
	if err != nil || next.HP != 50 {
		t.Errorf("hp=%d err=%v", next.HP, err)
	}
	again, res, _ := Rest(cat, next)
	if again.HP != 50 || res.Output[0] != "You are already fully rested." {
		t.Errorf("output = %v", res.Output)
	}
}

func TestRename(t *testing.T) {
	p := testutils.Player(testutils.Catalog(), nil)

	next, _, err := Rename(p, "  Hana  ")
	if err != nil || next.Name != "Hana" {
		t.Errorf("name=%q err=%v", next.Name, err)
	}
	if _, _, err := Rename(p, "   "); errors.GetCode(err) != errors.CodeInvalidArgument {
		t.Errorf("empty err = %v", err)
	}
	if _, _, err := Rename(p, strings.Repeat("a", 25)); errors.GetCode(err) != errors.CodeInvalidArgument {
		t.Errorf("long err = %v", err)
	}
	if _, _, err := Rename(p, strings.Repeat("별", 24)); err != nil {
		t.Errorf("24 runes rejected: %v", err)
	}
}

func TestPets(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.Pets = []types.Pet{{ID: "a", Species: "griffin_jr"}, {ID: "b", Species: "baby_dragon"}}
	})

	next, _, err := ActivatePet(cat, p, "b")
	if err != nil || next.ActivePetID != "b" {
		t.Fatalf("active=%q err=%v", next.ActivePetID, err)
	}
	if _, _, err := ActivatePet(cat, next, "b"); !errors.IsInvalidTarget(err) {
		t.Errorf("reactivate err = %v", err)
	}
	if _, _, err := ActivatePet(cat, next, "z"); !errors.IsNotFound(err) {
		t.Errorf("unknown pet err = %v", err)
	}

	next, _, err = RenamePet(cat, next, "b", "Ember")
	if err != nil || state.PetName(cat, next.Pets[1]) != "Ember" {
		t.Errorf("pet=%+v err=%v", next.Pets[1], err)
	}

	next, res, err := DismissPet(cat, next)
	if err != nil || next.ActivePetID != "" {
		t.Fatalf("active=%q err=%v", next.ActivePetID, err)
	}
	if res.Output[0] != "Ember returns to the stable." {
		t.Errorf("output = %v", res.Output)
	}
	if _, _, err := DismissPet(cat, next); !errors.IsInvalidTarget(err) {
		t.Errorf("dismiss none err = %v", err)
	}
}
