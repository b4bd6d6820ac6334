package quest

import (
	"testing"

	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/testutils"
	"github.com/nathoo/gacharealm/types"
)

func TestAvailable_ExcludesActiveAndCompleted(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.ActiveQuests = []types.QuestProgress{{QuestID: "novice_hunter"}}
		p.CompletedQuests = []string{"first_craft"}
	})

	got := Available(cat, p)
	if len(got) != 2 || got[0].ID != "leather_gathering" || got[1].ID != "cave_cleaner" {
		t.Errorf("available = %+v", got)
	}
}

func TestAccept(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, nil)

	next, res, err := Accept(cat, p, "novice_hunter")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(next.ActiveQuests) != 1 || next.ActiveQuests[0].Progress != 0 {
		t.Errorf("active = %+v", next.ActiveQuests)
	}
	if res.Output[0] != "Quest accepted: Novice Hunter." {
		t.Errorf("output = %v", res.Output)
	}
	if len(p.ActiveQuests) != 0 {
		t.Error("input snapshot was mutated")
	}

	if _, _, err := Accept(cat, next, "novice_hunter"); errors.GetCode(err) != errors.CodeAlreadyExists {
		t.Errorf("duplicate accept err = %v", err)
	}
	if _, _, err := Accept(cat, next, "nope"); !errors.IsNotFound(err) {
		t.Errorf("unknown accept err = %v", err)
	}
}

func TestAccept_Limit(t *testing.T) {
	cat := testutils.Catalog()
	cat.Quests["extra"] = types.QuestDef{ID: "extra", Title: "Extra", Kind: types.QuestDefeatMonster, Target: "orc", Quantity: 1}
	cat.Quests["extra2"] = types.QuestDef{ID: "extra2", Title: "Extra 2", Kind: types.QuestDefeatMonster, Target: "orc", Quantity: 1}
	cat.QuestOrder = append(cat.QuestOrder, "extra", "extra2")

	p := testutils.Player(cat, nil)
	var err error
	for _, id := range []string{"novice_hunter", "leather_gathering", "first_craft", "cave_cleaner", "extra"} {
		p, _, err = Accept(cat, p, id)
		if err != nil {
			t.Fatalf("accept %s: %v", id, err)
		}
	}
	if _, _, err := Accept(cat, p, "extra2"); !errors.IsFailedPrecondition(err) {
		t.Errorf("sixth accept err = %v", err)
	}
}

func TestAdvance_CollectCountsOnlyLootAndDungeon(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.ActiveQuests = []types.QuestProgress{{QuestID: "leather_gathering"}}
	})

	for _, src := range []string{types.SourceShop, types.SourceCraft, types.SourceQuest, types.SourceGacha} {
		Advance(cat, &p, types.Event{Type: types.EventItemGained, Subject: "leather", Amount: 3, Source: src})
	}
	if p.ActiveQuests[0].Progress != 0 {
		t.Fatalf("non-loot sources counted: %d", p.ActiveQuests[0].Progress)
	}

	Advance(cat, &p, types.Event{Type: types.EventItemGained, Subject: "leather", Amount: 1, Source: types.SourceLoot})
	Advance(cat, &p, types.Event{Type: types.EventItemGained, Subject: "leather", Amount: 5, Source: types.SourceDungeon})
	if p.ActiveQuests[0].Progress != 6 {
		t.Errorf("progress = %d, want 6", p.ActiveQuests[0].Progress)
	}
}

func TestAdvance_ClampsAndCompletes(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.ActiveQuests = []types.QuestProgress{{QuestID: "leather_gathering", Progress: 8}}
	})

	done := Advance(cat, &p, types.Event{Type: types.EventItemGained, Subject: "leather", Amount: 5, Source: types.SourceDungeon})
	if len(done) != 1 || done[0] != "leather_gathering" {
		t.Errorf("done = %v", done)
	}
	if qp := p.ActiveQuests[0]; qp.Progress != 10 || !qp.Completed {
		t.Errorf("progress = %+v", qp)
	}
}

func TestAdvance_EachKind(t *testing.T) {
	tests := []struct {
		quest string
		event types.Event
	}{
		{"novice_hunter", types.Event{Type: types.EventMonsterDefeated, Subject: "slime", Amount: 1}},
		{"first_craft", types.Event{Type: types.EventItemCrafted, Subject: "steel_sword", Amount: 1}},
		{"cave_cleaner", types.Event{Type: types.EventDungeonCleared, Subject: "slime_den", Amount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.quest, func(t *testing.T) {
			cat := testutils.Catalog()
			p := testutils.Player(cat, func(p *types.PlayerState) {
				p.ActiveQuests = []types.QuestProgress{{QuestID: tt.quest}}
			})
			Advance(cat, &p, tt.event)
			if p.ActiveQuests[0].Progress != 1 {
				t.Errorf("progress = %d, want 1", p.ActiveQuests[0].Progress)
			}

			wrong := tt.event
			wrong.Subject = "something_else"
			Advance(cat, &p, wrong)
			if p.ActiveQuests[0].Progress != 1 {
				t.Errorf("wrong target counted")
			}
		})
	}
}

func TestClaim(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.ActiveQuests = []types.QuestProgress{{QuestID: "first_craft", Progress: 1, Completed: true}}
	})

	next, res, err := Claim(cat, p, "first_craft")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	// 100 xp levels up once: +200 gold bonus on top of the 200 reward.
	if next.Gold != 100+200+200 {
		t.Errorf("gold = %d", next.Gold)
	}
	if next.Level != 2 || next.TownXP != 25 {
		t.Errorf("level=%d townXP=%d", next.Level, next.TownXP)
	}
	if state.Quantity(next, types.ItemRef{ItemID: "magic_stone"}) != 2 {
		t.Error("missing magic stones")
	}
	if len(next.ActiveQuests) != 0 || len(next.CompletedQuests) != 1 {
		t.Errorf("active=%v completed=%v", next.ActiveQuests, next.CompletedQuests)
	}
	for _, e := range res.Events {
		if e.Type == types.EventItemGained && e.Source != types.SourceQuest {
			t.Errorf("reward item source = %q", e.Source)
		}
	}

	for _, q := range Available(cat, next) {
		if q.ID == "first_craft" {
			t.Error("claimed quest offered again")
		}
	}
}

func TestClaim_NotComplete(t *testing.T) {
	cat := testutils.Catalog()
	p := testutils.Player(cat, func(p *types.PlayerState) {
		p.ActiveQuests = []types.QuestProgress{{QuestID: "novice_hunter", Progress: 3}}
	})

	next, _, err := Claim(cat, p, "novice_hunter")
	if !errors.IsFailedPrecondition(err) {
		t.Fatalf("err = %v", err)
	}
	if errors.GetMessage(err) != "Novice Hunter is not complete yet (3/5)." {
		t.Errorf("message = %q", errors.GetMessage(err))
	}
	if next.ActiveQuests[0].Progress != 3 {
		t.Error("state changed on error")
	}

	if _, _, err := Claim(cat, p, "cave_cleaner"); !errors.IsNotFound(err) {
		t.Errorf("claim inactive err = %v", err)
	}
}
