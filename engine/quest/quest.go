// Package quest implements the quest lifecycle: offer, accept, progress
// from events, and claim.
package quest

import (
	"fmt"

	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// MaxActive is the number of quests a player may hold at once.
const MaxActive = 5

// TownXPDivisor splits quest xp into town xp on claim.
const TownXPDivisor = 4

// Available returns catalog quests that are neither active nor completed,
// in catalog order.
func Available(cat *state.Catalog, p types.PlayerState) []types.QuestDef {
	var out []types.QuestDef
	for _, id := range cat.QuestOrder {
		if isActive(p, id) || isCompleted(p, id) {
			continue
		}
		out = append(out, cat.Quests[id])
	}
	return out
}

// Accept starts a quest at zero progress.
func Accept(cat *state.Catalog, p types.PlayerState, questID string) (types.PlayerState, types.Result, error) {
	def, ok := cat.Quests[questID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such quest: %s", questID)
	}
	if isActive(p, questID) {
		return p, types.Result{}, errors.AlreadyExistsf("%s is already in your journal.", def.Title)
	}
	if isCompleted(p, questID) {
		return p, types.Result{}, errors.AlreadyExistsf("You have already finished %s.", def.Title)
	}
	if len(p.ActiveQuests) >= MaxActive {
		return p, types.Result{}, errors.FailedPreconditionf("You can only track %d quests at a time.", MaxActive)
	}

	next := state.Clone(p)
	next.ActiveQuests = append(next.ActiveQuests, types.QuestProgress{QuestID: questID})
	return next, types.Result{Output: []string{fmt.Sprintf("Quest accepted: %s.", def.Title)}}, nil
}

// Advance applies one event to every matching active quest, mutating p.
// Returns the IDs of quests that completed because of this event.
func Advance(cat *state.Catalog, p *types.PlayerState, event types.Event) []string {
	var done []string
	for i := range p.ActiveQuests {
		qp := &p.ActiveQuests[i]
		if qp.Completed {
			continue
		}
		def, ok := cat.Quests[qp.QuestID]
		if !ok || def.Target != event.Subject || !matches(def.Kind, event) {
			continue
		}
		amount := event.Amount
		if amount < 1 {
			amount = 1
		}
		qp.Progress += amount
		if qp.Progress >= def.Quantity {
			qp.Progress = def.Quantity
			qp.Completed = true
			done = append(done, def.ID)
		}
	}
	return done
}

func matches(kind types.QuestKind, event types.Event) bool {
	switch kind {
	case types.QuestDefeatMonster:
		return event.Type == types.EventMonsterDefeated
	case types.QuestCollectItem:
		// Bought, crafted, or rewarded items do not count.
		return event.Type == types.EventItemGained &&
			(event.Source == types.SourceLoot || event.Source == types.SourceDungeon)
	case types.QuestCraftItem:
		return event.Type == types.EventItemCrafted
	case types.QuestClearDungeon:
		return event.Type == types.EventDungeonCleared
	default:
		return false
	}
}

// Claim grants a completed quest's reward and retires it.
func Claim(cat *state.Catalog, p types.PlayerState, questID string) (types.PlayerState, types.Result, error) {
	def, ok := cat.Quests[questID]
	if !ok {
		return p, types.Result{}, errors.NotFoundf("no such quest: %s", questID)
	}
	idx := -1
	for i, qp := range p.ActiveQuests {
		if qp.QuestID == questID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p, types.Result{}, errors.NotFoundf("%s is not in your journal.", def.Title)
	}
	if !p.ActiveQuests[idx].Completed {
		qp := p.ActiveQuests[idx]
		return p, types.Result{}, errors.FailedPreconditionf("%s is not complete yet (%d/%d).", def.Title, qp.Progress, def.Quantity)
	}

	next := state.Clone(p)
	next.ActiveQuests = append(next.ActiveQuests[:idx], next.ActiveQuests[idx+1:]...)
	next.CompletedQuests = append(next.CompletedQuests, questID)

	effs := effects.Reward(def.Rewards, types.SourceQuest)
	effs = append(effs, effects.Effect{Kind: effects.TownXP, Amount: def.Rewards.XP / TownXPDivisor})
	evts, out := effects.Apply(cat, &next, effs)

	output := append([]string{fmt.Sprintf("Quest reward claimed: %s.", def.Title)}, out...)
	return next, types.Result{Events: evts, Output: output}, nil
}

func isActive(p types.PlayerState, id string) bool {
	for _, qp := range p.ActiveQuests {
		if qp.QuestID == id {
			return true
		}
	}
	return false
}

func isCompleted(p types.PlayerState, id string) bool {
	for _, c := range p.CompletedQuests {
		if c == id {
			return true
		}
	}
	return false
}
