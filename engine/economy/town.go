package economy

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

const (
	// ClassLevel is the player level needed to choose a class.
	ClassLevel = 10
	// MaxNameLength bounds player and pet names, in characters.
	MaxNameLength = 24
)

// ChooseClass sets the player's class once, applies its stat bonuses, and
// fully heals.
func ChooseClass(cat *state.Catalog, p types.PlayerState, classID string) (types.PlayerState, types.Result, error) {
	c, ok := cat.Classes[classID]
	if !ok || c.Default {
		return p, types.Result{}, errors.NotFoundf("no such class: %s", classID)
	}
	if p.Class != "" {
		current := p.Class
		if cur, ok := cat.Classes[p.Class]; ok {
			current = cur.Name
		}
		return p, types.Result{}, errors.InvalidTargetf("You are already a %s. A class cannot be changed.", current)
	}
	if p.Level < ClassLevel {
		return p, types.Result{}, errors.InvalidTargetf("You must reach level %d to choose a class.", ClassLevel)
	}

	next := state.Clone(p)
	next.Class = c.ID
	next.MaxHP += c.MaxHP
	next.Attack += c.Attack
	next.Defense += c.Defense
	next.HP = next.MaxHP
	return next, types.Result{Output: []string{fmt.Sprintf("You are now a %s!", c.Name)}}, nil
}

// UpgradeTown raises the town one tier. It needs the next tier's town xp
// and the current tier's upgrade cost in gold.
func UpgradeTown(cat *state.Catalog, p types.PlayerState) (types.PlayerState, types.Result, error) {
	cur, ok := state.TownLevel(cat, p.TownLevel)
	if !ok {
		return p, types.Result{}, errors.Internalf("unknown town level %d", p.TownLevel)
	}
	nextTier, ok := state.TownLevel(cat, p.TownLevel+1)
	if !ok {
		return p, types.Result{}, errors.FailedPreconditionf("%s is already fully developed.", cur.Name)
	}
	if p.TownXP < nextTier.XPRequired {
		return p, types.Result{}, errors.Insufficientf("Not enough town XP (%d/%d).", p.TownXP, nextTier.XPRequired)
	}
	if p.Gold < cur.UpgradeCost {
		return p, types.Result{}, errors.Insufficientf("Upgrading costs %s gold; you have %s.",
			humanize.Comma(int64(cur.UpgradeCost)), humanize.Comma(int64(p.Gold)))
	}

	next := state.Clone(p)
	next.Gold -= cur.UpgradeCost
	next.TownLevel++
	return next, types.Result{Output: []string{
		fmt.Sprintf("Your town grows into a %s (level %d)!", nextTier.Name, nextTier.Level),
	}}, nil
}

// ClaimTrophy grants a trophy milestone's reward. Each milestone pays once.
func ClaimTrophy(cat *state.Catalog, p types.PlayerState, milestoneID string) (types.PlayerState, types.Result, error) {
	var m types.TrophyMilestone
	found := false
	for _, ms := range cat.Milestones {
		if ms.ID == milestoneID {
			m, found = ms, true
			break
		}
	}
	if !found {
		return p, types.Result{}, errors.NotFoundf("no such milestone: %s", milestoneID)
	}
	for _, id := range p.ClaimedMilestones {
		if id == milestoneID {
			return p, types.Result{}, errors.AlreadyExistsf("The %d trophy reward has already been claimed.", m.Trophies)
		}
	}
	if p.Trophies < m.Trophies {
		return p, types.Result{}, errors.Insufficientf("Not enough trophies (%d/%d).", p.Trophies, m.Trophies)
	}

	next := state.Clone(p)
	next.ClaimedMilestones = append(next.ClaimedMilestones, milestoneID)
	evts, out := effects.Apply(cat, &next, effects.Reward(m.Rewards, types.SourceMilestone))
	output := append([]string{fmt.Sprintf("Trophy road: %d trophies reward claimed!", m.Trophies)}, out...)
	return next, types.Result{Events: evts, Output: output}, nil
}

// Rest restores hp to full. Callers reject it during battle.
func Rest(cat *state.Catalog, p types.PlayerState) (types.PlayerState, types.Result, error) {
	if p.HP >= p.MaxHP {
		return p, types.Result{Output: []string{"You are already fully rested."}}, nil
	}
	next := state.Clone(p)
	evts, _ := effects.Apply(cat, &next, []effects.Effect{{Kind: effects.Restore}})
	return next, types.Result{Events: evts, Output: []string{
		fmt.Sprintf("You rest at the inn. HP %d/%d.", next.HP, next.MaxHP),
	}}, nil
}

// Rename changes the player's display name.
func Rename(p types.PlayerState, name string) (types.PlayerState, types.Result, error) {
	name, err := validName(name)
	if err != nil {
		return p, types.Result{}, err
	}
	next := state.Clone(p)
	next.Name = name
	return next, types.Result{Output: []string{fmt.Sprintf("You are now known as %s.", name)}}, nil
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.InvalidArgument("A name cannot be empty.")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", errors.InvalidArgumentf("A name can be at most %d characters.", MaxNameLength)
	}
	return name, nil
}
