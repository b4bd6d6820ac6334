// Package dungeon runs a multi-stage sequence of battles with a single
// completion reward at the end.
package dungeon

import (
	"fmt"

	"github.com/nathoo/gacharealm/engine/battle"
	"github.com/nathoo/gacharealm/engine/effects"
	"github.com/nathoo/gacharealm/engine/rng"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/types"
)

// Status is the run's position between stages.
type Status int

const (
	Active       Status = iota // a stage battle is in progress
	StageCleared               // waiting for Advance
	Cleared                    // final stage won, reward granted
	Failed                     // defeated at some stage
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case StageCleared:
		return "stage cleared"
	case Cleared:
		return "cleared"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Run is one dungeon attempt. Stage is 1-based.
type Run struct {
	Dungeon types.Dungeon
	Stages  []string // monster IDs after substitution
	Stage   int
	Status  Status
	Battle  *battle.Battle

	factor float64
	opts   battle.Options
}

// ScaleFactor is 1 + scaling × (difficulty − 1).
func ScaleFactor(difficulty int, scaling float64) float64 {
	if difficulty < 1 {
		difficulty = 1
	}
	return 1 + scaling*float64(difficulty-1)
}

// Stages returns the dungeon's monster list with level-gated
// substitutions applied for a player of the given level.
func Stages(d types.Dungeon, level int) []string {
	out := make([]string, len(d.Stages))
	for i, id := range d.Stages {
		out[i] = id
		for _, sub := range d.Substitutes {
			if sub.Monster == id && level < sub.BelowLevel {
				out[i] = sub.With
			}
		}
	}
	return out
}

// Enter starts a run at stage 1.
func Enter(cat *state.Catalog, p types.PlayerState, dungeonID string, opts battle.Options, scaling float64, src rng.Source) (*Run, types.Result, error) {
	d, ok := cat.Dungeons[dungeonID]
	if !ok {
		return nil, types.Result{}, errors.NotFoundf("no such dungeon: %s", dungeonID)
	}
	if len(d.Stages) == 0 {
		return nil, types.Result{}, errors.Internalf("dungeon %s has no stages", d.ID)
	}
	r := &Run{
		Dungeon: d,
		Stages:  Stages(d, p.Level),
		factor:  ScaleFactor(d.Difficulty, scaling),
		opts:    opts,
	}
	res, err := r.startStage(cat, p, 1, src)
	if err != nil {
		return nil, types.Result{}, err
	}
	res.Output = append([]string{fmt.Sprintf("You enter %s.", d.Name)}, res.Output...)
	return r, res, nil
}

func (r *Run) startStage(cat *state.Catalog, p types.PlayerState, stage int, src rng.Source) (types.Result, error) {
	id := r.Stages[stage-1]
	def, ok := cat.Monsters[id]
	if !ok {
		return types.Result{}, errors.Internalf("dungeon %s stage %d: unknown monster %s", r.Dungeon.ID, stage, id)
	}
	r.Stage = stage
	r.Status = Active
	r.Battle = battle.New(def, r.factor, r.opts)
	res, err := r.Battle.Start(cat, p, src)
	if err != nil {
		return types.Result{}, err
	}
	res.Output = append([]string{fmt.Sprintf("Stage %d/%d", stage, len(r.Stages))}, res.Output...)
	return res, nil
}

// Over reports whether the run has ended either way.
func (r *Run) Over() bool {
	return r.Status == Cleared || r.Status == Failed
}

// Final reports whether the current stage is the last one.
func (r *Run) Final() bool {
	return r.Stage == len(r.Stages)
}

// Settle moves the run forward after a battle action. It does nothing
// while the stage battle is still going. A victory on the final stage
// grants the completion reward exactly once.
func (r *Run) Settle(cat *state.Catalog, p types.PlayerState) (types.PlayerState, types.Result) {
	if r.Status != Active || !r.Battle.Over() {
		return p, types.Result{}
	}

	if r.Battle.Phase == battle.Defeat {
		r.Status = Failed
		return p, types.Result{Output: []string{fmt.Sprintf("You were driven out of %s.", r.Dungeon.Name)}}
	}

	if !r.Final() {
		r.Status = StageCleared
		return p, types.Result{Output: []string{fmt.Sprintf("Stage %d cleared!", r.Stage)}}
	}

	next := state.Clone(p)
	r.Status = Cleared
	evts, out := effects.Apply(cat, &next, effects.Reward(r.Dungeon.Rewards, types.SourceDungeon))
	events := append([]types.Event{{Type: types.EventDungeonCleared, Subject: r.Dungeon.ID, Amount: 1}}, evts...)
	output := append([]string{fmt.Sprintf("%s cleared! You claim the final reward.", r.Dungeon.Name)}, out...)
	return next, types.Result{Events: events, Output: output}
}

// Advance starts the next stage after a cleared one.
func (r *Run) Advance(cat *state.Catalog, p types.PlayerState, src rng.Source) (types.Result, error) {
	if r.Status != StageCleared {
		return types.Result{}, errors.FailedPreconditionf("Cannot advance: the run is %s.", r.Status)
	}
	return r.startStage(cat, p, r.Stage+1, src)
}
