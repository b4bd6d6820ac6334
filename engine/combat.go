package engine

import (
	"fmt"

	"github.com/nathoo/gacharealm/engine/battle"
	"github.com/nathoo/gacharealm/engine/dungeon"
	"github.com/nathoo/gacharealm/engine/resolve"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/logger"
	"github.com/nathoo/gacharealm/types"
)

// hunt starts a fight with a random wild monster at catalog strength.
func (e *Engine) hunt(types.Intent) (types.Result, error) {
	def, err := battle.RandomWild(e.Catalog, e.src())
	if err != nil {
		return types.Result{}, err
	}
	b := battle.New(def, 1, e.opts.Battle)
	res, err := b.Start(e.Catalog, e.Player, e.src())
	if err != nil {
		return types.Result{}, err
	}
	e.battle, e.run = b, nil
	e.dirty = true
	return res, nil
}

func (e *Engine) enter(in types.Intent) (types.Result, error) {
	if in.Object == "" {
		return e.dungeonList(), nil
	}
	id, err := resolve.Dungeon(e.Catalog, in.Object)
	if err != nil {
		return types.Result{}, err
	}
	run, res, err := dungeon.Enter(e.Catalog, e.Player, id, e.opts.Battle, e.opts.DifficultyScaling, e.src())
	if err != nil {
		return types.Result{}, err
	}
	e.run, e.battle = run, run.Battle
	e.dirty = true
	return res, nil
}

func (e *Engine) attack(types.Intent) (types.Result, error) {
	if err := e.ensureBattle(); err != nil {
		return types.Result{}, err
	}
	return e.battleAction(e.battle.Attack(e.Catalog, e.Player, e.src()))
}

func (e *Engine) ultimate(types.Intent) (types.Result, error) {
	if err := e.ensureBattle(); err != nil {
		return types.Result{}, err
	}
	return e.battleAction(e.battle.Ultimate(e.Catalog, e.Player, e.src()))
}

// battleAction commits a player action, settles the dungeon stage if the
// fight ended, and schedules whatever comes next.
func (e *Engine) battleAction(next types.PlayerState, res types.Result, err error) (types.Result, error) {
	if err != nil {
		return types.Result{}, err
	}
	e.commit(next, &res)
	e.settle(&res)
	e.schedule()
	return res, nil
}

// settle lets the dungeon run react to a finished stage battle.
func (e *Engine) settle(res *types.Result) {
	if e.run == nil {
		return
	}
	next, sr := e.run.Settle(e.Catalog, e.Player)
	if len(sr.Output) == 0 && len(sr.Events) == 0 {
		return
	}
	e.commit(next, &sr)
	res.Events = append(res.Events, sr.Events...)
	res.Output = append(res.Output, sr.Output...)
}

// schedule queues the follow-up for the current battle state.
func (e *Engine) schedule() {
	b := e.battle
	switch {
	case b == nil:
	case b.Phase == battle.EnemyTurn:
		e.sched.After(e.opts.EnemyTurnDelay, TaskEnemyTurn, e.enemyTurn)
	case e.run != nil && e.run.Status == dungeon.StageCleared:
		e.sched.After(e.opts.StageDelay, TaskNextStage, e.nextStage)
	case e.run != nil && e.run.Over():
		e.sched.After(e.opts.DungeonEndDelay, TaskDungeonEnd, e.endDungeon)
	case b.Over():
		e.battle = nil
	}
}

func (e *Engine) enemyTurn() {
	if e.battle == nil {
		return
	}
	next, res, err := e.battle.EnemyTurn(e.Catalog, e.Player)
	if err != nil {
		logger.Error("enemy turn failed", "error", err)
		return
	}
	e.commit(next, &res)
	e.settle(&res)
	e.emit(res)
	e.schedule()
}

func (e *Engine) nextStage() {
	if e.run == nil {
		return
	}
	res, err := e.run.Advance(e.Catalog, e.Player, e.src())
	if err != nil {
		logger.Error("dungeon advance failed", "dungeon", e.run.Dungeon.ID, "error", err)
		return
	}
	e.battle = e.run.Battle
	e.dirty = true
	e.emit(res)
}

func (e *Engine) endDungeon() {
	if e.run == nil {
		return
	}
	name := e.run.Dungeon.Name
	e.run, e.battle = nil, nil
	e.emit(say(fmt.Sprintf("You leave %s and return to town.", name)))
}

// emit queues scheduled output for the next Tick.
func (e *Engine) emit(res types.Result) {
	e.outbox.Events = append(e.outbox.Events, res.Events...)
	e.outbox.Output = append(e.outbox.Output, res.Output...)
	if res.Lore != nil {
		e.outbox.Lore = res.Lore
	}
}

// ensureBattle guards the battle verbs.
func (e *Engine) ensureBattle() error {
	if !e.InBattle() {
		return errors.FailedPrecondition("You are not in a battle.")
	}
	return nil
}
