// Package engine provides the Step() orchestrator that wires together
// parsing, name resolution, the mutators, event dispatch, and persistence
// into a single turn. Battle pacing runs through a scheduler the front end
// drives with Tick.
package engine

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/nathoo/gacharealm/engine/battle"
	"github.com/nathoo/gacharealm/engine/dungeon"
	"github.com/nathoo/gacharealm/engine/events"
	"github.com/nathoo/gacharealm/engine/parser"
	"github.com/nathoo/gacharealm/engine/resolve"
	"github.com/nathoo/gacharealm/engine/rng"
	"github.com/nathoo/gacharealm/engine/save"
	"github.com/nathoo/gacharealm/engine/scheduler"
	"github.com/nathoo/gacharealm/engine/state"
	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/logger"
	"github.com/nathoo/gacharealm/types"
)

// Scheduled task names.
const (
	TaskEnemyTurn  = "enemy_turn"
	TaskNextStage  = "next_stage"
	TaskDungeonEnd = "dungeon_end"
)

// Options configure pacing, battle policy, and persistence.
type Options struct {
	EnemyTurnDelay    time.Duration
	StageDelay        time.Duration
	DungeonEndDelay   time.Duration
	Battle            battle.Options
	DifficultyScaling float64

	// Seed for a fresh RNG. 0 picks one from the clock.
	Seed    int64
	SaveKey string
	Clock   scheduler.Clock

	// Source overrides the RNG for every draw. Tests use rng.Scripted.
	Source rng.Source
}

// DefaultOptions returns the standard pacing and policy.
func DefaultOptions() Options {
	return Options{
		EnemyTurnDelay:  time.Second,
		StageDelay:      1500 * time.Millisecond,
		DungeonEndDelay: 2 * time.Second,
		Battle:          battle.DefaultOptions(),
		SaveKey:         save.DefaultKey,
	}
}

// Engine holds the catalog, the player snapshot, and the transient battle
// state. It is not safe for concurrent use.
type Engine struct {
	Catalog *state.Catalog
	Player  types.PlayerState
	RNG     *rng.RNG

	store save.Store
	opts  Options
	sched *scheduler.Scheduler

	battle *battle.Battle
	run    *dungeon.Run

	// outbox collects output from scheduled tasks until the next Tick.
	outbox types.Result
	dirty  bool
}

// New creates an engine over cat persisting to store. Call Boot before the
// first Step.
func New(cat *state.Catalog, store save.Store, opts Options) *Engine {
	if opts.SaveKey == "" {
		opts.SaveKey = save.DefaultKey
	}
	if opts.Clock == nil {
		opts.Clock = scheduler.SystemClock{}
	}
	return &Engine{
		Catalog: cat,
		Player:  state.NewPlayer(cat),
		store:   store,
		opts:    opts,
		sched:   scheduler.New(opts.Clock),
	}
}

// Boot reads the saved snapshot, or starts a new player, and restores the
// RNG to its saved position.
func (e *Engine) Boot(ctx context.Context) types.Result {
	sd, found := save.LoadOrInit(ctx, e.store, e.Catalog, e.opts.SaveKey)
	e.Player = sd.Player
	if found && sd.RNGSeed != 0 {
		e.RNG = rng.Restore(sd.RNGSeed, sd.RNGPosition)
	} else {
		e.RNG = rng.New(e.newSeed())
	}

	logger.Info("engine booted", "player", e.Player.Name, "level", e.Player.Level, "resumed", found)

	var out []string
	if g := e.Catalog.Game; g.Title != "" {
		out = append(out, g.Title)
	}
	if found {
		out = append(out, "Welcome back, "+e.Player.Name+".")
	} else if intro := e.Catalog.Game.Intro; intro != "" {
		out = append(out, intro)
	}
	out = append(out, "Type 'help' for a list of commands.")
	return types.Result{Output: out}
}

func (e *Engine) newSeed() int64 {
	if e.opts.Seed != 0 {
		return e.opts.Seed
	}
	return e.opts.Clock.Now().UnixNano()
}

// src is the random source for every draw.
func (e *Engine) src() rng.Source {
	if e.opts.Source != nil {
		return e.opts.Source
	}
	return e.RNG
}

// Step processes one player command and returns the result.
func (e *Engine) Step(ctx context.Context, input string) types.Result {
	intent := parser.Parse(input)
	if intent.Verb == "" {
		return say("What do you want to do?")
	}

	h, ok := handlers[intent.Verb]
	if !ok {
		return say("I don't understand that. Type 'help' for a list of commands.")
	}
	if !h.readOnly(intent) {
		if err := e.ready(h); err != nil {
			return say(errors.GetMessage(err))
		}
	}

	res, err := h.run(e, intent)
	if err != nil {
		return say(message(err))
	}
	e.persist(ctx)
	return res
}

// ready rejects a mutating command while a scheduled task is pending or
// while the command is not allowed in the current battle state.
func (e *Engine) ready(h handler) error {
	switch {
	case e.sched.PendingNamed(TaskEnemyTurn):
		return errors.FailedPrecondition("Wait for the enemy to act.")
	case e.sched.PendingNamed(TaskNextStage):
		return errors.FailedPrecondition("The next stage is about to begin.")
	case e.sched.PendingNamed(TaskDungeonEnd):
		return errors.FailedPrecondition("You are leaving the dungeon.")
	}
	if e.InBattle() && !h.battle {
		return errors.FailedPrecondition("You're in the middle of a fight! (attack, ultimate, use <item>)")
	}
	if !e.InBattle() && h.battleOnly {
		return errors.FailedPrecondition("You are not in a battle. Try 'hunt' or 'enter <dungeon>'.")
	}
	return nil
}

// Tick runs the scheduled tasks due at now and returns their output.
func (e *Engine) Tick(ctx context.Context, now time.Time) types.Result {
	if e.sched.Run(now) == 0 {
		return types.Result{}
	}
	e.persist(ctx)
	return e.drain()
}

// Flush runs every pending task without waiting. Script mode plays through
// battles with it.
func (e *Engine) Flush(ctx context.Context) types.Result {
	if e.sched.Flush() == 0 {
		return types.Result{}
	}
	e.persist(ctx)
	return e.drain()
}

func (e *Engine) drain() types.Result {
	res := e.outbox
	e.outbox = types.Result{}
	return res
}

// Next returns when the next scheduled task is due.
func (e *Engine) Next() (time.Time, bool) {
	return e.sched.Next()
}

// Busy reports whether a scheduled task is pending.
func (e *Engine) Busy() bool {
	return e.sched.Pending()
}

// InBattle reports whether a fight is in progress.
func (e *Engine) InBattle() bool {
	return e.battle != nil && !e.battle.Over()
}

// Battle returns the current or last fight, or nil.
func (e *Engine) Battle() *battle.Battle {
	return e.battle
}

// Run returns the dungeon run in progress, or nil.
func (e *Engine) Run() *dungeon.Run {
	return e.run
}

// commit installs a new player snapshot, dispatches the result's events
// into quest progress, and marks the state for saving. The quest
// completions are appended to res.
func (e *Engine) commit(next types.PlayerState, res *types.Result) {
	e.Player = next
	completed, lines := events.Dispatch(e.Catalog, &e.Player, res.Events)
	res.Events = append(res.Events, completed...)
	res.Output = append(res.Output, lines...)
	e.dirty = true
}

// persist writes the snapshot when it changed. Write failures are logged
// and never block play.
func (e *Engine) persist(ctx context.Context) {
	if !e.dirty {
		return
	}
	if err := save.Write(ctx, e.store, e.opts.SaveKey, e.snapshot()); err != nil {
		logger.Error("failed to save game", "key", e.opts.SaveKey, "error", err)
		return
	}
	e.dirty = false
}

func (e *Engine) snapshot() save.SaveData {
	return save.SaveData{
		Version:     e.Catalog.Game.Version,
		Player:      e.Player,
		RNGSeed:     e.RNG.Seed(),
		RNGPosition: e.RNG.Position(),
	}
}

// Save writes the snapshot now.
func (e *Engine) Save(ctx context.Context) error {
	if err := save.Write(ctx, e.store, e.opts.SaveKey, e.snapshot()); err != nil {
		return errors.Wrap(err, "failed to save game")
	}
	e.dirty = false
	return nil
}

// Load replaces the player with the stored snapshot. It is refused while a
// battle or dungeon is in progress.
func (e *Engine) Load(ctx context.Context) error {
	if e.InBattle() || e.Busy() {
		return errors.FailedPrecondition("You cannot load during a battle.")
	}
	data, err := e.store.Load(ctx, e.opts.SaveKey)
	if err != nil {
		return errors.Wrap(err, "failed to load game")
	}
	sd, err := save.Decode(e.Catalog, data)
	if err != nil {
		return err
	}
	e.Player = sd.Player
	if sd.RNGSeed != 0 {
		e.RNG = rng.Restore(sd.RNGSeed, sd.RNGPosition)
	}
	e.battle, e.run = nil, nil
	e.dirty = false
	return nil
}

// Reset deletes the stored snapshot and starts a new player.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.store.Delete(ctx, e.opts.SaveKey); err != nil && !errors.IsNotFound(err) {
		return errors.Wrap(err, "failed to delete save")
	}
	e.sched.Clear()
	e.battle, e.run = nil, nil
	e.outbox = types.Result{}
	e.Player = state.NewPlayer(e.Catalog)
	e.RNG = rng.New(e.newSeed())
	e.dirty = false
	logger.Info("game reset", "key", e.opts.SaveKey)
	return nil
}

// message renders an error for the player. Mutator errors carry a
// player-facing message; resolver errors render themselves.
func message(err error) string {
	var amb *resolve.AmbiguityError
	var nf *resolve.NotFoundError
	if stderrors.As(err, &amb) || stderrors.As(err, &nf) {
		return err.Error()
	}
	if errors.GetCode(err) == errors.CodeInternal {
		logger.Error("command failed", "error", err)
		return "Something went wrong."
	}
	return errors.GetMessage(err)
}

func say(lines ...string) types.Result {
	return types.Result{Output: lines}
}
