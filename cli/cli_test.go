package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/nathoo/gacharealm/engine"
	"github.com/nathoo/gacharealm/engine/rng"
	"github.com/nathoo/gacharealm/engine/save"
	"github.com/nathoo/gacharealm/engine/scheduler"
	"github.com/nathoo/gacharealm/lore"
	"github.com/nathoo/gacharealm/lore/loremock"
	"github.com/nathoo/gacharealm/testutils"
	"github.com/nathoo/gacharealm/types"
)

func newTestCLI(t *testing.T, input string, src *rng.Scripted) (*CLI, *bytes.Buffer, *save.MemoryStore) {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Clock = &scheduler.FakeClock{T: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	opts.Seed = 42
	if src != nil {
		opts.Source = src
	}
	store := save.NewMemory()
	var out bytes.Buffer
	c := &CLI{
		Engine: engine.New(testutils.Catalog(), store, opts),
		In:     strings.NewReader(input),
		Out:    &out,
		Script: true,
	}
	return c, &out, store
}

func TestCLI_BootAndQuit(t *testing.T) {
	c, out, store := newTestCLI(t, "/quit\n", nil)
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Test Realm") {
		t.Error("expected title in output")
	}
	if !strings.Contains(output, "Type 'help'") {
		t.Error("expected help hint in output")
	}
	if !strings.Contains(output, "[Goodbye.]") {
		t.Error("expected goodbye on /quit")
	}
	if _, err := store.Load(context.Background(), save.DefaultKey); err != nil {
		t.Errorf("/quit should save: %v", err)
	}
}

func TestCLI_BasicGameplay(t *testing.T) {
	c, out, _ := newTestCLI(t, "buy small potion\ninventory\n", nil)
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "You bought Small Health Potion for 20 gold.") {
		t.Errorf("expected purchase line, got:\n%s", output)
	}
	if !strings.Contains(output, "Small Health Potion x1") {
		t.Errorf("expected potion in inventory, got:\n%s", output)
	}
	if c.Engine.Player.Gold != 80 {
		t.Errorf("gold = %d, want 80", c.Engine.Player.Gold)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out, _ := newTestCLI(t, "/help\n/quit\n", nil)
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "/save") || !strings.Contains(output, "/trace") {
		t.Error("expected meta-commands in /help")
	}
	if !strings.Contains(output, "buy [n] <item>") {
		t.Error("expected game commands in /help")
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	c, out, _ := newTestCLI(t, "/save\nbuy small potion\n/load\n", nil)
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "[Game saved.]") {
		t.Error("expected save confirmation")
	}
	if !strings.Contains(output, "[Game loaded.]") {
		t.Error("expected load confirmation")
	}
	// Every action autosaves, so the load keeps the purchase.
	if c.Engine.Player.Gold != 80 {
		t.Errorf("gold after load = %d, want 80", c.Engine.Player.Gold)
	}
}

func TestCLI_Reset(t *testing.T) {
	c, out, _ := newTestCLI(t, "buy small potion\n/reset\n", nil)
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Progress erased.") {
		t.Error("expected reset confirmation")
	}
	if c.Engine.Player.Gold != 100 || len(c.Engine.Player.Inventory) != 0 {
		t.Errorf("player after reset = %d gold, %v, want a fresh player",
			c.Engine.Player.Gold, c.Engine.Player.Inventory)
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out, _ := newTestCLI(t, "/dance\n/quit\n", nil)
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Unknown command: /dance") {
		t.Error("expected unknown meta-command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out, _ := newTestCLI(t, "/trace\nbuy small potion\n/trace\n/quit\n", nil)
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Trace output enabled.") || !strings.Contains(output, "Trace output disabled.") {
		t.Error("expected both trace toggles")
	}
	if !strings.Contains(output, "[trace]   item_gained small_potion x1 (shop)") {
		t.Errorf("expected item_gained trace line, got:\n%s", output)
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out, _ := newTestCLI(t, "/state\n/quit\n", nil)
	c.Run(context.Background())

	if !strings.Contains(out.String(), `"gold": 100`) {
		t.Errorf("expected JSON player dump, got:\n%s", out.String())
	}
}

func TestCLI_CommentsAndEcho(t *testing.T) {
	c, out, _ := newTestCLI(t, "# buy a potion\nstatus\n", nil)
	c.EchoInput = true
	c.Run(context.Background())

	output := out.String()
	if strings.Contains(output, "buy a potion") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> status\n") {
		t.Errorf("expected echoed input, got:\n%s", output)
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, _, _ := newTestCLI(t, "buy small potion\nagain\ng\n", nil)
	c.Run(context.Background())

	if got := c.Engine.Player.Gold; got != 40 {
		t.Errorf("gold = %d, want 40 after three purchases", got)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out, _ := newTestCLI(t, "again\n", nil)
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Nothing to repeat.") {
		t.Error("expected 'Nothing to repeat.'")
	}
}

func TestCLI_ScriptPlaysEnemyTurns(t *testing.T) {
	src := &rng.Scripted{
		Ints:   []int{0},
		Floats: []float64{0, 0.99, 0, 0.99, 0, 0.99},
	}
	c, out, _ := newTestCLI(t, "hunt\nattack\nattack\nattack\n", src)
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "You defeated the Slime!") {
		t.Errorf("expected victory, got:\n%s", output)
	}
	if c.Engine.Busy() || c.Engine.InBattle() {
		t.Error("script playback should leave nothing pending")
	}
	if c.Engine.Player.HP != 40 {
		t.Errorf("hp = %d, want 40 after two enemy turns", c.Engine.Player.HP)
	}
}

func TestCLI_ExaminePrintsLore(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := loremock.NewMockGenerator(ctrl)
	gen.EXPECT().
		Generate(gomock.Any(), gomock.AssignableToTypeOf(types.LoreRequest{})).
		DoAndReturn(func(_ context.Context, req types.LoreRequest) (string, error) {
			if req.Name != "Skyfury" {
				t.Errorf("lore requested for %q, want Skyfury", req.Name)
			}
			return "Forged in a storm.", nil
		})

	c, out, _ := newTestCLI(t, "examine skyfury\n", nil)
	c.Lore = gen
	c.LoreTimeout = time.Second
	c.Run(context.Background())

	if !strings.Contains(out.String(), "  Forged in a storm.") {
		t.Errorf("expected lore text, got:\n%s", out.String())
	}
}

func TestCLI_LoreFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := loremock.NewMockGenerator(ctrl)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", stderrors.New("quota exceeded"))

	c, out, _ := newTestCLI(t, "examine steel sword\n", nil)
	c.Lore = gen
	c.Run(context.Background())

	if !strings.Contains(out.String(), lore.Fallback) {
		t.Errorf("expected fallback lore, got:\n%s", out.String())
	}
}

func TestTraceLines(t *testing.T) {
	if lines := TraceLines(types.Result{}); lines != nil {
		t.Errorf("no events should give no lines, got %v", lines)
	}
	lines := TraceLines(types.Result{Events: []types.Event{
		{Type: types.EventLevelUp, Amount: 2},
		{Type: types.EventItemGained, Subject: "leather", Amount: 2, Source: "loot"},
	}})
	want := []string{
		"[trace] Events: 2",
		"[trace]   level_up  x2",
		"[trace]   item_gained leather x2 (loot)",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("TraceLines = %q, want %q", lines, want)
	}
}
