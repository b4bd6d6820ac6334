// Package cli provides the plain line-oriented front end: terminal I/O,
// output formatting, script playback, and meta-command dispatch.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nathoo/gacharealm/engine"
	"github.com/nathoo/gacharealm/lore"
	"github.com/nathoo/gacharealm/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine      *engine.Engine
	Lore        lore.Generator // nil disables item lore
	LoreTimeout time.Duration
	In          io.Reader
	Out         io.Writer
	Trace       bool
	EchoInput   bool // echo each input line after the prompt (for script playback)

	// Script plays scheduled battle turns immediately instead of waiting.
	Script bool

	lastCmd string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, gen lore.Generator) *CLI {
	return &CLI{
		Engine:      eng,
		Lore:        gen,
		LoreTimeout: 10 * time.Second,
		In:          os.Stdin,
		Out:         os.Stdout,
	}
}

// Run boots the engine and loops: prompt → input → dispatch → output.
func (c *CLI) Run(ctx context.Context) {
	c.printResult(ctx, c.Engine.Boot(ctx))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.printResult(ctx, c.Engine.Step(ctx, input))
		if !c.drain(ctx) {
			return
		}
	}

	// Input ended mid-battle: finish what is scheduled so the save is current.
	c.printResult(ctx, c.Engine.Flush(ctx))
}

// drain plays out scheduled tasks, waiting for each to fall due unless in
// script mode. It returns false if ctx ended while waiting.
func (c *CLI) drain(ctx context.Context) bool {
	if c.Script {
		c.printResult(ctx, c.Engine.Flush(ctx))
		return true
	}
	for c.Engine.Busy() {
		next, ok := c.Engine.Next()
		if !ok {
			break
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case now := <-timer.C:
			c.printResult(ctx, c.Engine.Tick(ctx, now))
		}
	}
	return true
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case "/quit", "/exit":
		if err := c.Engine.Save(ctx); err != nil {
			c.printSystem(fmt.Sprintf("Save failed: %v", err))
		}
		c.printSystem("Goodbye.")
		return true

	case "/save":
		if err := c.Engine.Save(ctx); err != nil {
			c.printSystem(fmt.Sprintf("Save failed: %v", err))
			return false
		}
		c.printSystem("Game saved.")

	case "/load":
		if err := c.Engine.Load(ctx); err != nil {
			c.printSystem(fmt.Sprintf("Load failed: %v", err))
			return false
		}
		c.printSystem("Game loaded.")
		c.printResult(ctx, c.Engine.Step(ctx, "status"))

	case "/reset":
		if err := c.Engine.Reset(ctx); err != nil {
			c.printSystem(fmt.Sprintf("Reset failed: %v", err))
			return false
		}
		c.printSystem("Progress erased. A new adventurer arrives.")

	case "/help":
		c.cmdHelp(ctx)

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

// MetaHelp lists the meta-commands.
var MetaHelp = []string{
	"System:",
	"  /save   Save now (the game also saves after every action)",
	"  /load   Reload the last save",
	"  /reset  Erase all progress",
	"  /state  Dump the player state",
	"  /trace  Toggle event trace output",
	"  /help   Show this help",
	"  /quit   Save and exit",
	"",
}

func (c *CLI) cmdHelp(ctx context.Context) {
	for _, line := range MetaHelp {
		c.printLine(line)
	}
	c.printResult(ctx, c.Engine.Step(ctx, "help"))
}

func (c *CLI) cmdState() {
	data, err := json.MarshalIndent(c.Engine.Player, "", "  ")
	if err != nil {
		c.printSystem(fmt.Sprintf("State dump failed: %v", err))
		return
	}
	c.printLine(string(data))
}

// TraceLines renders the events of a result for /trace.
func TraceLines(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		line := fmt.Sprintf("[trace]   %s %s x%d", e.Type, e.Subject, e.Amount)
		if e.Source != "" {
			line += " (" + e.Source + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

func (c *CLI) printResult(ctx context.Context, result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
	if result.Lore != nil && c.Lore != nil {
		lctx := ctx
		if c.LoreTimeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(ctx, c.LoreTimeout)
			defer cancel()
		}
		c.printLine("  " + lore.Describe(lctx, c.Lore, *result.Lore))
	}
	if c.Trace {
		for _, line := range TraceLines(result) {
			c.printLine(line)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
