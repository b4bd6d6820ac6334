package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nathoo/gacharealm/cli"
	"github.com/nathoo/gacharealm/tui"
)

var (
	playPlain   bool
	playTrace   bool
	playScript  string
	playContent string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start or resume the game",
	Long: `Start the game, resuming the saved player if there is one.

The full-screen interface is used when stdout is a terminal. --plain forces
the line-oriented interface, and --script plays commands from a file with
battle turns resolved immediately.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playPlain, "plain", false, "use the plain line interface")
	playCmd.Flags().BoolVar(&playTrace, "trace", false, "print engine events after each command")
	playCmd.Flags().StringVar(&playScript, "script", "", "play commands from a file")
	playCmd.Flags().StringVar(&playContent, "content", "", "directory of Lua content (default: built-in)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	useTUI := playScript == "" && !playPlain && isTerminal()
	s, err := openSession(ctx, playContent, useTUI)
	if err != nil {
		return err
	}
	defer s.close()

	if useTUI {
		return tui.Run(ctx, s.engine, s.lore, s.cfg.Lore.Timeout())
	}

	c := cli.New(s.engine, s.lore)
	c.LoreTimeout = s.cfg.Lore.Timeout()
	c.Out = cmd.OutOrStdout()
	c.Trace = playTrace
	if playScript != "" {
		f, err := os.Open(playScript)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
		c.Script = true
	}
	c.Run(ctx)

	// Ctrl+C in the plain interface still leaves a current save.
	if err := s.engine.Save(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("saving: %w", err)
	}
	return nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
