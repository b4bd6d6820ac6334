// Command gacharealm runs the idle RPG: shop, gear, pets, gacha, quests,
// hunts, and dungeons in a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "gacharealm",
	Short: "A terminal gacha RPG",
	Long: `GachaRealm is a turn-based idle RPG played in the terminal. Buy and craft gear,
pull pets from gacha shrines, take quests, hunt monsters, and clear dungeons.
Progress is saved after every action.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gacharealm %s (commit %s, built %s)\n", version, commit, date)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "gacharealm.yaml", "config file (.yaml or .toml)")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}
