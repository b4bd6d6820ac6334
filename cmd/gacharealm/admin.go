package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/gacharealm/errors"
	"github.com/nathoo/gacharealm/logger"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the saved player",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetYes {
			return errors.FailedPrecondition("refusing to erase progress without --yes")
		}
		cfg, err := setup(false)
		if err != nil {
			return err
		}
		defer logger.Close()

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		err = store.Delete(cmd.Context(), cfg.Save.Key)
		switch {
		case errors.IsNotFound(err):
			fmt.Fprintln(cmd.OutOrStdout(), "No save to erase.")
		case err != nil:
			return err
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Erased save %q.\n", cfg.Save.Key)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [content-dir]",
	Short: "Validate a content directory",
	Long:  "Compile and validate the Lua content, printing warnings. With no directory the built-in content is checked.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		cat, warnings, err := loadCatalog(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range warnings {
			fmt.Fprintln(out, "warning:", w)
		}
		fmt.Fprintf(out, "%s: %s\n", cat.Game.Title, strings.Join([]string{
			fmt.Sprintf("%d items", len(cat.Items)),
			fmt.Sprintf("%d pets", len(cat.Pets)),
			fmt.Sprintf("%d monsters", len(cat.Monsters)),
			fmt.Sprintf("%d dungeons", len(cat.Dungeons)),
			fmt.Sprintf("%d quests", len(cat.Quests)),
			fmt.Sprintf("%d recipes", len(cat.Recipes)),
			fmt.Sprintf("%d gachas", len(cat.Gachas)),
		}, ", "))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm erasing progress")
}
