package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codemorph/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a starter deck",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "codemorph.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := starterDeck().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func starterDeck() *config.Deck {
	d := config.DefaultDeck()
	d.Snippets = []any{
		map[string]any{"code": "const greeting = 'Hello';", "filename": "greeting.ts"},
		map[string]any{"code": "const greeting = 'Hello World!';", "filename": "greeting.ts"},
		map[string]any{"code": "const greeting = 'Hello Universe!';", "filename": "greeting.ts"},
	}
	return d
}
