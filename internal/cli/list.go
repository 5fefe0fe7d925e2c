package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"codemorph/internal/highlight"
)

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printList(cmd, highlight.AvailableThemes(), highlight.DefaultTheme)
		},
	}
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List available languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printList(cmd, highlight.AvailableLanguages(), highlight.DefaultLanguage)
		},
	}
}

func printList(cmd *cobra.Command, names []string, def string) error {
	var b strings.Builder
	for _, n := range names {
		mark := "  "
		if strings.EqualFold(n, def) {
			mark = "* "
		}
		b.WriteString(mark + n + "\n")
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
