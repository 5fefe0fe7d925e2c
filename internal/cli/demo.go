package cli

import (
	"github.com/spf13/cobra"

	"codemorph/internal/demo"
)

func newDemoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Show the built-in showcase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cache, closer, err := g.session()
			if err != nil {
				return err
			}
			defer closer.Close()
			return demo.Run(cache, logger, g.noColor)
		},
	}
}
