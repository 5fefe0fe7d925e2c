// Package cli wires the codemorph commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codemorph/internal/highlight"
	"codemorph/internal/logging"
)

type globalFlags struct {
	logFile string
	verbose bool
	noColor bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "codemorph",
		Short: "Animated code snippet transitions in the terminal",
		Long: `codemorph plays a list of code snippets one at a time, morphing each
into the next with syntax highlighting. Snippets come from a deck file
(YAML, JSON or TOML) or straight from source files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.logFile, "log-file", "", "write logs to this file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colors")

	root.AddCommand(
		newPlayCmd(g),
		newDemoCmd(g),
		newThemesCmd(),
		newLanguagesCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	exitOnError(NewRootCmd().Execute())
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session opens the logger and the highlighter cache shared by a TUI run.
func (g *globalFlags) session() (*log.Logger, *highlight.Cache, io.Closer, error) {
	logger, closer, err := logging.New(g.logFile, g.verbose)
	if err != nil {
		return nil, nil, nil, err
	}
	cache := highlight.NewCache(highlight.NewChroma, highlight.WithLogger(logger))
	return logger, cache, closer, nil
}
