package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codemorph/internal/config"
	"codemorph/internal/highlight"
	"codemorph/internal/snippet"
	"codemorph/internal/tui"
	"codemorph/internal/tui/codeview"
	"codemorph/internal/tui/state"
)

type playFlags struct {
	lang          string
	theme         string
	duration      int
	stagger       int
	noLineNumbers bool
	autoplay      bool
	interval      int
	noLoop        bool
	start         int
	watch         bool
}

func newPlayCmd(g *globalFlags) *cobra.Command {
	return playCommand(g, &playFlags{})
}

func playCommand(g *globalFlags, f *playFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [DECK|FILES...]",
		Short: "Play a deck or a list of snippet files",
		Long: `Play a deck file (.yaml, .yml, .json, .toml) or a list of snippet files.
File arguments may be doublestar globs such as "steps/**/*.go"; matches of
each pattern play in sorted order. Flags override deck values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := loadDeck(cmd, args, f)
			if err != nil {
				return err
			}
			logger, cache, closer, err := g.session()
			if err != nil {
				return err
			}
			defer closer.Close()

			var updates chan tui.DeckUpdate
			if f.watch {
				if len(args) != 1 || !config.IsDeck(args[0]) {
					return errors.New("--watch needs a single deck file")
				}
				updates = make(chan tui.DeckUpdate, 1)
				stop, err := config.Watch(args[0], func(d *config.Deck, err error) {
					u := tui.DeckUpdate{Err: err}
					if err == nil {
						applyFlags(cmd, d, f)
						u.Items, u.Theme, u.Language = d.Items, d.Theme, d.Language
					}
					select {
					case updates <- u:
					default:
						logger.Debug("dropping deck reload, previous one pending")
					}
				})
				if err != nil {
					return err
				}
				defer stop()
			}

			logger.Info("playing", "snippets", len(deck.Items), "theme", deck.Theme, "language", deck.Language)
			view := codeview.New(deck.Items, cache, viewOptions(deck, g.noColor, logger))
			return tui.Play(view, updates, logger)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.lang, "lang", "", "language (default: deck value, or detected from file names)")
	fl.StringVar(&f.theme, "theme", "", "color theme")
	fl.IntVar(&f.duration, "duration", 800, "transition duration in milliseconds")
	fl.IntVar(&f.stagger, "stagger", 3, "delay between animated segments in milliseconds")
	fl.BoolVar(&f.noLineNumbers, "no-line-numbers", false, "hide line numbers")
	fl.BoolVar(&f.autoplay, "autoplay", false, "advance automatically")
	fl.IntVar(&f.interval, "interval", 3000, "autoplay interval in milliseconds")
	fl.BoolVar(&f.noLoop, "no-loop", false, "stop autoplay at the last snippet")
	fl.IntVar(&f.start, "start", 0, "initial snippet index (0-based)")
	fl.BoolVar(&f.watch, "watch", false, "reload the deck when the file changes")
	return cmd
}

// loadDeck reads a deck file, or builds one from snippet files, and applies
// flag overrides.
func loadDeck(cmd *cobra.Command, args []string, f *playFlags) (*config.Deck, error) {
	var deck *config.Deck
	if len(args) == 1 && config.IsDeck(args[0]) {
		d, err := config.Load(args[0])
		if err != nil {
			return nil, err
		}
		deck = d
	} else {
		paths, err := snippet.Expand(args)
		if err != nil {
			return nil, err
		}
		items, err := snippet.FromFiles(paths)
		if err != nil {
			return nil, err
		}
		deck = config.FromItems(items)
		if len(items) > 0 {
			if lang := highlight.Detect(items[0].Filename); lang != "" {
				deck.Language = lang
			}
		}
	}
	applyFlags(cmd, deck, f)
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deck: %w", err)
	}
	return deck, nil
}

// applyFlags overrides deck values with the flags the user set explicitly.
func applyFlags(cmd *cobra.Command, d *config.Deck, f *playFlags) {
	fl := cmd.Flags()
	if fl.Changed("lang") {
		d.Language = f.lang
	}
	if fl.Changed("theme") {
		d.Theme = f.theme
	}
	if fl.Changed("duration") {
		d.Duration = f.duration
	}
	if fl.Changed("stagger") {
		d.Stagger = f.stagger
	}
	if fl.Changed("no-line-numbers") {
		d.LineNumbers = !f.noLineNumbers
	}
	if fl.Changed("autoplay") {
		d.Autoplay.Enabled = f.autoplay
	}
	if fl.Changed("interval") {
		d.Autoplay.Interval = f.interval
	}
	if fl.Changed("no-loop") {
		d.Autoplay.Loop = !f.noLoop
	}
	if fl.Changed("start") {
		d.InitialIndex = f.start
	}
}

func viewOptions(d *config.Deck, noColor bool, logger *log.Logger) codeview.Options {
	return codeview.Options{
		Language:     d.Language,
		Theme:        d.Theme,
		Duration:     d.TransitionDuration(),
		Stagger:      d.StaggerDelay(),
		LineNumbers:  d.LineNumbers,
		ShowControls: d.ShowControls,
		ShowFilename: d.ShowFilename,
		Autoplay: state.Autoplay{
			Enabled:  d.Autoplay.Enabled,
			Interval: d.AutoplayInterval(),
			Loop:     d.Autoplay.Loop,
		},
		InitialIndex: d.InitialIndex,
		NoColor:      noColor,
		Logger:       logger,
	}
}
