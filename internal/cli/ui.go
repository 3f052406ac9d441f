package cli

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Collaborne/task-scheduler/internal/deadlines"
	"github.com/Collaborne/task-scheduler/internal/tui"
	"github.com/Collaborne/task-scheduler/internal/watch"
)

// ErrNoTTY is returned when the interactive timeline is started without a terminal.
var ErrNoTTY = errors.New("the timeline UI requires an interactive terminal")

func newUICmd(a *app) *cobra.Command {
	var (
		noMouse  bool
		format   string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:         "ui FILE",
		Short:       "Open the interactive timeline",
		Long:        "Open FILE in a full-screen timeline. Drag markers with the mouse or select them with tab and nudge them with the arrow keys. The final list is printed on exit.",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationLogToFile: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !hasTTY() {
				return ErrNoTTY
			}
			path := args[0]
			list, err := deadlines.Load(path)
			if err != nil {
				return err
			}
			outFormat, err := outputFormat(format, path)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			j, err := a.openJournal(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := j.Close(ctx); err != nil {
					a.logger.Warn().Err(err).Msg("journal close failed")
				}
			}()

			var reloads <-chan watch.Update
			if debounce > 0 {
				watcher := watch.NewWatcher(path, debounce)
				if err := watcher.Start(ctx); err != nil {
					return err
				}
				defer watcher.Stop()
				reloads = watcher.Updates()
			}

			final, err := tui.Run(tui.Config{
				Context:       ctx,
				Deadlines:     list,
				Source:        path,
				Theme:         a.cfg.TUI.Theme,
				Today:         a.todayDate(),
				MinBorderDays: a.cfg.Timeline.MinBorderDays,
				Mouse:         a.cfg.TUI.Mouse && !noMouse,
				Publisher:     j.publisher,
				Reloads:       reloads,
			})
			if err != nil {
				return err
			}
			return deadlines.Encode(cmd.OutOrStdout(), outFormat, final)
		},
	}
	cmd.Flags().BoolVar(&noMouse, "no-mouse", false, "disable mouse gestures")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json|yaml|toml (default from FILE)")
	cmd.Flags().DurationVar(&debounce, "watch", watch.DefaultDebounce, "reload FILE when it changes, once writes settle for this long (0 disables)")
	return cmd
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// outputFormat resolves --format, falling back to the input file's format.
func outputFormat(flag, path string) (deadlines.Format, error) {
	if flag != "" {
		return deadlines.ParseFormat(flag)
	}
	return deadlines.FormatFromPath(path)
}
