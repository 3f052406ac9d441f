package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Collaborne/task-scheduler/internal/canvas"
	"github.com/Collaborne/task-scheduler/internal/deadlines"
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/scale"
	"github.com/Collaborne/task-scheduler/internal/styles"
	"github.com/Collaborne/task-scheduler/internal/timeline"
	"github.com/Collaborne/task-scheduler/internal/tui"
)

const (
	defaultShowCols = 100
	defaultShowRows = 24
)

func newShowCmd(a *app) *cobra.Command {
	var (
		cols  int
		rows  int
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the timeline once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := deadlines.Load(args[0])
			if err != nil {
				return err
			}
			if cols <= 0 {
				cols = terminalWidth(defaultShowCols)
			}
			if rows <= 0 {
				return fmt.Errorf("--rows must be positive, got %d", rows)
			}

			surface, err := a.renderStatic(list, cols, rows)
			if err != nil {
				return err
			}
			out := surface.String()
			if !plain {
				out = surface.Render(styles.Lookup(a.cfg.TUI.Theme))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 0, "canvas width in columns (default terminal width)")
	cmd.Flags().IntVar(&rows, "rows", defaultShowRows, "canvas height in rows")
	cmd.Flags().BoolVar(&plain, "plain", false, "print without colours")
	return cmd
}

// renderStatic draws list onto a cols x rows canvas.
func (a *app) renderStatic(list []models.Deadline, cols, rows int) (*canvas.Surface, error) {
	layout := timeline.CellLayout()
	layout.MinBorderDays = a.cfg.Timeline.MinBorderDays

	surface := canvas.New(cols, rows)
	ctrl := timeline.NewController(surface,
		timeline.WithLayout(layout),
		timeline.WithViewport(scale.Viewport{Width: float64(cols), Height: float64(rows), Margin: tui.CellMargin}),
		timeline.WithToday(a.todayDate()),
	)
	if err := ctrl.SetDeadlines(list); err != nil {
		return nil, err
	}
	return surface, nil
}

func terminalWidth(fallback int) int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fallback
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
