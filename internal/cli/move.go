package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Collaborne/task-scheduler/internal/canvas"
	"github.com/Collaborne/task-scheduler/internal/deadlines"
	"github.com/Collaborne/task-scheduler/internal/events"
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/timeline"
)

// Move errors.
var (
	ErrUnknownTask = errors.New("unknown task")
	ErrOutOfOrder  = errors.New("date would break deadline order")
)

func newMoveCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "move FILE TASK DATE",
		Short: "Move one deadline and print the updated list",
		Long: "Move TASK in FILE to DATE (YYYY-MM-DD). The date must not fall before the " +
			"previous deadline or after the next one. The updated list is printed and the " +
			"change is recorded in the journal; FILE itself is not modified.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, taskID := args[0], args[1]
			date, err := models.ParseDate(args[2])
			if err != nil {
				return err
			}
			outFormat, err := outputFormat(format, path)
			if err != nil {
				return err
			}
			list, err := deadlines.Load(path)
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

			notifier := events.NewNotifier(ctx, j.publisher, path)
			ctrl := timeline.NewController(canvas.New(0, 0),
				timeline.WithNotifier(notifier),
				timeline.WithViewport(a.cfg.Viewport()),
				timeline.WithToday(a.todayDate()),
			)
			if err := ctrl.SetDeadlines(list); err != nil {
				return err
			}
			notifier.NotifyLoaded(len(list))

			changed, err := moveTask(ctrl, taskID, date)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is already on %s\n", taskID, models.FormatDate(date))
			}
			return deadlines.Encode(cmd.OutOrStdout(), outFormat, ctrl.Deadlines())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json|yaml|toml (default from FILE)")
	return cmd
}

// moveTask runs a scripted drag of taskID to date. It reports whether the
// committed date changed.
func moveTask(ctrl *timeline.Controller, taskID string, date time.Time) (bool, error) {
	tasks := ctrl.Tasks()
	index := -1
	for i, t := range tasks {
		if t.TaskID == taskID {
			index = i
			break
		}
	}
	if index < 0 || !ctrl.DragStart(taskID) {
		return false, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}
	if !ctrl.DragMoveTo(date) {
		ctrl.DragAbort()
		p := timeline.ProposeMove(tasks, index, date)
		switch p.Reason {
		case timeline.RejectBeforePredecessor:
			return false, fmt.Errorf("%w: %s is before %s (%s)", ErrOutOfOrder, models.FormatDate(date), tasks[index-1].TaskID, tasks[index-1].DateStr)
		case timeline.RejectAfterSuccessor:
			return false, fmt.Errorf("%w: %s is after %s (%s)", ErrOutOfOrder, models.FormatDate(date), tasks[index+1].TaskID, tasks[index+1].DateStr)
		default:
			return false, fmt.Errorf("%w: %s", ErrOutOfOrder, models.FormatDate(date))
		}
	}
	change, ok := ctrl.DragEnd()
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}
	return change.DateStr() != tasks[index].DateStr, nil
}
