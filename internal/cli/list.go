package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Collaborne/task-scheduler/internal/deadlines"
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/timeline"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.FgHiBlack).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list FILE",
		Aliases: []string{"ls"},
		Short:   "List deadlines with their progress",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := deadlines.Load(args[0])
			if err != nil {
				return err
			}
			tasks, err := timeline.ComputeTasks(list)
			if err != nil {
				return err
			}
			today := models.FormatDate(a.todayDate())

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.AddRow(bold("TASK"), bold("DATE"), bold("NAME"), bold("PROGRESS"), bold("STATUS"))
			for _, t := range tasks {
				status := "upcoming"
				switch {
				case t.Progress >= 1:
					status = green("done")
				case t.DateStr < today:
					status = faint("past")
				case t.DateStr == today:
					status = "today"
				}
				tbl.AddRow(t.TaskID, t.DateStr, t.Name, fmt.Sprintf("%.0f%%", t.Percentage), status)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return err
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check deadline files against the schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				list, err := deadlines.Load(path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				a.logger.Debug().Str("path", path).Int("deadlines", len(list)).Msg("file valid")
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d deadlines)\n", path, len(list))
			}
			if failed > 0 {
				return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("%d of %d files invalid", failed, len(args))}
			}
			return nil
		},
	}
}
