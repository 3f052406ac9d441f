package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/Collaborne/task-scheduler/internal/db"
	"github.com/Collaborne/task-scheduler/internal/models"
)

const defaultHistoryLimit = 20

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit  int
		taskID string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded deadline changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := a.openDatabase(ctx)
			if err != nil {
				return err
			}
			defer database.Close()
			repo := db.NewEventRepository(database)

			var list []*models.Event
			if taskID != "" {
				list, err = repo.ListByEntity(ctx, models.EntityTypeTask, taskID, limit)
			} else {
				list, err = repo.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no recorded changes")
				return err
			}

			tbl := uitable.New()
			tbl.Separator = "  "
			tbl.MaxColWidth = 60
			tbl.AddRow(bold("TIME"), bold("EVENT"), bold("ENTITY"), bold("DETAIL"))
			for _, e := range list {
				tbl.AddRow(e.Timestamp.Local().Format(time.DateTime), string(e.Type), e.EntityID, eventDetail(e))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "maximum number of events")
	cmd.Flags().StringVar(&taskID, "task", "", "only show changes to this task")
	return cmd
}

func eventDetail(e *models.Event) string {
	switch e.Type {
	case models.EventTypeDeadlineChanged:
		var p models.DeadlineChangedPayload
		if err := json.Unmarshal(e.Payload, &p); err == nil {
			return fmt.Sprintf("%s → %s", p.FromDate, p.ToDate)
		}
	case models.EventTypeDeadlinesLoaded:
		var p models.DeadlinesLoadedPayload
		if err := json.Unmarshal(e.Payload, &p); err == nil {
			return fmt.Sprintf("%d deadlines", p.Count)
		}
	}
	return faint(string(e.Payload))
}
