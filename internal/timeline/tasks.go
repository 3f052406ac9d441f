// Package timeline implements the ordered-timeline engine: task derivation,
// the neighbour-bounded drag gate, keyed reconciliation and the controller
// that drives a rendering surface.
package timeline

import (
	"fmt"

	"github.com/Collaborne/task-scheduler/internal/models"
)

// ComputeTasks derives one Task per Deadline, preserving input order.
// It fails fast on the first unparseable date or out-of-range progress.
func ComputeTasks(deadlines []models.Deadline) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(deadlines))
	for i, d := range deadlines {
		date, err := models.ParseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("deadline %d (%s): %w", i, d.TaskID, err)
		}
		if d.Progress < 0 || d.Progress > 1 {
			return nil, fmt.Errorf("deadline %d (%s): %w: %v", i, d.TaskID, models.ErrInvalidProgress, d.Progress)
		}
		tasks = append(tasks, models.Task{
			TaskID:     d.TaskID,
			Date:       date,
			DateStr:    d.Date,
			Name:       d.Name,
			Progress:   d.Progress,
			Percentage: 100 * d.Progress,
		})
	}
	return tasks, nil
}

func indexOf(tasks []models.Task, taskID string) int {
	for i := range tasks {
		if tasks[i].TaskID == taskID {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []models.Task) []models.Task {
	if tasks == nil {
		return nil
	}
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}
