package timeline

import "github.com/Collaborne/task-scheduler/internal/models"

// Reconciliation partitions two task snapshots by task id.
type Reconciliation struct {
	Entering []models.Task
	Updating []models.Task
	Exiting  []string
}

// Empty reports whether nothing is present in either snapshot.
func (r Reconciliation) Empty() bool {
	return len(r.Entering) == 0 && len(r.Updating) == 0 && len(r.Exiting) == 0
}

// Diff classifies every id of previous and current as entering (only in
// current), updating (in both) or exiting (only in previous). Entering and
// updating follow current's order, exiting follows previous's order.
func Diff(previous, current []models.Task) Reconciliation {
	before := make(map[string]struct{}, len(previous))
	for _, t := range previous {
		before[t.TaskID] = struct{}{}
	}
	after := make(map[string]struct{}, len(current))
	for _, t := range current {
		after[t.TaskID] = struct{}{}
	}

	var r Reconciliation
	placed := make(map[string]struct{}, len(current))
	for _, t := range current {
		if _, seen := placed[t.TaskID]; seen {
			continue
		}
		placed[t.TaskID] = struct{}{}
		if _, ok := before[t.TaskID]; ok {
			r.Updating = append(r.Updating, t)
		} else {
			r.Entering = append(r.Entering, t)
		}
	}

	exited := make(map[string]struct{})
	for _, t := range previous {
		if _, ok := after[t.TaskID]; ok {
			continue
		}
		if _, seen := exited[t.TaskID]; seen {
			continue
		}
		exited[t.TaskID] = struct{}{}
		r.Exiting = append(r.Exiting, t.TaskID)
	}
	return r
}
