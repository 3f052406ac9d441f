package scale

import "github.com/Collaborne/task-scheduler/internal/models"

// Pair is the x/y scale pair for one task list and viewport.
type Pair struct {
	X DateScale
	Y ValueScale
}

// NewPair derives the scales from the first and last task dates and the
// viewport. ok is false while there are no tasks or no drawable area.
func NewPair(tasks []models.Task, vp Viewport, minBorderDays int) (Pair, bool) {
	if len(tasks) == 0 || !vp.Known() {
		return Pair{}, false
	}
	first := tasks[0].Date
	last := tasks[len(tasks)-1].Date
	return Pair{
		X: PaddedDateScale(first, last, vp.GraphWidth(), minBorderDays),
		Y: NewValueScale(vp.GraphHeight()),
	}, true
}
