package timeline

import (
	"fmt"
	"math"

	"github.com/Collaborne/task-scheduler/internal/models"
)

// Layout holds the fixed offsets used when placing labels and tooltips
// relative to their marker. Units match the viewport.
type Layout struct {
	LabelOffset   Point
	TooltipOffset Point
	YTickSize     float64
	YTickStep     float64
	MinBorderDays int
}

// DefaultLayout returns offsets suited to a 1000x500 pixel viewport.
func DefaultLayout() Layout {
	return Layout{
		LabelOffset:   Point{X: -16, Y: 28},
		TooltipOffset: Point{X: -16, Y: 48},
		YTickSize:     -16,
		YTickStep:     10,
	}
}

// CellLayout returns offsets suited to a terminal where one unit is one cell.
func CellLayout() Layout {
	return Layout{
		LabelOffset:   Point{X: -2, Y: 1},
		TooltipOffset: Point{X: -2, Y: 2},
		YTickSize:     -1,
		YTickStep:     25,
	}
}

// LabelText renders "name (NN%)".
func LabelText(t models.Task) string {
	return fmt.Sprintf("%s (%d%%)", t.Name, int(math.Round(t.Progress*100)))
}

// TooltipText renders the tooltip date for t.
func TooltipText(t models.Task) string {
	return t.Date.UTC().Format(models.TooltipLayout)
}
