package timeline

import (
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/scale"
)

// Point is a graph-space coordinate. The graph origin is the top-left
// corner inside the margins.
type Point struct {
	X float64
	Y float64
}

// Orientation says which edge of the graph an axis is drawn on.
type Orientation string

const (
	OrientBottom Orientation = "bottom"
	OrientLeft   Orientation = "left"
)

// Axis is a fully computed axis: tick positions along the axis, the axis
// length and its offset from the graph origin.
type Axis struct {
	Orientation Orientation
	Ticks       []scale.Tick
	Length      float64
	Offset      float64
	// TickSize is the inner tick length; negative values point into the graph.
	TickSize float64
}

// Marker is the visual state of one task.
type Marker struct {
	TaskID    string
	X         float64
	Y         float64
	Draggable bool
	Label     string
	LabelX    float64
	LabelY    float64
}

// MarkerBatch carries one keyed reconciliation pass to the surface.
type MarkerBatch struct {
	Entering []Marker
	Updating []Marker
	Exiting  []string
}

// Frame is the viewport bookkeeping a surface needs to place the graph.
type Frame struct {
	Viewport scale.Viewport
}

// GestureHandler receives pointer gestures and hovers from a surface.
// x coordinates are in graph space.
type GestureHandler interface {
	DragStart(taskID string) bool
	DragMove(x float64) bool
	DragEnd() (models.DeadlineChange, bool)
	DragAbort()
	HoverStart(taskID string)
	HoverEnd()
}

// Surface is everything the controller draws through. Implementations must
// tolerate repeated identical updates.
type Surface interface {
	SetFrame(frame Frame)
	DrawAxis(axis Axis)
	UpsertMarkers(batch MarkerBatch)
	DrawLine(points []Point)
	DrawArea(points []Point, baseline float64)
	PositionTodayMarker(x, graphHeight float64)
	PositionFooter(y, height float64)
	ShowTooltip(text string, x, y float64)
	HideTooltip()
	Bind(handler GestureHandler)
}

// Notifier receives committed deadline changes. previous is the deadline as
// it was before the commit.
type Notifier interface {
	NotifyDeadlineChanged(change models.DeadlineChange, previous models.Deadline)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(change models.DeadlineChange, previous models.Deadline)

// NotifyDeadlineChanged calls f.
func (f NotifierFunc) NotifyDeadlineChanged(change models.DeadlineChange, previous models.Deadline) {
	f(change, previous)
}
