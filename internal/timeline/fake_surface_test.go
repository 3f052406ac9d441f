package timeline

import "github.com/Collaborne/task-scheduler/internal/models"

type tooltipCall struct {
	text string
	x, y float64
}

// recordingSurface keeps the latest state per command so tests can assert
// on what the controller drew.
type recordingSurface struct {
	handler GestureHandler

	frames   []Frame
	axes     map[Orientation]Axis
	batches  []MarkerBatch
	markers  map[string]Marker
	line     []Point
	area     []Point
	baseline float64
	todayX   *float64
	footerY  float64
	footerH  float64
	tooltip  *tooltipCall
	tooltips int
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{
		axes:    make(map[Orientation]Axis),
		markers: make(map[string]Marker),
	}
}

func (s *recordingSurface) SetFrame(frame Frame) { s.frames = append(s.frames, frame) }
func (s *recordingSurface) DrawAxis(axis Axis)   { s.axes[axis.Orientation] = axis }

func (s *recordingSurface) UpsertMarkers(batch MarkerBatch) {
	s.batches = append(s.batches, batch)
	for _, m := range batch.Entering {
		s.markers[m.TaskID] = m
	}
	for _, m := range batch.Updating {
		s.markers[m.TaskID] = m
	}
	for _, id := range batch.Exiting {
		delete(s.markers, id)
	}
}

func (s *recordingSurface) DrawLine(points []Point) { s.line = points }

func (s *recordingSurface) DrawArea(points []Point, baseline float64) {
	s.area = points
	s.baseline = baseline
}

func (s *recordingSurface) PositionTodayMarker(x, _ float64) { s.todayX = &x }

func (s *recordingSurface) PositionFooter(y, height float64) {
	s.footerY = y
	s.footerH = height
}

func (s *recordingSurface) ShowTooltip(text string, x, y float64) {
	s.tooltip = &tooltipCall{text: text, x: x, y: y}
	s.tooltips++
}

func (s *recordingSurface) HideTooltip()                 { s.tooltip = nil }
func (s *recordingSurface) Bind(handler GestureHandler) { s.handler = handler }

func (s *recordingSurface) lastBatch() MarkerBatch {
	if len(s.batches) == 0 {
		return MarkerBatch{}
	}
	return s.batches[len(s.batches)-1]
}

type recordedChange struct {
	change   models.DeadlineChange
	previous models.Deadline
}

type recordingNotifier struct {
	changes []recordedChange
}

func (n *recordingNotifier) NotifyDeadlineChanged(change models.DeadlineChange, previous models.Deadline) {
	n.changes = append(n.changes, recordedChange{change: change, previous: previous})
}
