// Package canvas is a terminal rendering surface for the timeline. It keeps
// the last command of each kind and paints them onto a rune grid on demand.
package canvas

import (
	"math"

	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/timeline"
)

// Kind classifies a painted cell so it can be styled.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindFooter
	KindArea
	KindAxis
	KindTodayLine
	KindLine
	KindToday
	KindLabel
	KindDot
	KindPastDot
	KindActiveDot
	KindTooltip
)

type cell struct {
	r      rune
	k      Kind
	footer bool
}

type todayPos struct {
	x           float64
	graphHeight float64
}

type band struct {
	y      float64
	height float64
}

type tooltip struct {
	text string
	x    float64
	y    float64
}

// Surface implements timeline.Surface on a cols x rows cell grid. Viewport
// units are scaled to cells, so a 1000x500 frame fits any terminal size.
type Surface struct {
	cols int
	rows int

	frame    timeline.Frame
	axes     map[timeline.Orientation]timeline.Axis
	markers  map[string]timeline.Marker
	order    []string
	line     []timeline.Point
	area     []timeline.Point
	baseline float64
	today    *todayPos
	footer   *band
	tooltip  *tooltip

	handler  timeline.GestureHandler
	active   string
	hover    string
	selected string

	// dragCol is the last column forwarded to the handler during a drag,
	// starting at the press column.
	dragCol int
}

var _ timeline.Surface = (*Surface)(nil)

// New creates an empty surface of the given size in cells.
func New(cols, rows int) *Surface {
	s := &Surface{
		axes:    make(map[timeline.Orientation]timeline.Axis),
		markers: make(map[string]timeline.Marker),
	}
	s.Resize(cols, rows)
	return s
}

// Resize changes the grid size. Stored commands are kept and rescaled on
// the next paint.
func (s *Surface) Resize(cols, rows int) {
	s.cols = maxInt(0, cols)
	s.rows = maxInt(0, rows)
}

// Size returns the grid size in cells.
func (s *Surface) Size() (cols, rows int) {
	return s.cols, s.rows
}

// SetFrame records the viewport.
func (s *Surface) SetFrame(frame timeline.Frame) {
	s.frame = frame
}

// DrawAxis records an axis, replacing the previous one on the same edge.
func (s *Surface) DrawAxis(axis timeline.Axis) {
	s.axes[axis.Orientation] = axis
}

// UpsertMarkers applies one reconciliation pass keyed by task id.
func (s *Surface) UpsertMarkers(batch timeline.MarkerBatch) {
	for _, m := range batch.Entering {
		s.putMarker(m)
	}
	for _, m := range batch.Updating {
		s.putMarker(m)
	}
	for _, id := range batch.Exiting {
		s.removeMarker(id)
	}
}

func (s *Surface) putMarker(m timeline.Marker) {
	if _, ok := s.markers[m.TaskID]; !ok {
		s.order = append(s.order, m.TaskID)
	}
	s.markers[m.TaskID] = m
}

func (s *Surface) removeMarker(id string) {
	if _, ok := s.markers[id]; !ok {
		return
	}
	delete(s.markers, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.hover == id {
		s.hover = ""
	}
	if s.active == id {
		s.active = ""
	}
}

// Marker returns the stored marker for id.
func (s *Surface) Marker(id string) (timeline.Marker, bool) {
	m, ok := s.markers[id]
	return m, ok
}

// MarkerIDs returns marker ids in insertion order.
func (s *Surface) MarkerIDs() []string {
	return append([]string(nil), s.order...)
}

// DrawLine records the value line.
func (s *Surface) DrawLine(points []timeline.Point) {
	s.line = append([]timeline.Point(nil), points...)
}

// DrawArea records the shaded area and its baseline.
func (s *Surface) DrawArea(points []timeline.Point, baseline float64) {
	s.area = append([]timeline.Point(nil), points...)
	s.baseline = baseline
}

// PositionTodayMarker records the today line and pin.
func (s *Surface) PositionTodayMarker(x, graphHeight float64) {
	s.today = &todayPos{x: x, graphHeight: graphHeight}
}

// PositionFooter records the footer band in viewport coordinates.
func (s *Surface) PositionFooter(y, height float64) {
	s.footer = &band{y: y, height: height}
}

// ShowTooltip records the tooltip.
func (s *Surface) ShowTooltip(text string, x, y float64) {
	s.tooltip = &tooltip{text: text, x: x, y: y}
}

// HideTooltip clears the tooltip.
func (s *Surface) HideTooltip() {
	s.tooltip = nil
}

// Tooltip returns the visible tooltip text.
func (s *Surface) Tooltip() (string, bool) {
	if s.tooltip == nil {
		return "", false
	}
	return s.tooltip.text, true
}

// Bind registers the receiver of pointer gestures.
func (s *Surface) Bind(handler timeline.GestureHandler) {
	s.handler = handler
}

// Press starts a drag when (col,row) hits a marker.
func (s *Surface) Press(col, row int) bool {
	if s.handler == nil || s.active != "" {
		return false
	}
	id, ok := s.MarkerAt(col, row)
	if !ok || !s.handler.DragStart(id) {
		return false
	}
	s.active = id
	s.dragCol = col
	return true
}

// Motion forwards drag moves, or hover changes when no drag is active.
func (s *Surface) Motion(col, row int) {
	if s.handler == nil {
		return
	}
	if s.active != "" {
		s.dragTo(col)
		return
	}
	id, ok := s.MarkerAt(col, row)
	switch {
	case ok && id != s.hover:
		s.hover = id
		s.handler.HoverStart(id)
	case !ok && s.hover != "":
		s.hover = ""
		s.handler.HoverEnd()
	}
}

// Release ends an active drag at (col,row). A release in the column the
// drag last reached commits the scratch date as is, so a click on a marker
// never re-dates it.
func (s *Surface) Release(col, _ int) (models.DeadlineChange, bool) {
	if s.handler == nil || s.active == "" {
		return models.DeadlineChange{}, false
	}
	s.dragTo(col)
	s.active = ""
	return s.handler.DragEnd()
}

// dragTo forwards col to the handler once the pointer has left the column
// it was last seen in.
func (s *Surface) dragTo(col int) {
	if col == s.dragCol {
		return
	}
	s.dragCol = col
	s.handler.DragMove(s.GraphX(col))
}

// Cancel aborts an active drag, for example when the pointer leaves the
// window or the terminal loses focus.
func (s *Surface) Cancel() {
	if s.handler == nil || s.active == "" {
		return
	}
	s.active = ""
	s.handler.DragAbort()
}

// Dragging returns the id of the marker being dragged through this surface.
func (s *Surface) Dragging() (string, bool) {
	return s.active, s.active != ""
}

// MarkerAt hit-tests (col,row) against markers, allowing one column of
// slack. The most recently drawn marker wins.
func (s *Surface) MarkerAt(col, row int) (string, bool) {
	best := ""
	bestDist := 2
	for i := len(s.order) - 1; i >= 0; i-- {
		m := s.markers[s.order[i]]
		mc, mr := s.CellOf(m.X, m.Y)
		if mr != row {
			continue
		}
		if d := absInt(mc - col); d < bestDist {
			best = m.TaskID
			bestDist = d
		}
	}
	return best, best != ""
}

// CellOf converts graph-space coordinates to a grid cell.
func (s *Surface) CellOf(x, y float64) (col, row int) {
	vp := s.frame.Viewport
	return s.viewCell(x+vp.Margin.Left, y+vp.Margin.Top)
}

// GraphX converts a grid column to a graph-space x at the column centre.
func (s *Surface) GraphX(col int) float64 {
	return (float64(col)+0.5)/s.scaleX() - s.frame.Viewport.Margin.Left
}

func (s *Surface) viewCell(vx, vy float64) (int, int) {
	return int(math.Floor(vx * s.scaleX())), int(math.Floor(vy * s.scaleY()))
}

func (s *Surface) scaleX() float64 {
	if s.frame.Viewport.Width <= 0 || s.cols == 0 {
		return 1
	}
	return float64(s.cols) / s.frame.Viewport.Width
}

func (s *Surface) scaleY() float64 {
	if s.frame.Viewport.Height <= 0 || s.rows == 0 {
		return 1
	}
	return float64(s.rows) / s.frame.Viewport.Height
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
