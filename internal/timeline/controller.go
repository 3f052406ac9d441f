package timeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Collaborne/task-scheduler/internal/logging"
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/scale"
)

// State is the controller's gesture state.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// drag is the in-flight gesture. scratch is a copy of the dragged task that
// receives optimistic updates; the committed task list is never touched.
type drag struct {
	index   int
	taskID  string
	scratch models.Task
	logger  zerolog.Logger
}

// Controller owns the task list and turns property changes and gestures
// into surface commands. It is not safe for concurrent use; all calls are
// expected on one goroutine, in event order.
type Controller struct {
	surface  Surface
	notifier Notifier
	logger   zerolog.Logger
	layout   Layout

	deadlines []models.Deadline
	viewport  scale.Viewport
	today     string

	tasks    []models.Task
	rendered []models.Task
	scales   scale.Pair
	scalesOK bool

	drag    *drag
	hovered string
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the receiver of committed changes.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithLayout overrides label and tooltip offsets.
func WithLayout(layout Layout) Option {
	return func(c *Controller) { c.layout = layout }
}

// WithViewport sets the initial viewport.
func WithViewport(vp scale.Viewport) Option {
	return func(c *Controller) { c.viewport = vp }
}

// WithToday sets the initial today marker date.
func WithToday(t time.Time) Option {
	return func(c *Controller) { c.today = models.FormatDate(t) }
}

// NewController creates an idle controller bound to surface.
func NewController(surface Surface, opts ...Option) *Controller {
	c := &Controller{
		surface:  surface,
		logger:   logging.Component("timeline"),
		layout:   DefaultLayout(),
		viewport: scale.DefaultViewport(),
	}
	for _, opt := range opts {
		opt(c)
	}
	surface.Bind(c)
	c.render()
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State {
	if c.drag != nil {
		return StateDragging
	}
	return StateIdle
}

// DraggingTaskID returns the id of the task being dragged, if any.
func (c *Controller) DraggingTaskID() (string, bool) {
	if c.drag == nil {
		return "", false
	}
	return c.drag.taskID, true
}

// Deadlines returns a copy of the authoritative deadline list.
func (c *Controller) Deadlines() []models.Deadline {
	return models.CloneDeadlines(c.deadlines)
}

// Tasks returns the tasks as currently drawn, including an in-flight drag.
func (c *Controller) Tasks() []models.Task {
	return c.liveTasks()
}

// Scales returns the current scale pair; ok is false while unavailable.
func (c *Controller) Scales() (scale.Pair, bool) {
	return c.scales, c.scalesOK
}

// Viewport returns the current viewport.
func (c *Controller) Viewport() scale.Viewport {
	return c.viewport
}

// SetDeadlines replaces the deadline list. An in-flight gesture is aborted
// first because its neighbour bounds no longer apply. Malformed deadlines
// are returned as an error and leave the controller unchanged.
func (c *Controller) SetDeadlines(deadlines []models.Deadline) error {
	tasks, err := ComputeTasks(deadlines)
	if err != nil {
		return err
	}
	if c.drag != nil {
		c.drag.logger.Debug().Msg("deadline list replaced during drag, aborting gesture")
		c.drag = nil
	}
	c.deadlines = models.CloneDeadlines(deadlines)
	c.tasks = tasks
	c.recomputeScales()
	c.render()
	return nil
}

// SetViewport replaces width, height and margin at once.
func (c *Controller) SetViewport(vp scale.Viewport) {
	c.viewport = vp
	c.recomputeScales()
	c.render()
}

// SetSize changes width and height.
func (c *Controller) SetSize(width, height float64) {
	vp := c.viewport
	vp.Width, vp.Height = width, height
	c.SetViewport(vp)
}

// SetMargin changes the margins.
func (c *Controller) SetMargin(m scale.Margin) {
	vp := c.viewport
	vp.Margin = m
	c.SetViewport(vp)
}

// SetToday moves the today marker.
func (c *Controller) SetToday(t time.Time) {
	c.today = models.FormatDate(t)
	c.render()
}

// DragStart begins dragging taskID. It is ignored while another drag is
// active or when the id is unknown.
func (c *Controller) DragStart(taskID string) bool {
	if c.drag != nil {
		return false
	}
	i := indexOf(c.tasks, taskID)
	if i < 0 {
		return false
	}
	c.drag = &drag{index: i, taskID: taskID, scratch: c.tasks[i], logger: logging.ForTask(c.logger, taskID)}
	c.drag.logger.Debug().Int("index", i).Msg("drag started")
	return true
}

// DragMove proposes the date under graph-space x for the dragged task.
func (c *Controller) DragMove(x float64) bool {
	if c.drag == nil || !c.scalesOK {
		return false
	}
	return c.DragMoveTo(c.scales.X.Invert(x))
}

// DragMoveTo proposes date for the dragged task. Accepted moves update the
// scratch task and redraw the live parts of the graph; rejected moves change
// nothing.
func (c *Controller) DragMoveTo(date time.Time) bool {
	if c.drag == nil {
		return false
	}
	p := ProposeMove(c.tasks, c.drag.index, date)
	if !p.Accepted {
		c.drag.logger.Debug().
			Str("candidate", models.FormatDate(date)).
			Str("reason", string(p.Reason)).
			Msg("drag rejected")
		return false
	}
	c.drag.scratch.Date = p.Date
	c.drag.scratch.DateStr = p.DateStr
	c.renderLive()
	return true
}

// DragEnd finishes the gesture. The scratch date is folded into a fresh
// deadline list, the graph is reconciled and the change is reported to the
// notifier and returned. A drop on the committed date still reports the
// change; the list is kept as is.
func (c *Controller) DragEnd() (models.DeadlineChange, bool) {
	if c.drag == nil {
		return models.DeadlineChange{}, false
	}
	d := c.drag
	c.drag = nil

	previous := c.deadlines[d.index]
	if d.scratch.DateStr != previous.Date {
		next := models.CloneDeadlines(c.deadlines)
		next[d.index].Date = d.scratch.DateStr
		tasks, err := ComputeTasks(next)
		if err != nil {
			// Only reachable if the committed list was already malformed.
			d.logger.Error().Err(err).Msg("commit failed")
			c.render()
			return models.DeadlineChange{}, false
		}
		c.deadlines = next
		c.tasks = tasks
		c.recomputeScales()
	}
	c.render()
	c.syncTooltip(d.taskID)

	change := models.DeadlineChange{TaskID: d.taskID, Date: c.tasks[d.index].Date}
	d.logger.Info().
		Str("from", previous.Date).
		Str("to", change.DateStr()).
		Msg("drag committed")
	if c.notifier != nil {
		c.notifier.NotifyDeadlineChanged(change, previous)
	}
	return change, true
}

// DragAbort drops the gesture without committing and redraws from the
// committed task list.
func (c *Controller) DragAbort() {
	if c.drag == nil {
		return
	}
	c.drag.logger.Debug().Msg("drag aborted")
	taskID := c.drag.taskID
	c.drag = nil
	c.render()
	c.syncTooltip(taskID)
}

// Nudge moves taskID by whole days through the same gate as a drag.
func (c *Controller) Nudge(taskID string, days int) (models.DeadlineChange, bool) {
	if days == 0 || !c.DragStart(taskID) {
		return models.DeadlineChange{}, false
	}
	target := c.drag.scratch.Date.AddDate(0, 0, days)
	if !c.DragMoveTo(target) {
		c.DragAbort()
		return models.DeadlineChange{}, false
	}
	return c.DragEnd()
}

// HoverStart shows the tooltip for taskID.
func (c *Controller) HoverStart(taskID string) {
	c.hovered = taskID
	c.syncTooltip(taskID)
}

// HoverEnd hides the tooltip unless a drag keeps it alive.
func (c *Controller) HoverEnd() {
	c.hovered = ""
	if c.drag == nil {
		c.surface.HideTooltip()
	}
}

func (c *Controller) recomputeScales() {
	c.scales, c.scalesOK = scale.NewPair(c.tasks, c.viewport, c.layout.MinBorderDays)
}

func (c *Controller) liveTasks() []models.Task {
	tasks := cloneTasks(c.tasks)
	if c.drag != nil {
		tasks[c.drag.index] = c.drag.scratch
	}
	return tasks
}

// render redraws everything and reconciles markers against the previous
// render. It is a silent no-op for the graph while scales are unavailable.
func (c *Controller) render() {
	c.surface.SetFrame(Frame{Viewport: c.viewport})
	if c.viewport.Height > 0 {
		c.surface.PositionFooter(c.viewport.GraphHeight()+c.viewport.Margin.Top, c.viewport.Margin.Bottom)
	}

	if !c.scalesOK {
		if len(c.tasks) == 0 && len(c.rendered) > 0 {
			c.surface.UpsertMarkers(c.markerBatch(Diff(c.rendered, nil)))
			c.surface.DrawLine(nil)
			c.surface.DrawArea(nil, 0)
			c.surface.HideTooltip()
			c.rendered = nil
		}
		return
	}

	graphHeight := c.viewport.GraphHeight()
	c.surface.DrawAxis(Axis{
		Orientation: OrientBottom,
		Ticks:       c.scales.X.MonthTicks(),
		Length:      c.viewport.GraphWidth(),
		Offset:      graphHeight,
	})
	c.surface.DrawAxis(Axis{
		Orientation: OrientLeft,
		Ticks:       c.scales.Y.Ticks(c.layout.YTickStep),
		Length:      graphHeight,
		TickSize:    c.layout.YTickSize,
	})
	if c.today != "" {
		if today, err := models.ParseDate(c.today); err == nil {
			c.surface.PositionTodayMarker(c.scales.X.Map(today), graphHeight)
		}
	}

	tasks := c.liveTasks()
	c.surface.UpsertMarkers(c.markerBatch(Diff(c.rendered, tasks)))
	c.drawPaths(tasks)
	c.rendered = tasks
}

// renderLive is the drag fast path: it patches marker positions, the line,
// the area and the tooltip without reconciling.
func (c *Controller) renderLive() {
	if !c.scalesOK {
		return
	}
	tasks := c.liveTasks()
	c.surface.UpsertMarkers(MarkerBatch{Updating: c.markers(tasks)})
	c.drawPaths(tasks)
	if c.drag != nil {
		c.showTooltip(c.drag.scratch)
	}
}

func (c *Controller) drawPaths(tasks []models.Task) {
	points := make([]Point, 0, len(tasks))
	for _, t := range tasks {
		points = append(points, c.point(t))
	}
	c.surface.DrawLine(points)
	c.surface.DrawArea(points, c.viewport.GraphHeight())
}

func (c *Controller) syncTooltip(taskID string) {
	if c.hovered == "" || c.hovered != taskID || !c.scalesOK {
		c.surface.HideTooltip()
		return
	}
	tasks := c.liveTasks()
	if i := indexOf(tasks, taskID); i >= 0 {
		c.showTooltip(tasks[i])
		return
	}
	c.surface.HideTooltip()
}

func (c *Controller) showTooltip(t models.Task) {
	p := c.point(t)
	c.surface.ShowTooltip(TooltipText(t), p.X+c.layout.TooltipOffset.X, p.Y+c.layout.TooltipOffset.Y)
}

func (c *Controller) point(t models.Task) Point {
	return Point{X: c.scales.X.Map(t.Date), Y: c.scales.Y.Map(t.Percentage)}
}

func (c *Controller) markerBatch(r Reconciliation) MarkerBatch {
	return MarkerBatch{
		Entering: c.markers(r.Entering),
		Updating: c.markers(r.Updating),
		Exiting:  r.Exiting,
	}
}

func (c *Controller) markers(tasks []models.Task) []Marker {
	if len(tasks) == 0 || !c.scalesOK {
		return nil
	}
	out := make([]Marker, 0, len(tasks))
	for _, t := range tasks {
		p := c.point(t)
		out = append(out, Marker{
			TaskID:    t.TaskID,
			X:         p.X,
			Y:         p.Y,
			Draggable: c.today == "" || t.DateStr >= c.today,
			Label:     LabelText(t),
			LabelX:    p.X + c.layout.LabelOffset.X,
			LabelY:    p.Y + c.layout.LabelOffset.Y,
		})
	}
	return out
}
