// Package tui hosts the timeline controller in a bubbletea program. Mouse
// presses, motion and releases on the canvas become drag gestures; the
// keyboard selects tasks and nudges them by whole days through the same
// ordering gate.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Collaborne/task-scheduler/internal/canvas"
	"github.com/Collaborne/task-scheduler/internal/events"
	"github.com/Collaborne/task-scheduler/internal/logging"
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/scale"
	"github.com/Collaborne/task-scheduler/internal/styles"
	"github.com/Collaborne/task-scheduler/internal/timeline"
	"github.com/Collaborne/task-scheduler/internal/watch"
)

// Rows used around the canvas.
const (
	headerRows = 1
	statusRows = 1
)

const statusSubscription = "tui-status"

// CellMargin keeps room for the x axis labels below the graph and for the
// label and tooltip rows under the topmost marker.
var CellMargin = scale.Margin{Top: 1, Right: 4, Bottom: 3, Left: 3}

// Config configures the terminal UI.
type Config struct {
	Context   context.Context
	Deadlines []models.Deadline

	// Source names the deadline list in the header and in journal events.
	Source string

	Theme         string
	Today         time.Time
	MinBorderDays int
	Mouse         bool

	// Publisher receives change events; a private one is used when nil.
	Publisher events.Publisher

	// Reloads replaces the deadline list whenever the source file changes.
	Reloads <-chan watch.Update
}

// Model is the bubbletea model for the timeline.
type Model struct {
	ctx       context.Context
	source    string
	mouse     bool
	surface   *canvas.Surface
	ctrl      *timeline.Controller
	notifier  *events.Notifier
	publisher events.Publisher
	reloads   <-chan watch.Update
	theme     styles.Theme
	keys      keyMap
	help      help.Model
	logger    zerolog.Logger

	width    int
	height   int
	selected int
	status   string
	changes  int
}

// NewModel builds the controller and canvas for cfg.Deadlines.
func NewModel(cfg Config) (*Model, error) {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = events.NewInMemoryPublisher()
	}

	m := &Model{
		ctx:       ctx,
		source:    cfg.Source,
		mouse:     cfg.Mouse,
		surface:   canvas.New(0, 0),
		publisher: publisher,
		reloads:   cfg.Reloads,
		theme:     styles.Lookup(cfg.Theme),
		keys:      defaultKeyMap(),
		help:      help.New(),
		logger:    logging.Component("tui"),
		selected:  -1,
	}
	m.notifier = events.NewNotifier(ctx, publisher, cfg.Source)

	layout := timeline.CellLayout()
	if cfg.MinBorderDays > 0 {
		layout.MinBorderDays = cfg.MinBorderDays
	}
	opts := []timeline.Option{
		timeline.WithNotifier(m.notifier),
		timeline.WithLayout(layout),
		timeline.WithViewport(scale.Viewport{Margin: CellMargin}),
	}
	if !cfg.Today.IsZero() {
		opts = append(opts, timeline.WithToday(cfg.Today))
	}
	m.ctrl = timeline.NewController(m.surface, opts...)

	if err := m.ctrl.SetDeadlines(cfg.Deadlines); err != nil {
		return nil, fmt.Errorf("load timeline: %w", err)
	}
	if err := publisher.Subscribe(statusSubscription, events.Filter{
		EventTypes: []models.EventType{models.EventTypeDeadlineChanged},
	}, m.onChange); err != nil {
		return nil, fmt.Errorf("subscribe to changes: %w", err)
	}
	m.notifier.NotifyLoaded(len(cfg.Deadlines))
	m.status = fmt.Sprintf("%d deadlines", len(cfg.Deadlines))
	return m, nil
}

// Run starts the program and returns the final deadline list.
func Run(cfg Config) ([]models.Deadline, error) {
	model, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	defer model.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(model.ctx)}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return model.Deadlines(), err
	}
	return model.Deadlines(), nil
}

// Close releases the status subscription.
func (m *Model) Close() {
	_ = m.publisher.Unsubscribe(statusSubscription)
}

// Deadlines returns the committed deadline list.
func (m *Model) Deadlines() []models.Deadline {
	return m.ctrl.Deadlines()
}

// Changes returns how many changes were committed in this session.
func (m *Model) Changes() int {
	return m.changes
}

func (m *Model) Init() tea.Cmd {
	return m.waitForReload()
}

func (m *Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return u
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.BlurMsg:
		m.surface.Cancel()
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case watch.Update:
		m.reload(msg)
		return m, m.waitForReload()
	}
	return m, nil
}

// reload swaps in a list read from disk. An in-flight drag is aborted.
func (m *Model) reload(u watch.Update) {
	if u.Err != nil {
		m.status = fmt.Sprintf("reload failed: %v", u.Err)
		return
	}
	m.surface.Cancel()
	if err := m.ctrl.SetDeadlines(u.Deadlines); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.selectIndex(-1)
	m.notifier.NotifyLoaded(len(u.Deadlines))
	m.status = fmt.Sprintf("reloaded %d deadlines", len(u.Deadlines))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	rows := height - headerRows - statusRows - m.helpRows()
	if rows < 0 {
		rows = 0
	}
	m.surface.Resize(width, rows)
	m.ctrl.SetSize(float64(width), float64(rows))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X, msg.Y-headerRows
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.surface.Press(col, row) {
			if id, ok := m.surface.Dragging(); ok {
				m.selectTask(id)
			}
		}
	case tea.MouseActionMotion:
		m.surface.Motion(col, row)
	case tea.MouseActionRelease:
		if _, dragging := m.surface.Dragging(); !dragging {
			return
		}
		if change, ok := m.surface.Release(col, row); ok {
			m.logger.Debug().Str("task_id", change.TaskID).Str("date", change.DateStr()).Msg("drag released")
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.surface.Cancel()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
	case key.Matches(msg, m.keys.Abort):
		if _, dragging := m.surface.Dragging(); dragging {
			m.surface.Cancel()
			m.status = "drag cancelled"
		} else {
			m.selectIndex(-1)
		}
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Later):
		m.nudge(1)
	case key.Matches(msg, m.keys.Earlier):
		m.nudge(-1)
	case key.Matches(msg, m.keys.LaterWeek):
		m.nudge(7)
	case key.Matches(msg, m.keys.EarlierWeek):
		m.nudge(-7)
	}
	return nil
}

func (m *Model) cycle(step int) {
	n := len(m.ctrl.Tasks())
	if n == 0 {
		return
	}
	next := m.selected + step
	switch {
	case m.selected < 0 && step < 0:
		next = n - 1
	case next >= n:
		next = 0
	case next < 0:
		next = n - 1
	}
	m.selectIndex(next)
}

func (m *Model) selectIndex(i int) {
	tasks := m.ctrl.Tasks()
	if i < 0 || i >= len(tasks) {
		m.selected = -1
		m.surface.Highlight("")
		m.ctrl.HoverEnd()
		return
	}
	m.selected = i
	m.surface.Highlight(tasks[i].TaskID)
	m.ctrl.HoverStart(tasks[i].TaskID)
}

func (m *Model) selectTask(taskID string) {
	for i, t := range m.ctrl.Tasks() {
		if t.TaskID == taskID {
			m.selected = i
			m.surface.Highlight(taskID)
			return
		}
	}
}

func (m *Model) selectedID() (string, bool) {
	tasks := m.ctrl.Tasks()
	if m.selected < 0 || m.selected >= len(tasks) {
		return "", false
	}
	return tasks[m.selected].TaskID, true
}

func (m *Model) nudge(days int) {
	id, ok := m.selectedID()
	if !ok {
		m.status = "select a task with tab first"
		return
	}
	if _, ok := m.ctrl.Nudge(id, days); !ok {
		m.status = fmt.Sprintf("%s cannot move past its neighbours", id)
	}
}

// onChange runs synchronously inside DragEnd, so it is on the update goroutine.
func (m *Model) onChange(event *models.Event) {
	m.changes++
	var payload models.DeadlineChangedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		m.logger.Warn().Err(err).Str("event_id", event.ID).Msg("unreadable change payload")
		m.status = fmt.Sprintf("%s moved", event.EntityID)
		return
	}
	m.status = fmt.Sprintf("%s moved %s → %s", payload.TaskID, payload.FromDate, payload.ToDate)
	m.logger.Info().Str("task_id", payload.TaskID).Str("to", payload.ToDate).Msg("deadline changed")
}
