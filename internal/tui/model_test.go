package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Collaborne/task-scheduler/internal/events"
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/testutil"
	"github.com/Collaborne/task-scheduler/internal/timeline"
	"github.com/Collaborne/task-scheduler/internal/watch"
)

func newTestModel(t *testing.T, cfg Config) *Model {
	t.Helper()
	testutil.QuietLogs(t)
	if cfg.Deadlines == nil {
		cfg.Deadlines = testutil.SampleDeadlines()
	}
	m, err := NewModel(cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// markerScreen returns the terminal position of a marker, accounting for
// the header row above the canvas.
func markerScreen(t *testing.T, m *Model, id string) (int, int) {
	t.Helper()
	marker, ok := m.surface.Marker(id)
	require.True(t, ok, "marker %s", id)
	col, row := m.surface.CellOf(marker.X, marker.Y)
	return col, row + headerRows
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestNewModelRejectsMalformedDeadlines(t *testing.T) {
	_, err := NewModel(Config{Deadlines: []models.Deadline{{TaskID: "a", Date: "2024-13-01"}}})
	require.Error(t, err)
	require.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestResizeSizesCanvasBetweenChrome(t *testing.T) {
	m := newTestModel(t, Config{})

	cols, rows := m.surface.Size()
	require.Equal(t, 100, cols)
	require.Equal(t, 27, rows)
	require.Equal(t, 100.0, m.ctrl.Viewport().Width)
	_, ok := m.ctrl.Scales()
	require.True(t, ok)

	m.Update(keyPress("?"))
	_, rows = m.surface.Size()
	require.Less(t, rows, 27, "full help takes rows from the canvas")
}

func TestViewShowsHeaderCanvasAndHelp(t *testing.T) {
	m := newTestModel(t, Config{Source: "plan.yaml"})

	view := m.View()
	require.Contains(t, view, "plan.yaml")
	require.Contains(t, view, "Build (50%)")
	require.Contains(t, view, "3 deadlines")
	require.Contains(t, view, "quit")
}

func TestViewBeforeFirstResize(t *testing.T) {
	m, err := NewModel(Config{Deadlines: testutil.SampleDeadlines()})
	require.NoError(t, err)
	defer m.Close()
	require.Equal(t, "loading...", m.View())
}

func TestTabCyclesSelection(t *testing.T) {
	m := newTestModel(t, Config{})

	m.Update(keyPress("tab"))
	id, ok := m.selectedID()
	require.True(t, ok)
	require.Equal(t, "design", id)

	m.Update(keyPress("tab"))
	m.Update(keyPress("tab"))
	m.Update(keyPress("tab"))
	id, _ = m.selectedID()
	require.Equal(t, "design", id, "selection wraps")

	m.Update(keyPress("shift+tab"))
	id, _ = m.selectedID()
	require.Equal(t, "ship", id)

	text, visible := m.surface.Tooltip()
	require.True(t, visible)
	require.Equal(t, "01 March 2024", text)

	m.Update(keyPress("esc"))
	_, ok = m.selectedID()
	require.False(t, ok)
	_, visible = m.surface.Tooltip()
	require.False(t, visible)
}

func TestNudgeMovesSelectedTask(t *testing.T) {
	publisher := events.NewInMemoryPublisher()
	var changed []*models.Event
	require.NoError(t, publisher.Subscribe("test", events.Filter{}, func(e *models.Event) {
		changed = append(changed, e)
	}))
	m := newTestModel(t, Config{Publisher: publisher, Source: "plan.yaml"})

	m.Update(keyPress("right"))
	require.Contains(t, m.status, "select a task")

	m.Update(keyPress("tab"))
	m.Update(keyPress("right"))
	require.Equal(t, "2024-01-02", m.Deadlines()[0].Date)
	m.Update(keyPress("L"))
	require.Equal(t, "2024-01-09", m.Deadlines()[0].Date)
	m.Update(keyPress("h"))
	require.Equal(t, "2024-01-08", m.Deadlines()[0].Date)

	require.Equal(t, 3, m.Changes())
	require.Contains(t, m.status, "design moved 2024-01-09 → 2024-01-08")

	require.Len(t, changed, 4)
	require.Equal(t, models.EventTypeDeadlinesLoaded, changed[0].Type)
	require.Equal(t, models.EventTypeDeadlineChanged, changed[3].Type)
	require.Equal(t, "plan.yaml", changed[3].Metadata["source"])
}

func TestNudgeStopsAtNeighbour(t *testing.T) {
	m := newTestModel(t, Config{})
	m.Update(keyPress("tab"))

	for i := 0; i < 6; i++ {
		m.Update(keyPress("L"))
	}
	require.Equal(t, "2024-01-29", m.Deadlines()[0].Date)
	require.Contains(t, m.status, "cannot move past")
	require.Equal(t, timeline.StateIdle, m.ctrl.State())
}

func TestMouseDragCommitsChange(t *testing.T) {
	m := newTestModel(t, Config{Mouse: true})
	pair, ok := m.ctrl.Scales()
	require.True(t, ok)

	col, row := markerScreen(t, m, "build")
	m.Update(mouse(tea.MouseActionPress, col, row))
	require.Equal(t, timeline.StateDragging, m.ctrl.State())
	id, _ := m.selectedID()
	require.Equal(t, "build", id)
	require.Contains(t, m.View(), "dragging build")

	target, _ := m.surface.CellOf(pair.X.Map(testutil.MustDate(t, "2024-01-15")), 0)
	m.Update(mouse(tea.MouseActionMotion, target, row))
	m.Update(mouse(tea.MouseActionRelease, target, row))

	require.Equal(t, timeline.StateIdle, m.ctrl.State())
	date := m.Deadlines()[1].Date
	require.GreaterOrEqual(t, date, "2024-01-13")
	require.LessOrEqual(t, date, "2024-01-17")
	require.Equal(t, 1, m.Changes())
}

func TestMouseClickSelectsWithoutMoving(t *testing.T) {
	m := newTestModel(t, Config{Mouse: true})

	col, row := markerScreen(t, m, "build")
	m.Update(mouse(tea.MouseActionPress, col, row))
	m.Update(mouse(tea.MouseActionRelease, col, row))

	require.Equal(t, timeline.StateIdle, m.ctrl.State())
	require.Equal(t, "2024-02-01", m.Deadlines()[1].Date)
	require.Equal(t, 0, m.Changes())
	id, ok := m.selectedID()
	require.True(t, ok)
	require.Equal(t, "build", id)
}

func TestMouseIgnoresOtherButtons(t *testing.T) {
	m := newTestModel(t, Config{Mouse: true})

	col, row := markerScreen(t, m, "build")
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	require.Equal(t, timeline.StateIdle, m.ctrl.State())

	m.Update(mouse(tea.MouseActionRelease, col, row))
	require.Equal(t, 0, m.Changes())
}

func TestBlurAbortsDrag(t *testing.T) {
	m := newTestModel(t, Config{Mouse: true})

	col, row := markerScreen(t, m, "build")
	m.Update(mouse(tea.MouseActionPress, col, row))
	m.Update(mouse(tea.MouseActionMotion, col-5, row))
	m.Update(tea.BlurMsg{})

	require.Equal(t, timeline.StateIdle, m.ctrl.State())
	require.Equal(t, "2024-02-01", m.Deadlines()[1].Date)
	require.Equal(t, 0, m.Changes())
}

func TestEscCancelsDrag(t *testing.T) {
	m := newTestModel(t, Config{Mouse: true})

	col, row := markerScreen(t, m, "ship")
	m.Update(mouse(tea.MouseActionPress, col, row))
	m.Update(keyPress("esc"))

	require.Equal(t, timeline.StateIdle, m.ctrl.State())
	require.Equal(t, "drag cancelled", m.status)
	id, ok := m.selectedID()
	require.True(t, ok, "selection survives a cancelled drag")
	require.Equal(t, "ship", id)
}

func TestQuitCancelsDragAndQuits(t *testing.T) {
	m := newTestModel(t, Config{Mouse: true})

	col, row := markerScreen(t, m, "build")
	m.Update(mouse(tea.MouseActionPress, col, row))
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	require.True(t, isQuit)
	require.Equal(t, timeline.StateIdle, m.ctrl.State())
}

func TestHeaderNotesDisabledMouse(t *testing.T) {
	m := newTestModel(t, Config{})
	require.True(t, strings.Contains(m.renderHeader(), "mouse off"))
}

func TestReloadReplacesListAndAbortsDrag(t *testing.T) {
	reloads := make(chan watch.Update, 1)
	m := newTestModel(t, Config{Mouse: true, Reloads: reloads})

	col, row := markerScreen(t, m, "build")
	m.Update(mouse(tea.MouseActionPress, col, row))
	require.Equal(t, timeline.StateDragging, m.ctrl.State())

	reloads <- watch.Update{Path: "plan.json", Deadlines: []models.Deadline{
		{TaskID: "design", Date: "2024-01-05", Name: "Design", Progress: 1},
		{TaskID: "ship", Date: "2024-03-01", Name: "Ship"},
	}}
	msg := m.Init()()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd, "keeps waiting for reloads")

	require.Equal(t, timeline.StateIdle, m.ctrl.State())
	_, dragging := m.surface.Dragging()
	require.False(t, dragging)
	require.Len(t, m.Deadlines(), 2)
	require.Equal(t, []string{"design", "ship"}, m.surface.MarkerIDs())
	require.Equal(t, "reloaded 2 deadlines", m.status)
	require.Equal(t, 0, m.Changes())
}

func TestReloadErrorKeepsList(t *testing.T) {
	m := newTestModel(t, Config{})
	m.Update(watch.Update{Err: models.ErrInvalidDate})

	require.Contains(t, m.status, "reload failed")
	require.Len(t, m.Deadlines(), 3)
}

func TestInitWithoutReloads(t *testing.T) {
	m := newTestModel(t, Config{})
	require.Nil(t, m.Init())
}
