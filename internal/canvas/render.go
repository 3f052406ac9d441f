package canvas

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Collaborne/task-scheduler/internal/styles"
)

// Render paints the grid with theme colours, styling runs of equal kind
// together.
func (s *Surface) Render(theme styles.Theme) string {
	grid := s.paint()
	rows := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && row[j].k == row[start].k && row[j].footer == row[start].footer {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:j] {
				run.WriteRune(c.r)
			}
			b.WriteString(styleFor(theme, row[start]).Render(run.String()))
			start = j
		}
		rows[i] = b.String()
	}
	return strings.Join(rows, "\n")
}

func styleFor(theme styles.Theme, c cell) lipgloss.Style {
	var st lipgloss.Style
	switch c.k {
	case KindFooter:
		return theme.Footer()
	case KindArea:
		st = theme.Area()
	case KindAxis:
		st = theme.Axis()
	case KindTodayLine:
		st = theme.TodayLine()
	case KindLine:
		st = theme.Line()
	case KindToday:
		st = theme.Today()
	case KindLabel:
		st = theme.Label()
	case KindDot:
		st = theme.Dot(false, false)
	case KindPastDot:
		st = theme.Dot(true, false)
	case KindActiveDot:
		st = theme.Dot(false, true)
	case KindTooltip:
		st = theme.Tooltip()
	default:
		st = theme.Background()
	}
	if c.footer {
		st = st.Background(lipgloss.Color(theme.Timeline.Footer))
	}
	return st
}
