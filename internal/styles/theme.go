// Package styles holds the colour tokens used to paint the timeline.
package styles

import "github.com/charmbracelet/lipgloss"

// BaseColors defines the page colours.
type BaseColors struct {
	Background string
	Foreground string
	Muted      string
	Accent     string
}

// TimelineColors defines colours for the graph parts.
type TimelineColors struct {
	Dots      string
	PastDots  string
	ActiveDot string
	Line      string
	Area      string
	Footer    string
	Today     string
	TodayLine string
	Axis      string
	Label     string
	Tooltip   string
}

// Theme is a named palette.
type Theme struct {
	Name     string
	Base     BaseColors
	Timeline TimelineColors
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// Lookup returns the named theme, falling back to DefaultTheme.
func Lookup(name string) Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return DefaultTheme
}

// Names returns the theme names in a stable order.
func Names() []string {
	return []string{DefaultTheme.Name, HighContrastTheme.Name}
}

func (t Theme) fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Background(lipgloss.Color(t.Base.Background))
}

// Background paints empty graph cells.
func (t Theme) Background() lipgloss.Style {
	return t.fg(t.Base.Foreground)
}

// Muted is used for help and status text.
func (t Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Muted))
}

// Accent is used for titles and the last change notice.
func (t Theme) Accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Accent)).Bold(true)
}

// Dot paints a marker; past markers are dimmed and the dragged one stands out.
func (t Theme) Dot(past, active bool) lipgloss.Style {
	switch {
	case active:
		return t.fg(t.Timeline.ActiveDot).Bold(true)
	case past:
		return t.fg(t.Timeline.PastDots)
	default:
		return t.fg(t.Timeline.Dots).Bold(true)
	}
}

// Line paints the value line.
func (t Theme) Line() lipgloss.Style { return t.fg(t.Timeline.Line) }

// Area paints the shaded area under the value line.
func (t Theme) Area() lipgloss.Style { return t.fg(t.Timeline.Area) }

// Footer paints the band below the graph.
func (t Theme) Footer() lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(t.Timeline.Footer)).Foreground(lipgloss.Color(t.Timeline.Axis))
}

// Today paints the today pin.
func (t Theme) Today() lipgloss.Style { return t.fg(t.Timeline.Today).Bold(true) }

// TodayLine paints the vertical today line.
func (t Theme) TodayLine() lipgloss.Style { return t.fg(t.Timeline.TodayLine) }

// Axis paints axis lines, ticks and tick labels.
func (t Theme) Axis() lipgloss.Style { return t.fg(t.Timeline.Axis) }

// Label paints marker labels.
func (t Theme) Label() lipgloss.Style { return t.fg(t.Timeline.Label).Bold(true) }

// Tooltip paints the hover tooltip.
func (t Theme) Tooltip() lipgloss.Style { return t.fg(t.Timeline.Tooltip).Italic(true) }
