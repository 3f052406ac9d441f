// Package scale maps calendar dates and percentages to graph coordinates.
package scale

// Default viewport dimensions in pixel units.
const (
	DefaultWidth  = 1000
	DefaultHeight = 500
)

// Margin is the space reserved around the graph area.
type Margin struct {
	Top    float64 `yaml:"top" mapstructure:"top" json:"top"`
	Right  float64 `yaml:"right" mapstructure:"right" json:"right"`
	Bottom float64 `yaml:"bottom" mapstructure:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" mapstructure:"left" json:"left"`
}

// DefaultMargin returns the margins used when none are configured.
func DefaultMargin() Margin {
	return Margin{Top: 30, Right: 50, Bottom: 50, Left: 50}
}

// Viewport is the full drawing area and its margins.
type Viewport struct {
	Width  float64
	Height float64
	Margin Margin
}

// DefaultViewport returns a 1000x500 viewport with default margins.
func DefaultViewport() Viewport {
	return Viewport{Width: DefaultWidth, Height: DefaultHeight, Margin: DefaultMargin()}
}

// GraphWidth is the width left for the graph once margins are removed.
func (v Viewport) GraphWidth() float64 {
	return v.Width - v.Margin.Left - v.Margin.Right
}

// GraphHeight is the height left for the graph once margins are removed.
func (v Viewport) GraphHeight() float64 {
	return v.Height - v.Margin.Top - v.Margin.Bottom
}

// Origin is the offset of the graph area inside the viewport.
func (v Viewport) Origin() (x, y float64) {
	return v.Margin.Left, v.Margin.Top
}

// Known reports whether the viewport leaves a drawable graph area.
func (v Viewport) Known() bool {
	return v.Width > 0 && v.Height > 0 && v.GraphWidth() > 0 && v.GraphHeight() > 0
}
