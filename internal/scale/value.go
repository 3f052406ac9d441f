package scale

// ValueScale maps a percentage in [0,100] onto [height,0], so 0% sits at
// the bottom of the graph.
type ValueScale struct {
	height float64
}

// NewValueScale builds a value scale for a graph of the given height.
func NewValueScale(height float64) ValueScale {
	return ValueScale{height: height}
}

// Map returns the y coordinate of percentage p.
func (s ValueScale) Map(p float64) float64 {
	return s.height - p/100*s.height
}

// Height is the y coordinate of 0%.
func (s ValueScale) Height() float64 {
	return s.height
}

// Ticks returns unlabelled ticks every step percent from 0 to 100.
func (s ValueScale) Ticks(step float64) []Tick {
	if step <= 0 {
		step = 10
	}
	var ticks []Tick
	for p := 0.0; p <= 100; p += step {
		ticks = append(ticks, Tick{Pos: s.Map(p)})
	}
	return ticks
}
