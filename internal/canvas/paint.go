package canvas

import (
	"math"
	"sort"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/Collaborne/task-scheduler/internal/timeline"
)

const (
	runeArea      = '░'
	runeHLine     = '─'
	runeVLine     = '│'
	runeRise      = '╱'
	runeFall      = '╲'
	runeTickDown  = '┬'
	runeTickRight = '├'
	runeTickLeft  = '┤'
	runeCorner    = '└'
	runeToday     = '┊'
	runePin       = '▼'
	runeDot       = '●'
	runePastDot   = '○'
	runeActiveDot = '◉'
)

// Highlight marks a task as selected; it is painted like the dragged
// marker while no pointer drag is active. An empty id clears it.
func (s *Surface) Highlight(taskID string) {
	s.selected = taskID
}

// Lines paints the stored commands and returns the grid as plain text.
func (s *Surface) Lines() []string {
	grid := s.paint()
	out := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.r)
		}
		out[i] = b.String()
	}
	return out
}

// String returns Lines joined with newlines.
func (s *Surface) String() string {
	return strings.Join(s.Lines(), "\n")
}

// CellAt returns the painted rune and kind at (col,row).
func (s *Surface) CellAt(col, row int) (rune, Kind) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return ' ', KindEmpty
	}
	c := s.paint()[row][col]
	return c.r, c.k
}

func (s *Surface) paint() [][]cell {
	grid := make([][]cell, s.rows)
	for r := range grid {
		grid[r] = make([]cell, s.cols)
		for c := range grid[r] {
			grid[r][c] = cell{r: ' ', k: KindEmpty}
		}
	}
	p := painter{s: s, grid: grid}
	p.footer()
	p.area()
	p.axes()
	p.todayLine()
	p.valueLine()
	p.todayPin()
	p.labels()
	p.markers()
	p.tooltip()
	return grid
}

type painter struct {
	s    *Surface
	grid [][]cell
}

func (p painter) set(col, row int, r rune, k Kind) {
	if row < 0 || row >= len(p.grid) || col < 0 || col >= len(p.grid[row]) {
		return
	}
	p.grid[row][col].r = r
	p.grid[row][col].k = k
}

func (p painter) setIfBackground(col, row int, r rune, k Kind) {
	if row < 0 || row >= len(p.grid) || col < 0 || col >= len(p.grid[row]) {
		return
	}
	switch p.grid[row][col].k {
	case KindEmpty, KindArea, KindFooter:
		p.set(col, row, r, k)
	}
}

func (p painter) text(col, row int, s string, k Kind) {
	if row < 0 || row >= len(p.grid) {
		return
	}
	if col < 0 {
		s = dropLeading([]rune(s), -col)
		col = 0
	}
	room := len(p.grid[row]) - col
	if room <= 0 {
		return
	}
	for i, r := range []rune(truncate.String(s, uint(room))) {
		p.set(col+i, row, r, k)
	}
}

func dropLeading(runes []rune, n int) string {
	if n >= len(runes) {
		return ""
	}
	return string(runes[n:])
}

func (p painter) footer() {
	f := p.s.footer
	if f == nil || f.height <= 0 {
		return
	}
	_, top := p.s.viewCell(0, f.y)
	_, bottom := p.s.viewCell(0, f.y+f.height)
	if bottom == top {
		bottom = top + 1
	}
	for row := maxInt(0, top); row < minInt(bottom, len(p.grid)); row++ {
		for col := range p.grid[row] {
			p.grid[row][col] = cell{r: ' ', k: KindFooter, footer: true}
		}
	}
}

// area fills the cells between the value line and the baseline, sampling
// the polyline at each column centre.
func (p painter) area() {
	pts := p.s.area
	if len(pts) < 2 {
		return
	}
	_, baseRow := p.s.CellOf(0, p.s.baseline)
	first, _ := p.s.CellOf(pts[0].X, 0)
	last, _ := p.s.CellOf(pts[len(pts)-1].X, 0)
	for col := first; col <= last; col++ {
		y, ok := sampleY(pts, p.s.GraphX(col))
		if !ok {
			continue
		}
		_, top := p.s.CellOf(0, y)
		for row := top + 1; row < baseRow; row++ {
			p.setIfBackground(col, row, runeArea, KindArea)
		}
	}
}

func sampleY(pts []timeline.Point, x float64) (float64, bool) {
	if x < pts[0].X || x > pts[len(pts)-1].X {
		return 0, false
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X >= x })
	if i == 0 {
		return pts[0].Y, true
	}
	a, b := pts[i-1], pts[i]
	if b.X == a.X {
		return math.Min(a.Y, b.Y), true
	}
	t := (x - a.X) / (b.X - a.X)
	return a.Y + t*(b.Y-a.Y), true
}

func (p painter) axes() {
	bottom, hasBottom := p.s.axes[timeline.OrientBottom]
	left, hasLeft := p.s.axes[timeline.OrientLeft]
	var axisRow, axisCol int
	if hasBottom {
		axisRow = p.bottomAxis(bottom)
	}
	if hasLeft {
		axisCol = p.leftAxis(left)
	}
	if hasBottom && hasLeft {
		p.set(axisCol, axisRow, runeCorner, KindAxis)
	}
}

func (p painter) bottomAxis(a timeline.Axis) int {
	start, row := p.s.CellOf(0, a.Offset)
	end, _ := p.s.CellOf(a.Length, a.Offset)
	for col := start; col <= end; col++ {
		p.set(col, row, runeHLine, KindAxis)
	}
	for _, t := range a.Ticks {
		col, _ := p.s.CellOf(t.Pos, a.Offset)
		if col < start || col > end {
			continue
		}
		p.set(col, row, runeTickDown, KindAxis)
		if t.Label != "" {
			p.text(col-len([]rune(t.Label))/2, row+1, t.Label, KindAxis)
		}
	}
	return row
}

func (p painter) leftAxis(a timeline.Axis) int {
	col, top := p.s.CellOf(a.Offset, 0)
	_, bottom := p.s.CellOf(a.Offset, a.Length)
	for row := top; row <= bottom; row++ {
		p.set(col, row, runeVLine, KindAxis)
	}
	inner := int(math.Round(math.Abs(a.TickSize) * p.s.scaleX()))
	for _, t := range a.Ticks {
		_, row := p.s.CellOf(a.Offset, t.Pos)
		if row < top || row > bottom {
			continue
		}
		if a.TickSize > 0 {
			p.set(col, row, runeTickLeft, KindAxis)
			continue
		}
		p.set(col, row, runeTickRight, KindAxis)
		for i := 1; i < inner; i++ {
			p.setIfBackground(col+i, row, runeHLine, KindAxis)
		}
	}
	return col
}

func (p painter) todayLine() {
	t := p.s.today
	if t == nil {
		return
	}
	col, top := p.s.CellOf(t.x, 0)
	_, bottom := p.s.CellOf(t.x, t.graphHeight)
	for row := top; row < bottom; row++ {
		p.setIfBackground(col, row, runeToday, KindTodayLine)
	}
}

func (p painter) todayPin() {
	t := p.s.today
	if t == nil {
		return
	}
	col, row := p.s.CellOf(t.x, t.graphHeight)
	p.set(col, row-1, runePin, KindToday)
}

// valueLine joins consecutive marker cells with Bresenham segments.
func (p painter) valueLine() {
	pts := p.s.line
	for i := 1; i < len(pts); i++ {
		c0, r0 := p.s.CellOf(pts[i-1].X, pts[i-1].Y)
		c1, r1 := p.s.CellOf(pts[i].X, pts[i].Y)
		p.segment(c0, r0, c1, r1)
	}
}

func (p painter) segment(c0, r0, c1, r1 int) {
	dx := absInt(c1 - c0)
	dy := -absInt(r1 - r0)
	sx, sy := 1, 1
	if c0 > c1 {
		sx = -1
	}
	if r0 > r1 {
		sy = -1
	}
	acc := dx + dy
	col, row := c0, r0
	for col != c1 || row != r1 {
		e2 := 2 * acc
		stepX, stepY := 0, 0
		if e2 >= dy {
			acc += dy
			stepX = sx
		}
		if e2 <= dx {
			acc += dx
			stepY = sy
		}
		col += stepX
		row += stepY
		if col == c1 && row == r1 {
			break
		}
		p.set(col, row, lineRune(stepX, stepY), KindLine)
	}
}

func lineRune(stepX, stepY int) rune {
	switch {
	case stepY == 0:
		return runeHLine
	case stepX == 0:
		return runeVLine
	case (stepX > 0) == (stepY < 0):
		return runeRise
	default:
		return runeFall
	}
}

func (p painter) labels() {
	for _, id := range p.s.order {
		m := p.s.markers[id]
		if m.Label == "" {
			continue
		}
		col, row := p.s.CellOf(m.LabelX, m.LabelY)
		p.text(col, row, m.Label, KindLabel)
	}
}

func (p painter) markers() {
	active := p.s.active
	if active == "" {
		active = p.s.selected
	}
	for _, id := range p.s.order {
		m := p.s.markers[id]
		col, row := p.s.CellOf(m.X, m.Y)
		switch {
		case id == active:
			p.set(col, row, runeActiveDot, KindActiveDot)
		case m.Draggable:
			p.set(col, row, runeDot, KindDot)
		default:
			p.set(col, row, runePastDot, KindPastDot)
		}
	}
}

func (p painter) tooltip() {
	t := p.s.tooltip
	if t == nil || t.text == "" {
		return
	}
	col, row := p.s.CellOf(t.x, t.y)
	if row < 0 {
		row = 0
	}
	p.text(col, row, t.text, KindTooltip)
}
