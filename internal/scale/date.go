package scale

import (
	"math"
	"time"

	"github.com/Collaborne/task-scheduler/internal/models"
)

const day = 24 * time.Hour

// DefaultMinBorderDays pads a zero-span extent so the domain never collapses.
const DefaultMinBorderDays = 15

// DateScale linearly maps a date domain onto a horizontal pixel range.
type DateScale struct {
	d0, d1 time.Time
	r0, r1 float64
}

// NewDateScale builds a scale from domain [d0,d1] onto range [r0,r1].
func NewDateScale(d0, d1 time.Time, r0, r1 float64) DateScale {
	return DateScale{d0: d0.UTC(), d1: d1.UTC(), r0: r0, r1: r1}
}

// PaddedDateScale builds the timeline x scale for the extent [first,last].
// Each side gets a fifth of the span in whole days; a zero span gets
// minBorderDays instead.
func PaddedDateScale(first, last time.Time, width float64, minBorderDays int) DateScale {
	if last.Before(first) {
		first, last = last, first
	}
	if minBorderDays <= 0 {
		minBorderDays = DefaultMinBorderDays
	}
	border := BorderDays(first, last)
	if border == 0 {
		border = minBorderDays
	}
	pad := time.Duration(border) * day
	return NewDateScale(first.Add(-pad), last.Add(pad), 0, width)
}

// BorderDays returns ceil(spanDays / 5) for the extent [first,last].
func BorderDays(first, last time.Time) int {
	spanDays := math.Abs(last.Sub(first).Hours() / 24)
	return int(math.Ceil(spanDays / 5))
}

// Domain returns the date extent of the scale.
func (s DateScale) Domain() (time.Time, time.Time) {
	return s.d0, s.d1
}

// Range returns the pixel extent of the scale.
func (s DateScale) Range() (float64, float64) {
	return s.r0, s.r1
}

// Map returns the x coordinate of t.
func (s DateScale) Map(t time.Time) float64 {
	span := s.d1.Sub(s.d0)
	if span <= 0 {
		return s.r0
	}
	frac := float64(t.Sub(s.d0)) / float64(span)
	return s.r0 + frac*(s.r1-s.r0)
}

// Invert returns the date at x coordinate x, at millisecond resolution.
// Callers truncate when they need a calendar date.
func (s DateScale) Invert(x float64) time.Time {
	width := s.r1 - s.r0
	if width == 0 {
		return s.d0
	}
	frac := (x - s.r0) / width
	ms := math.Round(frac * float64(s.d1.Sub(s.d0)) / float64(time.Millisecond))
	return s.d0.Add(time.Duration(ms) * time.Millisecond)
}

// Tick is one labelled axis position.
type Tick struct {
	Pos   float64
	Label string
}

// MonthTicks returns a tick at the first day of each month inside the
// domain, labelled with the full month name.
func (s DateScale) MonthTicks() []Tick {
	y, m, _ := s.d0.Date()
	cur := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	if cur.Before(s.d0) {
		cur = cur.AddDate(0, 1, 0)
	}
	var ticks []Tick
	for !cur.After(s.d1) {
		ticks = append(ticks, Tick{Pos: s.Map(cur), Label: cur.Month().String()})
		cur = cur.AddDate(0, 1, 0)
	}
	return ticks
}

// DateStr maps x back to a calendar date string.
func (s DateScale) DateStr(x float64) string {
	return models.FormatDate(s.Invert(x))
}
