// Package models defines the data types shared across the task scheduler.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical ISO calendar-date format used for deadline dates.
const DateLayout = "2006-01-02"

// TooltipLayout formats dates shown when hovering or dragging a marker.
const TooltipLayout = "02 January 2006"

// Deadline errors.
var (
	ErrInvalidDate     = errors.New("invalid deadline date")
	ErrInvalidProgress = errors.New("progress must be between 0 and 1")
	ErrMissingTaskID   = errors.New("task id is required")
)

// Deadline is one dated, progress-valued task as supplied by the host.
// The order of a deadline list is significant and assumed chronological.
type Deadline struct {
	TaskID   string  `json:"taskId" yaml:"taskId" toml:"taskId"`
	Date     string  `json:"date" yaml:"date" toml:"date"`
	Name     string  `json:"name" yaml:"name" toml:"name"`
	Progress float64 `json:"progress" yaml:"progress" toml:"progress"`
}

// Validate checks a single deadline for well-formedness.
func (d Deadline) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(d.TaskID) == "" {
		validation.Add("taskId", ErrMissingTaskID)
	}
	if _, err := ParseDate(d.Date); err != nil {
		validation.Add("date", err)
	}
	if d.Progress < 0 || d.Progress > 1 {
		validation.Add("progress", ErrInvalidProgress)
	}
	return validation.Err()
}

// Task is the view record derived from a Deadline for one render cycle.
type Task struct {
	TaskID     string
	Date       time.Time
	DateStr    string
	Name       string
	Progress   float64
	Percentage float64
}

// DeadlineChange is emitted when a drag commits a new date for a task.
type DeadlineChange struct {
	TaskID string    `json:"taskId"`
	Date   time.Time `json:"date"`
}

// DateStr returns the change date in DateLayout.
func (c DeadlineChange) DateStr() string {
	return FormatDate(c.Date)
}

// ParseDate parses an ISO calendar date into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, value)
	}
	return t, nil
}

// FormatDate renders t as an ISO calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// TruncateDay drops the time-of-day part of t.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CloneDeadlines returns a copy of list that shares no backing array.
func CloneDeadlines(list []Deadline) []Deadline {
	if list == nil {
		return nil
	}
	out := make([]Deadline, len(list))
	copy(out, list)
	return out
}
