package timeline

import (
	"time"

	"github.com/Collaborne/task-scheduler/internal/models"
)

// RejectReason explains why a proposed move was refused.
type RejectReason string

const (
	RejectNone              RejectReason = ""
	RejectBeforePredecessor RejectReason = "before_predecessor"
	RejectAfterSuccessor    RejectReason = "after_successor"
	RejectUnknownTask       RejectReason = "unknown_task"
)

// Proposal is the outcome of ProposeMove.
type Proposal struct {
	Accepted bool
	Date     time.Time
	DateStr  string
	Reason   RejectReason
}

// ProposeMove gates moving tasks[index] to candidate. The candidate may not
// fall before the predecessor's date or after the successor's date; dates
// are compared as ISO strings so sub-day offsets never matter. An accepted
// candidate is returned unchanged.
func ProposeMove(tasks []models.Task, index int, candidate time.Time) Proposal {
	if index < 0 || index >= len(tasks) {
		return Proposal{Reason: RejectUnknownTask}
	}
	candidateStr := models.FormatDate(candidate)

	if index > 0 && candidateStr < tasks[index-1].DateStr {
		return Proposal{Reason: RejectBeforePredecessor}
	}
	if index < len(tasks)-1 && candidateStr > tasks[index+1].DateStr {
		return Proposal{Reason: RejectAfterSuccessor}
	}
	return Proposal{Accepted: true, Date: candidate, DateStr: candidateStr}
}
