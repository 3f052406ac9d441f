// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Collaborne/task-scheduler/internal/logging"
	"github.com/Collaborne/task-scheduler/internal/models"
)

// SamplePlanJSON is the document form of SampleDeadlines.
const SamplePlanJSON = `{"deadlines": [
	{"taskId": "design", "date": "2024-01-01", "name": "Design", "progress": 1},
	{"taskId": "build", "date": "2024-02-01", "name": "Build", "progress": 0.5},
	{"taskId": "ship", "date": "2024-03-01", "name": "Ship", "progress": 0}
]}`

// SampleDeadlines returns three monthly deadlines with falling progress.
func SampleDeadlines() []models.Deadline {
	return []models.Deadline{
		{TaskID: "design", Date: "2024-01-01", Name: "Design", Progress: 1},
		{TaskID: "build", Date: "2024-02-01", Name: "Build", Progress: 0.5},
		{TaskID: "ship", Date: "2024-03-01", Name: "Ship", Progress: 0},
	}
}

// MustDate parses an ISO calendar date or fails the test.
func MustDate(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// WriteFile writes body to name inside a fresh temp dir and returns the path.
func WriteFile(t testing.TB, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// QuietLogs disables logging for the rest of the test.
func QuietLogs(t testing.TB) {
	t.Helper()
	logging.Init(logging.Config{Level: "disabled", Format: "json"})
	t.Cleanup(func() {
		logging.Init(logging.DefaultConfig())
	})
}
