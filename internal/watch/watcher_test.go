package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/testutil"
)

const onlyPlan = `{"deadlines": [{"taskId": "only", "date": "2024-05-01"}]}`

func startWatcher(t *testing.T, path string, opts ...Option) *Watcher {
	t.Helper()
	w := NewWatcher(path, 50*time.Millisecond, opts...)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		if w.IsRunning() {
			_ = w.Stop()
		}
	})
	return w
}

// waitDeadlines reads updates until one carries n deadlines. A write may
// be seen half done, so earlier updates are skipped.
func waitDeadlines(t *testing.T, w *Watcher, n int) Update {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case u := <-w.Updates():
			if u.Err == nil && len(u.Deadlines) == n {
				return u
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %d deadlines", n)
			return Update{}
		}
	}
}

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestReloadReadsFile(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", onlyPlan)
	w := NewWatcher(path, time.Second)

	u, ok := w.Reload()
	if !ok {
		t.Fatal("expected an update")
	}
	if u.Err != nil {
		t.Fatalf("unexpected error: %v", u.Err)
	}
	if len(u.Deadlines) != 1 || u.Deadlines[0].TaskID != "only" {
		t.Fatalf("unexpected deadlines: %+v", u.Deadlines)
	}
	if u.Path != w.Path() {
		t.Fatalf("expected path %q, got %q", w.Path(), u.Path)
	}
}

func TestReloadReportsLoadErrors(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", testutil.SamplePlanJSON)
	loadErr := errors.New("boom")
	w := NewWatcher(path, time.Second, WithLoader(func(string) ([]models.Deadline, error) {
		return nil, loadErr
	}))

	u, ok := w.Reload()
	if !ok {
		t.Fatal("expected an update")
	}
	if !errors.Is(u.Err, loadErr) {
		t.Fatalf("expected load error, got %v", u.Err)
	}
}

func TestReloadWaitsForMissingFile(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", testutil.SamplePlanJSON)
	w := NewWatcher(path, time.Second)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := w.Reload(); ok {
		t.Fatal("expected no update while the file is missing")
	}
}

func TestStartStop(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", testutil.SamplePlanJSON)
	w := NewWatcher(path, 10*time.Millisecond)

	if err := w.Stop(); !errors.Is(err, ErrWatcherNotRunning) {
		t.Fatalf("expected ErrWatcherNotRunning, got %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.Start(context.Background()); !errors.Is(err, ErrWatcherAlreadyRunning) {
		t.Fatalf("expected ErrWatcherAlreadyRunning, got %v", err)
	}
	if !w.IsRunning() {
		t.Fatal("expected running")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if w.IsRunning() {
		t.Fatal("expected stopped")
	}
}

func TestStartFailsForMissingDirectory(t *testing.T) {
	testutil.QuietLogs(t)
	w := NewWatcher(filepath.Join(t.TempDir(), "gone", "plan.json"), 0)
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
	if w.IsRunning() {
		t.Fatal("expected not running")
	}
}

func TestWriteDeliversUpdate(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", testutil.SamplePlanJSON)
	w := startWatcher(t, path)

	write(t, path, onlyPlan)
	u := waitDeadlines(t, w, 1)
	if u.Deadlines[0].TaskID != "only" {
		t.Fatalf("unexpected deadlines: %+v", u.Deadlines)
	}
}

func TestRenameReplaceDeliversUpdate(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", testutil.SamplePlanJSON)
	w := startWatcher(t, path)

	tmp := filepath.Join(filepath.Dir(path), ".plan.json.swp")
	write(t, tmp, onlyPlan)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}

	u := waitDeadlines(t, w, 1)
	if u.Path != w.Path() {
		t.Fatalf("expected path %q, got %q", w.Path(), u.Path)
	}
}

func TestSiblingFilesAreIgnored(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", testutil.SamplePlanJSON)
	w := startWatcher(t, path)

	write(t, filepath.Join(filepath.Dir(path), "other.json"), onlyPlan)
	select {
	case u := <-w.Updates():
		t.Fatalf("unexpected update %+v", u)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStopClosesEventLoop(t *testing.T) {
	testutil.QuietLogs(t)
	path := testutil.WriteFile(t, "plan.json", testutil.SamplePlanJSON)
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(path, 10*time.Millisecond)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	write(t, path, onlyPlan)
	select {
	case u := <-w.Updates():
		t.Fatalf("unexpected update after stop %+v", u)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDeliverKeepsNewest(t *testing.T) {
	w := NewWatcher("missing.json", time.Second)
	w.deliver(Update{Path: "first"})
	w.deliver(Update{Path: "second"})
	if u := <-w.Updates(); u.Path != "second" {
		t.Fatalf("expected newest update, got %q", u.Path)
	}
}
