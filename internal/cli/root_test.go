package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/Collaborne/task-scheduler/internal/deadlines"
	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/testutil"
)

type testEnv struct {
	dir    string
	config string
	plan   string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.yaml"),
		plan:   filepath.Join(dir, "plan.json"),
	}
	cfg := "global:\n  data_dir: " + filepath.Join(dir, "data") + "\n" +
		"  config_dir: " + filepath.Join(dir, "config") + "\n" +
		"logging:\n  level: disabled\n" +
		"timeline:\n  today: \"2024-01-20\"\n"
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(env.plan, []byte(testutil.SamplePlanJSON), 0o644))
	return env
}

func (e testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd("test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionFlag(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "test")
}

func TestListPrintsTable(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "list", env.plan)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "TASK")
	require.Contains(t, lines[1], "design")
	require.Contains(t, lines[1], "done")
	require.Contains(t, lines[2], "50%")
	require.Contains(t, lines[2], "upcoming")
}

func TestListTodayFlagMarksPast(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "--today", "2024-02-10", "list", env.plan)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Contains(t, lines[2], "past")
}

func TestInvalidTodayFlag(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "--today", "soon", "list", env.plan)
	require.Error(t, err)
	require.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestValidate(t *testing.T) {
	env := newTestEnv(t)
	bad := filepath.Join(env.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("deadlines:\n  - taskId: a\n    date: 2024-02-30\n"), 0o644))

	out, _, err := env.run(t, "validate", env.plan)
	require.NoError(t, err)
	require.Contains(t, out, "ok (3 deadlines)")

	_, stderr, err := env.run(t, "validate", env.plan, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 of 2 files invalid")
	require.Contains(t, stderr, "deadlines[0].date")
}

func TestMoveJournalsChange(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "move", env.plan, "build", "2024-02-10")
	require.NoError(t, err)
	list, err := deadlines.Decode(strings.NewReader(out), deadlines.FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "2024-02-10", list[1].Date)
	require.Equal(t, "2024-01-01", list[0].Date)

	raw, err := os.ReadFile(env.plan)
	require.NoError(t, err)
	require.JSONEq(t, testutil.SamplePlanJSON, string(raw), "the input file is left alone")

	out, _, err = env.run(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "deadline.changed")
	require.Contains(t, out, "2024-02-01 → 2024-02-10")
	require.Contains(t, out, "deadlines.loaded")

	out, _, err = env.run(t, "history", "--task", "design")
	require.NoError(t, err)
	require.Contains(t, out, "no recorded changes")
}

func TestMoveFormatFlag(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "move", env.plan, "ship", "2024-03-05", "--format", "yaml", "--no-journal")
	require.NoError(t, err)
	require.Contains(t, out, "date: \"2024-03-05\"")
}

func TestMoveSameDateIsNoop(t *testing.T) {
	env := newTestEnv(t)
	out, stderr, err := env.run(t, "move", env.plan, "build", "2024-02-01")
	require.NoError(t, err)
	require.Contains(t, stderr, "already on 2024-02-01")

	var file deadlines.File
	require.NoError(t, json.Unmarshal([]byte(out), &file))
	require.Equal(t, "2024-02-01", file.Deadlines[1].Date)

	history, _, err := env.run(t, "history")
	require.NoError(t, err)
	require.NotContains(t, history, "deadline.changed", "unchanged dates stay out of the journal")
}

func TestMoveRejections(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "move", env.plan, "build", "2023-12-31")
	require.ErrorIs(t, err, ErrOutOfOrder)
	require.Contains(t, err.Error(), "before design")

	_, _, err = env.run(t, "move", env.plan, "build", "2024-03-02")
	require.ErrorIs(t, err, ErrOutOfOrder)
	require.Contains(t, err.Error(), "after ship")

	_, _, err = env.run(t, "move", env.plan, "deploy", "2024-02-02")
	require.ErrorIs(t, err, ErrUnknownTask)

	_, _, err = env.run(t, "move", env.plan, "build", "tomorrow")
	require.ErrorIs(t, err, models.ErrInvalidDate)

	out, _, err := env.run(t, "history")
	require.NoError(t, err)
	require.NotContains(t, out, "deadline.changed")
}

func TestMoveNoJournal(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "--no-journal", "move", env.plan, "build", "2024-02-10")
	require.NoError(t, err)

	out, _, err := env.run(t, "history")
	require.NoError(t, err)
	require.Contains(t, out, "no recorded changes")
}

func TestShowPlain(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run(t, "show", env.plan, "--plain", "--cols", "90", "--rows", "20")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 20)
	require.Contains(t, out, "Build (50%)")
	require.Contains(t, out, "Feb")
}

func TestShowRejectsBadRows(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "show", env.plan, "--rows", "0")
	require.Error(t, err)
}

func TestUIRequiresTerminal(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "ui", env.plan)
	require.ErrorIs(t, err, ErrNoTTY)
}

func TestValidateExitCode(t *testing.T) {
	env := newTestEnv(t)
	bad := filepath.Join(env.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"deadlines": [{"taskId": ""}]}`), 0o644))

	_, _, err := env.run(t, "validate", bad)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitInvalid, exitErr.Code)
}
