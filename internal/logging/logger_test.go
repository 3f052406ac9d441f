package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"nonsense": zerolog.InfoLevel,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInitJSONComponent(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	logger := Component("timeline")
	logger.Debug().Str("task_id", "t1").Msg("drag started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "timeline", line["component"])
	require.Equal(t, "t1", line["task_id"])
	require.Equal(t, "drag started", line["message"])
}

func TestSetupWritesJSONToFile(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	path := filepath.Join(t.TempDir(), "nested", "scheduler.log")
	closer, err := Setup(Config{Level: "info", Format: "console", File: path})
	require.NoError(t, err)
	logger := ForTask(Component("timeline"), "build")
	logger.Info().Str("to", "2024-01-15").Msg("drag committed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line), "file output is always json")
	require.Equal(t, "timeline", line["component"])
	require.Equal(t, "build", line[FieldTaskID])
	require.Equal(t, "2024-01-15", line["to"])
}

func TestSetupWithoutFileUsesOutput(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	closer, err := Setup(Config{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	logger := Component("watch")
	logger.Info().Msg("below level")
	require.Zero(t, buf.Len())
	logger.Warn().Msg("reload failed")
	require.Contains(t, buf.String(), "reload failed")
}

func TestSetupFailsOnUnwritablePath(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	_, err := Setup(Config{File: filepath.Join(blocker, "scheduler.log")})
	require.Error(t, err)
}
