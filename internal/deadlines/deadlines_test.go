package deadlines

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/testutil"
)

var (
	sample    = testutil.SampleDeadlines()
	writeFile = testutil.WriteFile
)

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "json",
			file: "plan.json",
			body: `{"deadlines": [
				{"taskId": "design", "date": "2024-01-01", "name": "Design", "progress": 1},
				{"taskId": "build", "date": "2024-02-01", "name": "Build", "progress": 0.5},
				{"taskId": "ship", "date": "2024-03-01", "name": "Ship", "progress": 0}
			]}`,
		},
		{
			name: "yaml with unquoted dates",
			file: "plan.yml",
			body: `deadlines:
  - taskId: design
    date: 2024-01-01
    name: Design
    progress: 1
  - taskId: build
    date: "2024-02-01"
    name: Build
    progress: 0.5
  - taskId: ship
    date: 2024-03-01
    name: Ship
    progress: 0
`,
		},
		{
			name: "toml with local dates",
			file: "plan.toml",
			body: `[[deadlines]]
taskId = "design"
date = 2024-01-01
name = "Design"
progress = 1.0

[[deadlines]]
taskId = "build"
date = "2024-02-01"
name = "Build"
progress = 0.5

[[deadlines]]
taskId = "ship"
date = 2024-03-01
name = "Ship"
progress = 0
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Load(writeFile(t, tt.file, tt.body))
			require.NoError(t, err)
			require.Equal(t, sample, list)
		})
	}
}

func TestLoadPreservesOrder(t *testing.T) {
	list, err := Load(writeFile(t, "plan.json", `{"deadlines": [
		{"taskId": "b", "date": "2024-02-01"},
		{"taskId": "a", "date": "2024-01-01"}
	]}`))
	require.NoError(t, err)
	require.Equal(t, "b", list[0].TaskID)
	require.Equal(t, "a", list[1].TaskID)
}

func TestLoadEmptyList(t *testing.T) {
	list, err := Load(writeFile(t, "plan.json", `{"deadlines": []}`))
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestLoadSchemaFailures(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing deadlines", body: `{}`, field: ""},
		{name: "bad date shape", body: `{"deadlines": [{"taskId": "a", "date": "01/02/2024"}]}`, field: "deadlines[0].date"},
		{name: "progress above one", body: `{"deadlines": [{"taskId": "a", "date": "2024-01-01", "progress": 2}]}`, field: "deadlines[0].progress"},
		{name: "unknown key", body: `{"deadlines": [{"taskId": "a", "date": "2024-01-01", "owner": "x"}]}`, field: "deadlines[0]"},
		{name: "empty task id", body: `{"deadlines": [{"taskId": "", "date": "2024-01-01"}]}`, field: "deadlines[0].taskId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "plan.json", tt.body))
			require.Error(t, err)
			var verrs *models.ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			fields := make([]string, 0, len(verrs.Errors))
			for _, e := range verrs.Errors {
				fields = append(fields, e.Field)
			}
			require.Contains(t, fields, tt.field)
		})
	}
}

func TestLoadRejectsImpossibleCalendarDate(t *testing.T) {
	_, err := Load(writeFile(t, "plan.json", `{"deadlines": [
		{"taskId": "a", "date": "2024-01-01"},
		{"taskId": "b", "date": "2024-02-30"}
	]}`))
	require.ErrorIs(t, err, models.ErrInvalidDate)
	require.Contains(t, err.Error(), "deadlines[1].date")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "plan.csv", "taskId,date\n"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMalformedDocument(t *testing.T) {
	_, err := Load(writeFile(t, "plan.yaml", "deadlines: [\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse yaml")
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			out, err := EncodeString(format, sample)
			require.NoError(t, err)
			require.Contains(t, out, "taskId")

			list, err := Decode(strings.NewReader(out), format)
			require.NoError(t, err)
			require.Equal(t, sample, list)
		})
	}
}

func TestEncodeNilListWritesEmptyArray(t *testing.T) {
	out, err := EncodeString(FormatJSON, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"deadlines": []}`, out)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{".json": FormatJSON, "YML": FormatYAML, "yaml": FormatYAML, "toml": FormatTOML} {
		got, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPointerToField(t *testing.T) {
	require.Equal(t, "deadlines[2].date", pointerToField("/deadlines/2/date"))
	require.Equal(t, "", pointerToField(""))
	require.Equal(t, "a/b", pointerToField("/a~1b"))
}
