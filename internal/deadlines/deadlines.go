// Package deadlines reads and writes deadline list files in JSON, YAML or
// TOML. Every file is checked against an embedded JSON schema before the
// entries are decoded.
package deadlines

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/Collaborne/task-scheduler/internal/models"
)

// Format is a deadline file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for unknown file extensions or format names.
var ErrUnsupportedFormat = errors.New("unsupported deadline file format")

const schemaURL = "https://collaborne.com/schemas/task-scheduler/deadlines.json"

//go:embed deadlines.schema.json
var schemaSource string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// File is the on-disk document shape.
type File struct {
	Deadlines []models.Deadline `json:"deadlines" yaml:"deadlines" toml:"deadlines"`
}

// ParseFormat resolves a format name such as "yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Load reads and validates the deadline file at path.
func Load(path string) ([]models.Deadline, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deadlines: %w", err)
	}
	defer f.Close()

	list, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Decode reads a document in format, validates it against the schema and
// then each entry's dates, returning the entries in file order.
func Decode(r io.Reader, format Format) ([]models.Deadline, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read deadlines: %w", err)
	}

	var doc any
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		var table map[string]any
		_, err = toml.Decode(string(data), &table)
		doc = table
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	// Round-trip through JSON so every format reaches the schema with the
	// same value types.
	normalized, err := json.Marshal(normalize(doc))
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", format, err)
	}
	var generic any
	if err := json.Unmarshal(normalized, &generic); err != nil {
		return nil, fmt.Errorf("normalize %s: %w", format, err)
	}
	if err := validateSchema(generic); err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(normalized, &file); err != nil {
		return nil, fmt.Errorf("decode deadlines: %w", err)
	}
	if err := Validate(file.Deadlines); err != nil {
		return nil, err
	}
	return file.Deadlines, nil
}

// Validate checks every entry and reports all problems with their index.
func Validate(list []models.Deadline) error {
	var errs models.ValidationErrors
	for i, d := range list {
		errs.Add(models.IndexField("deadlines", i), d.Validate())
	}
	return errs.Err()
}

// Encode writes list as a File document in format.
func Encode(w io.Writer, format Format, list []models.Deadline) error {
	file := File{Deadlines: list}
	if file.Deadlines == nil {
		file.Deadlines = []models.Deadline{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(file)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(file)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// EncodeString is Encode into a string.
func EncodeString(format Format, list []models.Deadline) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, format, list); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("load schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

func validateSchema(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs models.ValidationErrors
	collectSchemaErrors(ve, &errs)
	if out := errs.Err(); out != nil {
		return out
	}
	return err
}

// collectSchemaErrors flattens the leaf causes of a schema failure.
func collectSchemaErrors(ve *jsonschema.ValidationError, errs *models.ValidationErrors) {
	if len(ve.Causes) == 0 {
		errs.AddMessage(pointerToField(ve.InstanceLocation), ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// pointerToField renders a JSON pointer such as /deadlines/2/date as
// deadlines[2].date.
func pointerToField(pointer string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if part == "" {
			continue
		}
		part = strings.NewReplacer("~1", "/", "~0", "~").Replace(part)
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// normalize converts decoder-specific values into JSON-friendly ones. TOML
// and YAML may produce dates and non-string map keys.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case time.Time:
		return val.Format(models.DateLayout)
	default:
		return v
	}
}
