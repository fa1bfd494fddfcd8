// Package format renders command results for the terminal or for scripts.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat is the value of the --output flag.
type OutputFormat string

const (
	TableFormat OutputFormat = "table"
	JSONFormat  OutputFormat = "json"
)

// ParseOutputFormat accepts "table" (the default when empty) or "json".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case TableFormat, "":
		return TableFormat, nil
	case JSONFormat:
		return JSONFormat, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (valid formats: table or json)", s)
	}
}

type Formatter interface {
	Format(data any) error
}

func NewFormatter(format OutputFormat, writer io.Writer) Formatter {
	if format == JSONFormat {
		return &JSONFormatter{writer: writer}
	}
	return &TableFormatter{writer: writer}
}

// JSONFormatter writes one indented JSON document per result, so scripts can
// read a command's output with a single decode.
type JSONFormatter struct {
	writer io.Writer
}

func (f *JSONFormatter) Format(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding %T as json: %w", data, err)
	}
	return nil
}
