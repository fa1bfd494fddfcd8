package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Field is one named value of a command result.
type Field struct {
	Name  string
	Value string
}

// Tabular is implemented by command results that can be shown as a table.
type Tabular interface {
	Fields() []Field
}

// TableFormatter formats output as a table
type TableFormatter struct {
	writer io.Writer
}

// Format implements the Formatter interface for tables
func (f *TableFormatter) Format(data any) error {
	v, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("table format not supported for type %T", data)
	}
	return f.formatFields(v.Fields())
}

func (f *TableFormatter) formatFields(fields []Field) error {
	if len(fields) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
		_, err := fmt.Fprintln(f.writer, emptyStyle.Render("Nothing to show"))
		return err
	}

	var rows []table.Row
	for _, field := range fields {
		rows = append(rows, table.Row{field.Name, field.Value})
	}

	// wide enough for a transaction hash
	columns := []table.Column{
		{Title: "FIELD", Width: 16},
		{Title: "VALUE", Width: 68},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		// header and its border take two lines
		table.WithHeight(len(rows)+2),
		table.WithWidth(90),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.NoColor{}).
		Bold(false)
	t.SetStyles(s)

	tableView := t.View()
	if tableView == "" {
		return f.fallbackTextOutput(fields)
	}
	_, err := fmt.Fprintln(f.writer, tableView)
	return err
}

// fallbackTextOutput provides a simple text output when table rendering fails
func (f *TableFormatter) fallbackTextOutput(fields []Field) error {
	for _, field := range fields {
		if _, err := fmt.Fprintf(f.writer, "%s: %s\n", field.Name, field.Value); err != nil {
			return err
		}
	}
	return nil
}
