package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an --output value outside the supported set.
var ErrUnknownFormat = errors.New("unknown output format")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// table is the tabular rendering of a result.
type table struct {
	header []string
	rows   [][]string
}

// printer renders results in the selected format.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(format string, w io.Writer) (*printer, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))

	switch normalized {
	case formatTable, formatJSON, formatYAML:
		return &printer{format: normalized, w: w}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// print writes value as JSON or YAML, or renders tbl for the table format.
func (p *printer) print(value any, tbl table) error {
	switch p.format {
	case formatJSON:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}

		return nil
	case formatYAML:
		encoder := yaml.NewEncoder(p.w)
		encoder.SetIndent(2)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	default:
		return p.table(tbl)
	}
}

func (p *printer) table(tbl table) error {
	if len(tbl.rows) == 0 {
		_, err := fmt.Fprintln(p.w, noteStyle.Render("No results"))

		return err
	}

	w := tabwriter.NewWriter(p.w, 0, 0, 3, ' ', 0)

	titles := make([]string, 0, len(tbl.header))
	for _, title := range tbl.header {
		titles = append(titles, titleStyle.Render(title))
	}

	_, _ = fmt.Fprintln(w, strings.Join(titles, "\t"))

	for _, row := range tbl.rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}

// note writes a dimmed informational line in table mode only.
func (p *printer) note(format string, args ...any) {
	if p.format != formatTable {
		return
	}

	_, _ = fmt.Fprintln(p.w, noteStyle.Render(fmt.Sprintf(format, args...)))
}
