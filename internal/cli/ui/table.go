// Package ui renders the small report shapes the CLI prints: headers,
// aligned tables, and key-value blocks. Color obeys the global
// color.NoColor switch set by the root command.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Table is a two-space-separated table with a bold header row and a
// separator line sized to the widest cell per column.
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{writer: w, headers: headers}
}

// AddRow appends one row. Missing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	for i, header := range t.headers {
		bold.Fprint(t.writer, padRight(header, widths[i]))
		if i < len(t.headers)-1 {
			fmt.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	gray := color.New(color.FgHiBlack)
	for i, width := range widths {
		gray.Fprint(t.writer, strings.Repeat("─", width))
		if i < len(widths)-1 {
			gray.Fprint(t.writer, "  ")
		}
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			fmt.Fprint(t.writer, padRight(cell, widths[i]))
			if i < len(t.headers)-1 {
				fmt.Fprint(t.writer, "  ")
			}
		}
		fmt.Fprintln(t.writer)
	}
}

// KeyValues is a block of aligned "key: value" lines.
type KeyValues struct {
	writer io.Writer
	keys   []string
	values []string
}

// NewKeyValues creates an empty key-value block.
func NewKeyValues(w io.Writer) *KeyValues {
	return &KeyValues{writer: w}
}

// Add appends one pair.
func (kv *KeyValues) Add(key, value string) {
	kv.keys = append(kv.keys, key)
	kv.values = append(kv.values, value)
}

// Render writes the block with keys left-aligned to the widest key.
func (kv *KeyValues) Render() {
	width := 0
	for _, key := range kv.keys {
		if len(key) > width {
			width = len(key)
		}
	}
	cyan := color.New(color.FgCyan)
	for i, key := range kv.keys {
		cyan.Fprint(kv.writer, padRight(key+":", width+1))
		fmt.Fprintf(kv.writer, " %s\n", kv.values[i])
	}
}

// Header writes a bold title underlined to its own width.
func Header(w io.Writer, title string) {
	bold := color.New(color.Bold, color.FgCyan)
	bold.Fprintln(w, title)
	gray := color.New(color.FgHiBlack)
	gray.Fprintln(w, strings.Repeat("─", len(title)))
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
