// Package ui renders terminal tables and styled text for task-cli.
package ui

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table. Columns are
// separated by two spaces and the last column is not padded.
func FormatTable(headers []string, rows [][]string) string {
	allRows := make([][]string, 0, len(rows)+1)
	allRows = append(allRows, normalizeRow(headers))
	for _, row := range rows {
		allRows = append(allRows, normalizeRow(row))
	}

	widths := make([]int, len(headers))
	for _, row := range allRows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if width := displayWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}

	var builder strings.Builder
	for rowIndex, row := range allRows {
		for i, cell := range row {
			if rowIndex == 0 {
				cell = Bold(cell)
			}
			builder.WriteString(cell)
			if i == len(row)-1 {
				break
			}
			padding := 0
			if i < len(widths) {
				padding = widths[i] - displayWidth(cell)
			}
			builder.WriteString(strings.Repeat(" ", padding+2))
		}
		builder.WriteByte('\n')
	}

	return builder.String()
}

// TruncateTableCell limits cell width while preserving escape sequences.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if displayWidth(value) <= tableCellMaxWidth {
		return value
	}
	return truncate.StringWithTail(value, tableCellMaxWidth, tableCellEllipsis)
}

func normalizeRow(row []string) []string {
	normalized := make([]string, len(row))
	for i, cell := range row {
		normalized[i] = normalizeTableCell(cell)
	}
	return normalized
}

func displayWidth(value string) int {
	return ansi.PrintableRuneWidth(value)
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}
