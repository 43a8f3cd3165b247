// Package table renders aligned tables in the terminal. Cell widths are
// measured in visible runes, so cells may carry ANSI color sequences.
package table

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Column represents a table column with its configuration.
type Column struct {
	Header   string
	MinWidth int
	MaxWidth int
	Align    Alignment
}

// Alignment specifies how content should be aligned within a column.
type Alignment int

const (
	// AlignLeft aligns content to the left.
	AlignLeft Alignment = iota
	// AlignRight aligns content to the right.
	AlignRight
)

var ansiPattern = regexp.MustCompile("\033\\[[0-9;?]*[A-Za-z]")

// VisibleWidth returns the number of runes s occupies on screen,
// ignoring ANSI escape sequences.
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(ansiPattern.ReplaceAllString(s, ""))
}

// Table represents a table with columns and rows.
type Table struct {
	columns []Column
	rows    [][]string
	widths  []int
}

// New creates a new table with the specified columns.
func New(columns ...Column) *Table {
	t := &Table{
		columns: columns,
		widths:  make([]int, len(columns)),
	}
	for i, col := range columns {
		t.widths[i] = max(VisibleWidth(col.Header), col.MinWidth)
	}
	return t
}

// AddRow adds a row of values. Missing values are blank and extras are dropped.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.columns))
	copy(row, values)
	for i, val := range row {
		t.widths[i] = max(t.widths[i], VisibleWidth(val))
	}
	t.rows = append(t.rows, row)
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int {
	return len(t.rows)
}

func (t *Table) finalWidths() []int {
	widths := make([]int, len(t.widths))
	for i, col := range t.columns {
		widths[i] = t.widths[i]
		if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
			widths[i] = col.MaxWidth
		}
	}
	return widths
}

// truncate shortens plain text to width runes, ending in "..." when cut.
// Cells containing escape sequences are never cut.
func truncate(s string, width int) string {
	if VisibleWidth(s) <= width || ansiPattern.MatchString(s) {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func formatCell(value string, width int, align Alignment) string {
	value = truncate(value, width)
	pad := strings.Repeat(" ", max(0, width-VisibleWidth(value)))
	if align == AlignRight {
		return pad + value
	}
	return value + pad
}

// RenderHeader returns the formatted, bold header row.
func (t *Table) RenderHeader() string {
	widths := t.finalWidths()
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = formatCell(col.Header, widths[i], col.Align)
	}
	return "\033[1m" + strings.Join(parts, " │ ") + "\033[0m"
}

// RenderSeparator returns the line between header and rows.
func (t *Table) RenderSeparator() string {
	widths := t.finalWidths()
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	return strings.Join(parts, "─┼─")
}

// RenderRow returns the formatted row at index, or "" when out of range.
func (t *Table) RenderRow(index int) string {
	if index < 0 || index >= len(t.rows) {
		return ""
	}
	widths := t.finalWidths()
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = formatCell(t.rows[index][i], widths[i], col.Align)
	}
	return strings.Join(parts, " │ ")
}

// Render returns the complete table as a string.
func (t *Table) Render() string {
	lines := []string{t.RenderHeader(), t.RenderSeparator()}
	for i := range t.rows {
		lines = append(lines, t.RenderRow(i))
	}
	return strings.Join(lines, "\n")
}

// PrintOptions configures how the table is printed.
type PrintOptions struct {
	// Indent is the prefix added to each line.
	Indent string
	// HighlightRow is the index of the row to highlight, or -1 for none.
	HighlightRow int
	// HighlightColor is the ANSI color code for highlighting (e.g., "33" for yellow).
	HighlightColor string
	// Writer is the output destination. Defaults to os.Stdout if nil.
	Writer io.Writer
}

// DefaultPrintOptions returns default print options.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		Indent:         "  ",
		HighlightRow:   -1,
		HighlightColor: "33",
		Writer:         os.Stdout,
	}
}

// Print writes the table surrounded by blank lines.
func (t *Table) Print(opts PrintOptions) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	fmt.Fprintln(opts.Writer)
	fmt.Fprintf(opts.Writer, "%s%s\n", opts.Indent, t.RenderHeader())
	fmt.Fprintf(opts.Writer, "%s%s\n", opts.Indent, t.RenderSeparator())
	for i := range t.rows {
		row := t.RenderRow(i)
		if i == opts.HighlightRow {
			// Reapply the highlight after any reset inside the row.
			on := fmt.Sprintf("\033[%sm", opts.HighlightColor)
			row = on + strings.ReplaceAll(row, "\033[0m", "\033[0m"+on) + "\033[0m"
		}
		fmt.Fprintf(opts.Writer, "%s%s\n", opts.Indent, row)
	}
	fmt.Fprintln(opts.Writer)
}
