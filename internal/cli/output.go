package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/jacksmith/pm/internal/model"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// colorEnabled is true when stdout is a terminal, unless overridden.
var colorEnabled = true

func init() {
	colorEnabled = IsTerminal(os.Stdout)
}

// SetColorEnabled allows overriding the color output setting.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + colorReset
}

// Green returns s in green if colors are enabled.
func Green(s string) string { return paint(colorGreen, s) }

// Red returns s in red if colors are enabled.
func Red(s string) string { return paint(colorRed, s) }

// Yellow returns s in yellow if colors are enabled.
func Yellow(s string) string { return paint(colorYellow, s) }

// Gray returns s in gray if colors are enabled.
func Gray(s string) string { return paint(colorGray, s) }

// FormatPrice renders a price with two decimals.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// FormatStock renders a stock count, red when empty or negative and yellow
// when at or below the low-stock threshold.
func FormatStock(stock float64, low int) string {
	s := strconv.FormatFloat(stock, 'f', -1, 64)
	switch {
	case stock <= 0:
		return Red(s)
	case stock <= float64(low):
		return Yellow(s)
	default:
		return s
	}
}

// ProductRow returns the list columns for p: id, code, title, price, stock.
func ProductRow(p model.Product, low int) []string {
	return []string{
		model.FormatID(p.ID),
		p.Code,
		p.Title,
		FormatPrice(p.Price),
		FormatStock(p.Stock, low),
	}
}

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int // optional per-column max visible width
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{maxWidths: make(map[int]int)}
}

// SetMaxWidth caps the visible width of a column; longer cells are truncated.
func (t *Table) SetMaxWidth(col, maxWidth int) {
	t.maxWidths[col] = maxWidth
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}
	for i, col := range cols {
		width := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && width > maxW {
			width = maxW
		}
		if width > t.colWidths[i] {
			t.colWidths[i] = width
		}
	}
	t.rows = append(t.rows, cols)
}

// Len returns the number of rows added so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w with columns separated by two spaces.
// The last column is never padded.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		parts := make([]string, 0, len(row))
		for i, col := range row {
			if maxW, ok := t.maxWidths[i]; ok {
				col = Truncate(col, maxW)
			}
			if i < len(t.colWidths)-1 {
				col += strings.Repeat(" ", t.colWidths[i]-visibleWidth(col))
			}
			parts = append(parts, col)
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
}

// Truncate cuts s to maxWidth visible characters, ending in "..." when there
// is room for it. ANSI escape codes do not count toward the width and a reset
// is appended if any were kept.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "..."
	limit := maxWidth
	if maxWidth >= len(ellipsis) {
		limit = maxWidth - len(ellipsis)
	}

	var b strings.Builder
	visible := 0
	inEscape, hasANSI := false, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, hasANSI = true, true
			b.WriteRune(r)
		case inEscape:
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
		case visible < limit:
			b.WriteRune(r)
			visible++
		}
	}

	if maxWidth >= len(ellipsis) {
		b.WriteString(ellipsis)
	}
	if hasANSI {
		b.WriteString(colorReset)
	}
	return b.String()
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			width++
		}
	}
	return width
}
