// Package table renders snapshots as aligned text columns for terminals.
package table

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc colors a cell after its width has been measured
type FormatFunc func(value string) string

type Column struct {
	Header string
	Blank  string // shown for empty cells, "-" when unset
	Format FormatFunc
	Min    int
}

type Table struct {
	columns []Column
	rows    [][]string
	widths  []int
}

func New(cols ...Column) *Table {
	t := &Table{
		columns: cols,
		widths:  make([]int, len(cols)),
	}
	for i := range t.columns {
		if t.columns[i].Blank == "" {
			t.columns[i].Blank = "-"
		}
		t.widths[i] = max(t.columns[i].Min, len(t.columns[i].Header))
	}
	return t
}

// AddRow appends a row; missing trailing cells are blank
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) && cells[i] != "" {
			row[i] = cells[i]
		} else {
			row[i] = t.columns[i].Blank
		}
		t.widths[i] = max(t.widths[i], visibleLen(row[i]))
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Render(w io.Writer) error {
	line := make([]string, len(t.columns))

	for i, c := range t.columns {
		line[i] = pad(c.Header, t.widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(line, " "), " ")); err != nil {
		return err
	}

	for i := range t.columns {
		line[i] = strings.Repeat("-", t.widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.Join(line, " ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		for i, cell := range row {
			// pad first so escape codes do not count toward the width
			cell = pad(cell, t.widths[i])
			if f := t.columns[i].Format; f != nil {
				cell = f(cell)
			}
			line[i] = cell
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(line, " "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func pad(s string, width int) string {
	n := visibleLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// visibleLen counts runes outside ANSI SGR sequences
func visibleLen(s string) int {
	n := 0
	esc := false
	for _, r := range s {
		switch {
		case r == '\033':
			esc = true
		case esc:
			if r == 'm' {
				esc = false
			}
		default:
			n++
		}
	}
	return n
}
