// Package display renders process data as colored tables for CLI output.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/7c/procmon/internal/model"
)

// Table renders bordered tables for CLI output.
type Table struct {
	headers []string
	rows    [][]string // raw values (no color) for width calculation
	colored [][]string // colored values for rendering
	widths  []int
	right   []bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runeLen(h)
	}
	return &Table{headers: headers, widths: widths, right: make([]bool, len(headers))}
}

// AlignRight right-aligns the given columns (numbers).
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		if c >= 0 && c < len(t.right) {
			t.right[c] = true
		}
	}
}

// AddRow adds a row whose display and raw values are the same.
func (t *Table) AddRow(cols ...string) {
	t.AddColoredRow(cols, cols)
}

// AddColoredRow adds a row with separate raw (for widths) and colored (for display) values.
func (t *Table) AddColoredRow(raw []string, colored []string) {
	for i, c := range raw {
		if i < len(t.widths) && runeLen(c) > t.widths[i] {
			t.widths[i] = runeLen(c)
		}
	}
	t.rows = append(t.rows, raw)
	t.colored = append(t.colored, colored)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render writes the table to the given writer with dim borders and bold headers.
func (t *Table) Render(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}
	t.line(w, "┌", "┬", "┐")
	t.headerRow(w)
	t.line(w, "├", "┼", "┤")
	for i := range t.rows {
		t.coloredRow(w, t.colored[i])
	}
	t.line(w, "└", "┴", "┘")
}

func (t *Table) line(w io.Writer, left, mid, right string) {
	var sb strings.Builder
	sb.WriteString(dim + left)
	for i, width := range t.widths {
		sb.WriteString(strings.Repeat("─", width+2))
		if i < len(t.widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right + reset)
	fmt.Fprintln(w, sb.String())
}

func (t *Table) headerRow(w io.Writer) {
	fmt.Fprint(w, dim+"│"+reset)
	for i, width := range t.widths {
		fmt.Fprint(w, " "+bold+t.pad(i, t.headers[i], width)+reset+" "+dim+"│"+reset)
	}
	fmt.Fprintln(w)
}

func (t *Table) coloredRow(w io.Writer, cols []string) {
	fmt.Fprint(w, dim+"│"+reset)
	for i, width := range t.widths {
		col := ""
		if i < len(cols) {
			col = cols[i]
		}
		fmt.Fprint(w, " "+t.pad(i, col, width)+" "+dim+"│"+reset)
	}
	fmt.Fprintln(w)
}

func (t *Table) pad(col int, s string, width int) string {
	if t.right[col] {
		return padLeft(s, width)
	}
	return padRight(s, width)
}

// RenderProcessList renders one sampling cycle as a table. Names are
// truncated to model.NameWidth.
func RenderProcessList(w io.Writer, views []model.ProcessView) {
	tbl := NewTable("PID", "USER", "CPU(%)", "MEMORY(MB)", "NAME")
	tbl.AlignRight(0, 2, 3)
	for _, v := range views {
		pid := fmt.Sprintf("%d", v.PID)
		cpu := fmt.Sprintf("%.1f", v.CPUPercent)
		mem := fmt.Sprintf("%.1f", v.MemoryMB)
		name := model.Truncate(v.Name, model.NameWidth)
		owner := v.Owner
		coloredOwner := owner
		if owner == model.UnknownOwner {
			coloredOwner = Dim(owner)
		}
		tbl.AddColoredRow(
			[]string{pid, owner, cpu, mem, name},
			[]string{pid, coloredOwner, CPUColor(v.CPUPercent, cpu), mem, Bold(name)},
		)
	}
	tbl.Render(w)
}

// RenderKV renders key/value pairs as a two-column table with cyan keys.
func RenderKV(w io.Writer, pairs [][2]string) {
	tbl := NewTable("Key", "Value")
	for _, kv := range pairs {
		val := kv[1]
		colored := val
		if val == "" || val == "-" {
			val = "-"
			colored = Dim("-")
		}
		tbl.AddColoredRow([]string{kv[0], val}, []string{Cyan(kv[0]), colored})
	}
	tbl.Render(w)
}
