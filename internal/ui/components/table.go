// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/rbacdash/internal/ui/styles"
	"github.com/jeranaias/rbacdash/internal/util"
)

// =============================================================================
// TABLE COMPONENT
// =============================================================================

// Column describes one table column. A zero Width makes the column take the
// space left over by the fixed columns.
type Column struct {
	Title string
	Width int
	// Optional columns are dropped in the narrow layout.
	Optional bool
}

// CellKind selects the style of a cell.
type CellKind int

const (
	CellPlain CellKind = iota
	CellBadge
	CellWarn
)

// Cell is one table cell.
type Cell struct {
	Text string
	Kind CellKind
}

// Row is one table row.
type Row []Cell

// Table renders rows with a selection cursor. Cells are padded and cut to
// their column by display width, so wide characters keep columns aligned.
type Table struct {
	Columns  []Column
	Rows     []Row
	Selected int
	Width    int
	Narrow   bool
	Empty    string

	theme *styles.Theme
}

// NewTable creates a table with the given columns.
func NewTable(theme *styles.Theme, columns ...Column) *Table {
	return &Table{Columns: columns, Width: 80, Empty: "Nothing here yet.", theme: theme}
}

// SetTheme switches the theme.
func (t *Table) SetTheme(theme *styles.Theme) {
	t.theme = theme
}

// SetRows replaces the rows and keeps the cursor in range.
func (t *Table) SetRows(rows []Row) {
	t.Rows = rows
	t.clamp()
}

// MoveUp moves the cursor up one row.
func (t *Table) MoveUp() {
	if t.Selected > 0 {
		t.Selected--
	}
}

// MoveDown moves the cursor down one row.
func (t *Table) MoveDown() {
	if t.Selected < len(t.Rows)-1 {
		t.Selected++
	}
}

func (t *Table) clamp() {
	if t.Selected >= len(t.Rows) {
		t.Selected = len(t.Rows) - 1
	}
	if t.Selected < 0 {
		t.Selected = 0
	}
}

// visible returns the indexes of the columns shown at the current width.
func (t *Table) visible() []int {
	idx := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if t.Narrow && c.Optional {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

// widths resolves flexible column widths for the current table width.
func (t *Table) widths(cols []int) []int {
	const gutter = 2
	out := make([]int, len(cols))
	fixed, flex := 0, 0
	for i, c := range cols {
		out[i] = t.Columns[c].Width
		if out[i] == 0 {
			flex++
		}
		fixed += out[i] + gutter
	}
	if flex > 0 {
		// Two cells for the cursor column.
		share := (t.Width - fixed - 2) / flex
		if share < 8 {
			share = 8
		}
		for i := range out {
			if out[i] == 0 {
				out[i] = share
			}
		}
	}
	return out
}

// View renders the table.
func (t *Table) View() string {
	cols := t.visible()
	widths := t.widths(cols)

	var b strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = util.PadRight(t.Columns[c].Title, widths[i])
	}
	b.WriteString(t.theme.TableHeader.Render("  " + strings.Join(header, "  ")))
	b.WriteString("\n")

	if len(t.Rows) == 0 {
		b.WriteString(t.theme.TableEmpty.Render(t.Empty))
		return b.String()
	}

	for r, row := range t.Rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			var cell Cell
			if c < len(row) {
				cell = row[c]
			}
			cells[i] = t.renderCell(cell, widths[i], r == t.Selected)
		}

		line := strings.Join(cells, "  ")
		if r == t.Selected {
			b.WriteString(t.theme.TableRowSelected.Render("> " + line))
		} else {
			b.WriteString(t.theme.TableRow.Render("  " + line))
		}
		if r < len(t.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (t *Table) renderCell(cell Cell, width int, selected bool) string {
	text := util.PadRight(cell.Text, width)
	if selected {
		return text
	}
	switch cell.Kind {
	case CellBadge:
		return t.theme.Badge.Render(text)
	case CellWarn:
		return t.theme.Dangling.Render(text)
	}
	return text
}
