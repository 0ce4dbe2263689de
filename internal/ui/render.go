package ui

import (
	"fmt"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/kyaoi/tabview/internal/table"
)

const (
	maxAutoColumnWidth = 32
	minColumnWidth     = 3
	columnGap          = "  "
	checkboxWidth      = 3
)

var (
	headerStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c0caf5"))
	ruleColor          = lipgloss.Color("#3b4261")
	cursorActiveStyle  = treeSelectedActive
	cursorInactive     = treeSelectedInactive
	gridFrameStyle     = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true).Padding(1, 2)
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	mutedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	sortAscIndicator   = " ▲"
	sortDescIndicator  = " ▼"
	focusMarker        = "›"
	checkboxChecked    = "[x]"
	checkboxUnchecked  = "[ ]"
	truncationEllipsis = "…"
)

// gridHeaderHeight is the header line plus its bottom border.
const gridHeaderHeight = 2

type gridOptions struct {
	colCursor int
	focused   bool
	// height includes the header; zero fits every row of the page.
	height int
	// width caps the grid; zero uses the natural width of the columns.
	width int
	// reset moves the cursor to the first row.
	reset bool
}

// gridStyles returns the bubbles table styles. Cells carry no colors so the
// cursor row highlight spans the whole line.
func gridStyles(focused bool) btable.Styles {
	s := btable.DefaultStyles()
	s.Header = headerStyle.
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ruleColor).
		BorderBottom(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	s.Selected = cursorInactive
	if focused {
		s.Selected = cursorActiveStyle
	}
	return s
}

// syncGrid loads the current page of v into grid: a checkbox column when
// rows are selectable, sort arrows and the focus marker in the titles.
func syncGrid(grid *btable.Model, v *table.View, opts gridOptions) {
	columns := v.Columns()
	rows := v.VisibleRows()
	widths := columnWidths(v, columns, rows)
	state := v.State()

	var gridCols []btable.Column
	if v.Selectable() {
		gridCols = append(gridCols, btable.Column{Title: "", Width: checkboxWidth})
	}
	for i, col := range columns {
		gridCols = append(gridCols, btable.Column{
			Title: headerTitle(col, state, i == opts.colCursor && v.Sortable()),
			Width: widths[i],
		})
	}

	start, _ := v.PageBounds()
	gridRows := make([]btable.Row, len(rows))
	for i, row := range rows {
		cells := make(btable.Row, 0, len(gridCols))
		if v.Selectable() {
			box := checkboxUnchecked
			if state.IsSelected(start + i) {
				box = checkboxChecked
			}
			cells = append(cells, box)
		}
		for _, col := range columns {
			cells = append(cells, plainCell(v.Render(col, row[col.Key])))
		}
		gridRows[i] = cells
	}

	grid.SetStyles(gridStyles(opts.focused))
	// Old rows may be wider than the new columns.
	grid.SetRows(nil)
	grid.SetColumns(gridCols)
	grid.SetRows(gridRows)

	height := opts.height
	if height <= 0 {
		height = len(gridRows) + gridHeaderHeight
	}
	grid.SetHeight(height)
	width := gridWidth(gridCols)
	if opts.width > 0 {
		width = min(width, opts.width)
	}
	grid.SetWidth(width)

	if len(gridRows) == 0 {
		return
	}
	switch c := grid.Cursor(); {
	case opts.reset:
		grid.GotoTop()
	case c < 0:
		grid.SetCursor(0)
	case c >= len(gridRows):
		grid.SetCursor(len(gridRows) - 1)
	}
}

func headerTitle(col table.Column, state table.ViewState, focused bool) string {
	title := col.Label
	if title == "" {
		title = col.Key
	}
	if focused {
		title = focusMarker + title
	}
	if state.SortKey == col.Key {
		if state.SortAscending {
			title += sortAscIndicator
		} else {
			title += sortDescIndicator
		}
	}
	return title
}

// plainCell strips styling from a rendered cell; the grid truncates by
// rune width and would cut escape sequences.
func plainCell(s string) string {
	return strings.ReplaceAll(ansi.Strip(s), "\n", " ")
}

func gridWidth(columns []btable.Column) int {
	total := 0
	for _, col := range columns {
		total += col.Width + 2
	}
	return total
}

// gridView draws the grid, or the empty placeholder when v has no rows.
func gridView(grid btable.Model, v *table.View) string {
	if v.Empty() {
		return emptyStyle.Render(v.EmptyText())
	}
	return gridFrameStyle.Render(grid.View())
}

func columnWidths(v *table.View, columns []table.Column, rows []table.Row) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		label := col.Label
		if label == "" {
			label = col.Key
		}
		w := cellWidth(focusMarker+label) + runewidth.StringWidth(sortAscIndicator)
		for _, row := range rows {
			w = max(w, cellWidth(v.Render(col, row[col.Key])))
		}
		widths[i] = clamp(w, minColumnWidth, maxAutoColumnWidth)
	}
	return widths
}

func totalWidth(widths []int, selectable bool) int {
	total := 0
	n := len(widths)
	for _, w := range widths {
		total += w
	}
	if selectable {
		total += checkboxWidth
		n++
	}
	if n > 1 {
		total += (n - 1) * len(columnGap)
	}
	return total
}

// cellWidth returns the display width of s ignoring escape sequences.
func cellWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if cellWidth(s) > width {
		s = ansi.Truncate(s, width, truncationEllipsis)
	}
	if pad := width - cellWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// RenderPlain draws the current page of v without styles, for
// non-interactive output.
func RenderPlain(v *table.View) string {
	columns := v.Columns()
	rows := v.VisibleRows()
	widths := columnWidths(v, columns, rows)

	var b strings.Builder
	labels := make([]string, len(columns))
	for i, col := range columns {
		label := col.Label
		if label == "" {
			label = col.Key
		}
		labels[i] = fit(label, widths[i])
	}
	b.WriteString(strings.TrimRight(strings.Join(labels, columnGap), " "))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", totalWidth(widths, false)))
	b.WriteByte('\n')
	if v.Empty() {
		b.WriteString(v.EmptyText())
		b.WriteByte('\n')
		return b.String()
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = fit(v.Render(col, row[col.Key]), widths[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " "))
		b.WriteByte('\n')
	}
	if v.Paginated() {
		fmt.Fprintf(&b, "page %d/%d (%d rows)\n", v.State().CurrentPage, v.PageCount(), v.Len())
	}
	return b.String()
}

// tsv formats rows as tab separated values with a header line.
func tsv(v *table.View, rows []table.Row) string {
	columns := v.Columns()
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(col.Key)
	}
	for _, row := range rows {
		b.WriteByte('\n')
		for i, col := range columns {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(ansi.Strip(v.Render(col, row[col.Key])))
		}
	}
	return b.String()
}
