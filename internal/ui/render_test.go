package ui

import (
	"strings"
	"testing"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/kyaoi/tabview/internal/table"
)

func scoreView(t *testing.T, opts table.Options) *table.View {
	t.Helper()
	v, err := table.New(
		[]table.Column{
			{Key: "name", Label: "Name", Width: 6},
			{Key: "score", Label: "Score", Width: 8},
		},
		[]table.Row{
			{"name": "ann", "score": 3},
			{"name": "bo", "score": 10},
			{"name": "cy", "score": 7},
		},
		opts,
	)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return v
}

func TestRenderPlain(t *testing.T) {
	v := scoreView(t, table.Options{})
	want := "Name    Score\n" +
		"----------------\n" +
		"ann     3\n" +
		"bo      10\n" +
		"cy      7\n"
	if diff := cmp.Diff(want, RenderPlain(v)); diff != "" {
		t.Errorf("RenderPlain (-want +got):\n%s", diff)
	}
}

func TestRenderPlainPaginated(t *testing.T) {
	v := scoreView(t, table.Options{Pagination: &table.Pagination{PageSize: 2}})
	v.RequestPage(2)
	got := RenderPlain(v)
	if !strings.Contains(got, "cy      7\n") || strings.Contains(got, "ann") {
		t.Errorf("page 2 rendered wrong rows:\n%s", got)
	}
	if !strings.HasSuffix(got, "page 2/2 (3 rows)\n") {
		t.Errorf("missing page footer:\n%s", got)
	}
}

func TestRenderPlainEmpty(t *testing.T) {
	v, err := table.New([]table.Column{{Key: "name"}}, nil, table.Options{EmptyText: "nothing here"})
	if err != nil {
		t.Fatal(err)
	}
	if got := RenderPlain(v); !strings.HasSuffix(got, "nothing here\n") {
		t.Errorf("RenderPlain = %q", got)
	}
}

func TestSyncGrid(t *testing.T) {
	v := scoreView(t, table.Options{Sortable: true, Selectable: true})
	v.RequestSort("score")
	v.ToggleRowSelection(0)

	grid := btable.New()
	syncGrid(&grid, v, gridOptions{colCursor: 1, focused: true})

	cols := grid.Columns()
	if len(cols) != 3 || cols[0].Width != checkboxWidth {
		t.Fatalf("columns = %+v", cols)
	}
	if want := focusMarker + "Score" + sortAscIndicator; cols[2].Title != want {
		t.Errorf("sorted title = %q, want %q", cols[2].Title, want)
	}
	want := []btable.Row{
		{checkboxChecked, "ann", "3"},
		{checkboxUnchecked, "cy", "7"},
		{checkboxUnchecked, "bo", "10"},
	}
	if diff := cmp.Diff(want, grid.Rows()); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}

	lines := strings.Split(ansi.Strip(grid.View()), "\n")
	if len(lines) != gridHeaderHeight+3 {
		t.Fatalf("got %d lines:\n%s", len(lines), ansi.Strip(grid.View()))
	}
	if !strings.Contains(lines[0], "Score") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], checkboxChecked) || !strings.Contains(lines[2], "ann") {
		t.Errorf("first row = %q", lines[2])
	}
}

func TestSyncGridKeepsCursorInRange(t *testing.T) {
	v := scoreView(t, table.Options{Pagination: &table.Pagination{PageSize: 2}})
	grid := btable.New()
	syncGrid(&grid, v, gridOptions{})
	grid.MoveDown(1)

	v.RequestPage(2)
	syncGrid(&grid, v, gridOptions{})
	if got := grid.Cursor(); got != 0 {
		t.Errorf("cursor on a one row page = %d", got)
	}

	v.RequestPage(1)
	syncGrid(&grid, v, gridOptions{})
	grid.MoveDown(1)
	syncGrid(&grid, v, gridOptions{reset: true})
	if got := grid.Cursor(); got != 0 {
		t.Errorf("cursor after reset = %d", got)
	}
}

func TestGridViewEmpty(t *testing.T) {
	v, err := table.New([]table.Column{{Key: "name"}}, nil, table.Options{})
	if err != nil {
		t.Fatal(err)
	}
	grid := btable.New()
	syncGrid(&grid, v, gridOptions{})
	if got := ansi.Strip(gridView(grid, v)); !strings.Contains(got, table.DefaultEmptyText) {
		t.Errorf("gridView = %q", got)
	}
}

func TestFit(t *testing.T) {
	if got := fit("abc", 5); got != "abc  " {
		t.Errorf("fit pad = %q", got)
	}
	if got := fit("a\nb", 3); got != "a b" {
		t.Errorf("fit newline = %q", got)
	}
	if got := cellWidth(fit("abcdefghij", 4)); got > 4 {
		t.Errorf("truncated width = %d", got)
	}
}

func TestTSV(t *testing.T) {
	v := scoreView(t, table.Options{})
	got := tsv(v, v.SortedRows()[:2])
	want := "name\tscore\nann\t3\nbo\t10"
	if got != want {
		t.Errorf("tsv = %q, want %q", got, want)
	}
}
