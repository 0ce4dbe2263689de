package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testSchema() Schema {
	return Schema{
		Keys:       map[string]bool{"a": true, "b": true},
		Sortable:   true,
		Selectable: true,
		PageSize:   10,
		Rows:       35,
	}
}

func TestInitialState(t *testing.T) {
	st := InitialState()
	if st.Sorted() || !st.SortAscending || st.CurrentPage != 1 || st.SelectionCount() != 0 {
		t.Errorf("InitialState = %+v", st)
	}
}

func TestTransitionSort(t *testing.T) {
	schema := testSchema()
	st := InitialState()
	st.CurrentPage = 3

	next := Transition(schema, st, SortCommand{Key: "a"})
	if next.SortKey != "a" || !next.SortAscending || next.CurrentPage != 1 {
		t.Errorf("first sort = %+v", next)
	}
	if st.CurrentPage != 3 || st.Sorted() {
		t.Errorf("input snapshot modified: %+v", st)
	}

	next = Transition(schema, next, SortCommand{Key: "a"})
	if next.SortAscending {
		t.Error("same key should flip direction")
	}
	next = Transition(schema, next, SortCommand{Key: "b"})
	if next.SortKey != "b" || !next.SortAscending {
		t.Errorf("new key = %+v", next)
	}
}

func TestTransitionNoOps(t *testing.T) {
	st := InitialState()
	st.CurrentPage = 2

	tests := []struct {
		name   string
		schema func(Schema) Schema
		cmd    Command
	}{
		{
			name:   "sort disabled",
			schema: func(s Schema) Schema { s.Sortable = false; return s },
			cmd:    SortCommand{Key: "a"},
		},
		{
			name:   "unknown sort key",
			schema: func(s Schema) Schema { return s },
			cmd:    SortCommand{Key: "zzz"},
		},
		{
			name:   "no pagination",
			schema: func(s Schema) Schema { s.PageSize = 0; return s },
			cmd:    PageCommand{Page: 3},
		},
		{
			name:   "selection disabled",
			schema: func(s Schema) Schema { s.Selectable = false; return s },
			cmd:    ToggleRowCommand{Index: 1},
		},
		{
			name:   "index past end",
			schema: func(s Schema) Schema { return s },
			cmd:    ToggleRowCommand{Index: 35},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(tt.schema(testSchema()), st, tt.cmd)
			if diff := cmp.Diff(st, got, cmp.AllowUnexported(ViewState{})); diff != "" {
				t.Errorf("state changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransitionPageAlwaysInRange(t *testing.T) {
	schema := testSchema()
	st := InitialState()
	for page := -20; page <= 20; page++ {
		st = Transition(schema, st, PageCommand{Page: page})
		if st.CurrentPage < 1 || st.CurrentPage > schema.PageCount() {
			t.Fatalf("page %d -> %d outside [1,%d]", page, st.CurrentPage, schema.PageCount())
		}
	}
}

func TestTransitionToggleInvolution(t *testing.T) {
	schema := testSchema()
	st := Transition(schema, InitialState(), ToggleRowCommand{Index: 4})
	for i := 0; i < schema.Rows; i++ {
		twice := Transition(schema, Transition(schema, st, ToggleRowCommand{Index: i}), ToggleRowCommand{Index: i})
		if diff := cmp.Diff(st.Selected(), twice.Selected()); diff != "" {
			t.Fatalf("toggle %d twice (-want +got):\n%s", i, diff)
		}
	}
}

func TestPageCountAndPaginate(t *testing.T) {
	for pageSize := 1; pageSize <= 7; pageSize++ {
		for n := 0; n <= 30; n++ {
			count := PageCount(n, pageSize)
			want := max(1, (n+pageSize-1)/pageSize)
			if count != want {
				t.Fatalf("PageCount(%d, %d) = %d, want %d", n, pageSize, count, want)
			}
			total := 0
			for p := 1; p <= count; p++ {
				start, end := Paginate(n, pageSize, p)
				if start != (p-1)*pageSize && n > 0 {
					t.Fatalf("Paginate(%d, %d, %d) start = %d", n, pageSize, p, start)
				}
				total += end - start
			}
			if total != n {
				t.Fatalf("n=%d pageSize=%d: pages cover %d rows", n, pageSize, total)
			}
		}
	}
}

func TestPaginateClamps(t *testing.T) {
	start, end := Paginate(5, 2, 99)
	if start != 4 || end != 5 {
		t.Errorf("Paginate(5, 2, 99) = %d, %d", start, end)
	}
	start, end = Paginate(5, 2, -1)
	if start != 0 || end != 2 {
		t.Errorf("Paginate(5, 2, -1) = %d, %d", start, end)
	}
}
