// Package table implements a client-side tabular view with stable sorting,
// pagination and multi-row selection over an in-memory row sequence.
package table

import (
	"errors"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidSchema is returned when column keys are empty or repeated.
	ErrInvalidSchema = errors.New("invalid table schema")
	// ErrInvalidOptions is returned for a non-positive page size.
	ErrInvalidOptions = errors.New("invalid table options")
)

// DefaultEmptyText is shown when a view has no rows.
const DefaultEmptyText = "No rows"

const orderCacheSize = 8

// Pagination enables paging with PageSize rows per page.
type Pagination struct {
	PageSize int
}

// Options configures a View.
type Options struct {
	Sortable   bool
	Pagination *Pagination
	Selectable bool
	// Locale selects the collation used for textual values.
	Locale    language.Tag
	Renderer  RowRenderer
	EmptyText string
}

// Handlers map user gestures to view operations.
type Handlers struct {
	OnSortRequested func(key string)
	OnPageRequested func(page int)
	OnRowToggled    func(index int)
}

type orderKey struct {
	key       string
	ascending bool
}

// View is a configured table together with its current ViewState.
type View struct {
	columns []Column
	rows    []Row
	opts    Options
	schema  Schema
	state   ViewState

	comparator *comparator
	orders     *lru.Cache[orderKey, []int]
}

// New validates the column schema and returns a view in its initial state.
func New(columns []Column, rows []Row, opts Options) (*View, error) {
	keys := make(map[string]bool, len(columns))
	for i, col := range columns {
		if col.Key == "" {
			return nil, fmt.Errorf("%w: column %d has an empty key", ErrInvalidSchema, i)
		}
		if keys[col.Key] {
			return nil, fmt.Errorf("%w: duplicate column key %q", ErrInvalidSchema, col.Key)
		}
		keys[col.Key] = true
	}

	pageSize := 0
	if opts.Pagination != nil {
		if opts.Pagination.PageSize <= 0 {
			return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidOptions, opts.Pagination.PageSize)
		}
		pageSize = opts.Pagination.PageSize
	}
	if opts.Renderer == nil {
		opts.Renderer = DefaultRenderer
	}
	if opts.EmptyText == "" {
		opts.EmptyText = DefaultEmptyText
	}

	orders, err := lru.New[orderKey, []int](orderCacheSize)
	if err != nil {
		return nil, err
	}

	return &View{
		columns: slices.Clone(columns),
		rows:    slices.Clone(rows),
		opts:    opts,
		schema: Schema{
			Keys:       keys,
			Sortable:   opts.Sortable,
			Selectable: opts.Selectable,
			PageSize:   pageSize,
			Rows:       len(rows),
		},
		state:      InitialState(),
		comparator: newComparator(opts.Locale),
		orders:     orders,
	}, nil
}

// Dispatch applies cmd and stores the resulting snapshot.
func (v *View) Dispatch(cmd Command) ViewState {
	v.state = Transition(v.schema, v.state, cmd)
	return v.state
}

// RequestSort sorts by key, flipping the direction when key is already the
// sort key. The view returns to the first page.
func (v *View) RequestSort(key string) {
	v.Dispatch(SortCommand{Key: key})
}

// RequestPage moves to page, clamped into [1, PageCount].
func (v *View) RequestPage(page int) {
	v.Dispatch(PageCommand{Page: page})
}

// ToggleRowSelection flips the selection of the row at index in the full
// sorted sequence.
func (v *View) ToggleRowSelection(index int) {
	v.Dispatch(ToggleRowCommand{Index: index})
}

// Handlers returns callbacks bound to this view.
func (v *View) Handlers() Handlers {
	return Handlers{
		OnSortRequested: v.RequestSort,
		OnPageRequested: v.RequestPage,
		OnRowToggled:    v.ToggleRowSelection,
	}
}

// State returns the current snapshot.
func (v *View) State() ViewState {
	return v.state
}

// Columns returns a copy of the column schema.
func (v *View) Columns() []Column {
	return slices.Clone(v.columns)
}

// Len returns the total number of rows.
func (v *View) Len() int {
	return len(v.rows)
}

// Empty reports whether the view has no rows.
func (v *View) Empty() bool {
	return len(v.rows) == 0
}

// EmptyText returns the placeholder shown for an empty view.
func (v *View) EmptyText() string {
	return v.opts.EmptyText
}

// Sortable reports whether sort requests are honoured.
func (v *View) Sortable() bool {
	return v.opts.Sortable
}

// Selectable reports whether rows can be selected.
func (v *View) Selectable() bool {
	return v.opts.Selectable
}

// Paginated reports whether pagination is configured.
func (v *View) Paginated() bool {
	return v.schema.PageSize > 0
}

// PageSize returns the configured page size, or zero without pagination.
func (v *View) PageSize() int {
	return v.schema.PageSize
}

// PageCount returns the number of pages, at least 1.
func (v *View) PageCount() int {
	return v.schema.PageCount()
}

// Render formats a cell with the configured renderer.
func (v *View) Render(col Column, value Value) string {
	return v.opts.Renderer(col, value)
}

// PageBounds returns the half-open range of the sorted sequence shown on the
// current page.
func (v *View) PageBounds() (start, end int) {
	if v.schema.PageSize <= 0 {
		return 0, len(v.rows)
	}
	return Paginate(len(v.rows), v.schema.PageSize, v.state.CurrentPage)
}

// AbsoluteIndex converts a position on the current page into an index of the
// full sorted sequence.
func (v *View) AbsoluteIndex(local int) (int, bool) {
	start, end := v.PageBounds()
	i := start + local
	if local < 0 || i >= end {
		return 0, false
	}
	return i, true
}

// SortedRows returns every row in display order.
func (v *View) SortedRows() []Row {
	return v.rowsFor(v.order(), 0, len(v.rows))
}

// VisibleRows returns the rows of the current page in display order.
func (v *View) VisibleRows() []Row {
	start, end := v.PageBounds()
	return v.rowsFor(v.order(), start, end)
}

// RowAt returns the row at index i of the sorted sequence.
func (v *View) RowAt(i int) (Row, bool) {
	if i < 0 || i >= len(v.rows) {
		return nil, false
	}
	if order := v.order(); order != nil {
		return v.rows[order[i]], true
	}
	return v.rows[i], true
}

// SelectedRows returns the selected rows in display order.
func (v *View) SelectedRows() []Row {
	var out []Row
	for _, i := range v.state.Selected() {
		if row, ok := v.RowAt(i); ok {
			out = append(out, row)
		}
	}
	return out
}

func (v *View) rowsFor(order []int, start, end int) []Row {
	out := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		if order != nil {
			out = append(out, v.rows[order[i]])
		} else {
			out = append(out, v.rows[i])
		}
	}
	return out
}

// order returns the permutation of row indices for the current sort, or nil
// when the view is unsorted.
func (v *View) order() []int {
	if !v.state.Sorted() {
		return nil
	}
	key := orderKey{key: v.state.SortKey, ascending: v.state.SortAscending}
	if order, ok := v.orders.Get(key); ok {
		return order
	}
	order := stableOrder(v.rows, v.comparator, key.key, key.ascending)
	v.orders.Add(key, order)
	return order
}

func stableOrder(rows []Row, c *comparator, key string, ascending bool) []int {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		n := c.compare(rows[a][key], rows[b][key])
		if !ascending {
			return -n
		}
		return n
	})
	return order
}
