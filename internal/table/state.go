package table

import (
	"maps"
	"slices"
)

// ViewState is an immutable snapshot of the sort, page and selection of a
// view. Transitions return a new snapshot and never modify an existing one.
type ViewState struct {
	// SortKey is empty while the view is unsorted.
	SortKey       string
	SortAscending bool
	CurrentPage   int

	// selected holds indices into the full sorted row sequence. It is never
	// written after the snapshot is created, so snapshots may share it.
	selected map[int]struct{}
}

// InitialState returns the state of a freshly configured view.
func InitialState() ViewState {
	return ViewState{SortAscending: true, CurrentPage: 1}
}

// Sorted reports whether a sort key is set.
func (s ViewState) Sorted() bool {
	return s.SortKey != ""
}

// IsSelected reports whether the row at index i of the sorted sequence is
// selected.
func (s ViewState) IsSelected(i int) bool {
	_, ok := s.selected[i]
	return ok
}

// Selected returns the selected indices in ascending order.
func (s ViewState) Selected() []int {
	return slices.Sorted(maps.Keys(s.selected))
}

// SelectionCount returns the number of selected rows.
func (s ViewState) SelectionCount() int {
	return len(s.selected)
}

// Command is one state transition request. The set of commands is closed.
type Command interface {
	command()
}

// SortCommand requests sorting by Key, toggling direction when Key is the
// current sort key.
type SortCommand struct {
	Key string
}

// PageCommand requests the 1-indexed Page.
type PageCommand struct {
	Page int
}

// ToggleRowCommand flips the selection of the row at Index in the full sorted
// sequence.
type ToggleRowCommand struct {
	Index int
}

func (SortCommand) command()      {}
func (PageCommand) command()      {}
func (ToggleRowCommand) command() {}

// Schema is the part of a view's configuration that transitions depend on.
type Schema struct {
	Keys       map[string]bool
	Sortable   bool
	Selectable bool
	// PageSize is zero when pagination is disabled.
	PageSize int
	Rows     int
}

// PageCount returns the number of pages of the schema's rows.
func (s Schema) PageCount() int {
	if s.PageSize <= 0 {
		return 1
	}
	return PageCount(s.Rows, s.PageSize)
}

// Transition applies cmd to state and returns the resulting snapshot.
// Commands that do not apply return state unchanged; no command fails.
func Transition(schema Schema, state ViewState, cmd Command) ViewState {
	switch c := cmd.(type) {
	case SortCommand:
		if !schema.Sortable || !schema.Keys[c.Key] {
			return state
		}
		next := state
		if c.Key == state.SortKey {
			next.SortAscending = !state.SortAscending
		} else {
			next.SortKey = c.Key
			next.SortAscending = true
		}
		next.CurrentPage = 1
		return next

	case PageCommand:
		if schema.PageSize <= 0 {
			return state
		}
		next := state
		next.CurrentPage = clamp(c.Page, 1, schema.PageCount())
		return next

	case ToggleRowCommand:
		if !schema.Selectable || c.Index < 0 || c.Index >= schema.Rows {
			return state
		}
		selected := make(map[int]struct{}, len(state.selected)+1)
		maps.Copy(selected, state.selected)
		if _, ok := selected[c.Index]; ok {
			delete(selected, c.Index)
		} else {
			selected[c.Index] = struct{}{}
		}
		next := state
		next.selected = selected
		return next
	}
	return state
}
