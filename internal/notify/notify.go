// Package notify keeps the list of notifications shown in the notification
// center.
package notify

import (
	"log"
	"slices"

	"github.com/google/uuid"

	"github.com/kyaoi/tabview/internal/banner"
)

// Notification is a single entry in the notification center.
type Notification struct {
	ID      string
	Message string
	Variant banner.Variant
	Read    bool
}

// State is an immutable snapshot of the notification list.
type State struct {
	Items []Notification
}

// Unread returns the number of unread notifications.
func (s State) Unread() int {
	n := 0
	for _, item := range s.Items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Command is a request to change the notification list.
type Command interface {
	command()
}

// Add appends a notification. The caller supplies the ID.
type Add struct {
	ID      string
	Message string
	Variant banner.Variant
}

// MarkRead marks one notification as read.
type MarkRead struct {
	ID string
}

// MarkAllRead marks every notification as read.
type MarkAllRead struct{}

// Remove deletes one notification.
type Remove struct {
	ID string
}

// ClearAll deletes every notification.
type ClearAll struct{}

func (Add) command()         {}
func (MarkRead) command()    {}
func (MarkAllRead) command() {}
func (Remove) command()      {}
func (ClearAll) command()    {}

// NewID returns a fresh notification ID.
func NewID() string {
	return uuid.NewString()
}

// Reduce returns the state that results from applying cmd to s. It never
// modifies s.
func Reduce(s State, cmd Command) State {
	switch c := cmd.(type) {
	case Add:
		if c.ID == "" || s.index(c.ID) >= 0 {
			return s
		}
		items := slices.Clone(s.Items)
		items = append(items, Notification{ID: c.ID, Message: c.Message, Variant: c.Variant})
		return State{Items: items}
	case MarkRead:
		i := s.index(c.ID)
		if i < 0 || s.Items[i].Read {
			return s
		}
		items := slices.Clone(s.Items)
		items[i].Read = true
		return State{Items: items}
	case MarkAllRead:
		if s.Unread() == 0 {
			return s
		}
		items := slices.Clone(s.Items)
		for i := range items {
			items[i].Read = true
		}
		return State{Items: items}
	case Remove:
		i := s.index(c.ID)
		if i < 0 {
			return s
		}
		return State{Items: slices.Delete(slices.Clone(s.Items), i, i+1)}
	case ClearAll:
		return State{}
	}
	return s
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.Items, func(n Notification) bool {
		return n.ID == id
	})
}

// DispatchFunc applies a command.
type DispatchFunc func(Command)

// Middleware wraps a DispatchFunc.
type Middleware func(next DispatchFunc) DispatchFunc

// Store owns the current notification state.
type Store struct {
	state    State
	dispatch DispatchFunc
}

// NewStore returns an empty store. Middleware runs in the order given, the
// first one outermost.
func NewStore(middleware ...Middleware) *Store {
	s := &Store{}
	dispatch := DispatchFunc(func(cmd Command) {
		s.state = Reduce(s.state, cmd)
	})
	for i := len(middleware) - 1; i >= 0; i-- {
		dispatch = middleware[i](dispatch)
	}
	s.dispatch = dispatch
	return s
}

// Dispatch applies cmd through the middleware chain.
func (s *Store) Dispatch(cmd Command) {
	s.dispatch(cmd)
}

// Push adds a notification with a fresh ID and returns the ID.
func (s *Store) Push(message string, variant banner.Variant) string {
	id := NewID()
	s.Dispatch(Add{ID: id, Message: message, Variant: variant})
	return id
}

// State returns the current snapshot.
func (s *Store) State() State {
	return s.state
}

// Logging logs every dispatched command to logger.
func Logging(logger *log.Logger) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(cmd Command) {
			logger.Printf("notify: %T %+v", cmd, cmd)
			next(cmd)
		}
	}
}
