package notify

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kyaoi/tabview/internal/banner"
)

func TestReduce(t *testing.T) {
	s := State{}
	s = Reduce(s, Add{ID: "1", Message: "loaded", Variant: banner.Success})
	s = Reduce(s, Add{ID: "2", Message: "inactive users", Variant: banner.Warning})
	s = Reduce(s, Add{ID: "1", Message: "duplicate"})
	if len(s.Items) != 2 {
		t.Fatalf("items = %+v", s.Items)
	}
	if s.Unread() != 2 {
		t.Errorf("Unread = %d, want 2", s.Unread())
	}

	before := s
	s = Reduce(s, MarkRead{ID: "2"})
	if before.Items[1].Read {
		t.Error("MarkRead modified the previous snapshot")
	}
	if s.Unread() != 1 || !s.Items[1].Read {
		t.Errorf("after MarkRead: %+v", s.Items)
	}

	s = Reduce(s, Remove{ID: "1"})
	want := []Notification{{ID: "2", Message: "inactive users", Variant: banner.Warning, Read: true}}
	if diff := cmp.Diff(want, s.Items); diff != "" {
		t.Errorf("after Remove (-want +got):\n%s", diff)
	}

	s = Reduce(s, Remove{ID: "missing"})
	if len(s.Items) != 1 {
		t.Errorf("Remove of unknown id changed state: %+v", s.Items)
	}

	s = Reduce(s, ClearAll{})
	if len(s.Items) != 0 {
		t.Errorf("after ClearAll: %+v", s.Items)
	}
}

func TestMarkAllRead(t *testing.T) {
	s := Reduce(State{}, Add{ID: "a", Message: "x"})
	s = Reduce(s, Add{ID: "b", Message: "y"})
	s = Reduce(s, MarkAllRead{})
	if s.Unread() != 0 {
		t.Errorf("Unread = %d", s.Unread())
	}
}

func TestAddRequiresID(t *testing.T) {
	s := Reduce(State{}, Add{Message: "no id"})
	if len(s.Items) != 0 {
		t.Errorf("added notification without id: %+v", s.Items)
	}
}

func TestStoreMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next DispatchFunc) DispatchFunc {
			return func(cmd Command) {
				order = append(order, name)
				next(cmd)
			}
		}
	}
	s := NewStore(mark("outer"), mark("inner"))
	s.Dispatch(Add{ID: "1", Message: "hi"})

	if diff := cmp.Diff([]string{"outer", "inner"}, order); diff != "" {
		t.Errorf("middleware order (-want +got):\n%s", diff)
	}
	if len(s.State().Items) != 1 {
		t.Errorf("state = %+v", s.State())
	}
}

func TestStorePushAndLogging(t *testing.T) {
	var buf bytes.Buffer
	s := NewStore(Logging(log.New(&buf, "", 0)))
	id := s.Push("copied 3 rows", banner.Success)
	if id == "" {
		t.Fatal("Push returned empty id")
	}
	if got := s.State().Items[0].ID; got != id {
		t.Errorf("stored id = %q, want %q", got, id)
	}
	if !strings.Contains(buf.String(), "copied 3 rows") {
		t.Errorf("log output = %q", buf.String())
	}
}
