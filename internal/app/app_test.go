package app

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kyaoi/tabview/internal/config"
	"github.com/kyaoi/tabview/internal/dataset"
	"github.com/kyaoi/tabview/internal/ui"
)

const teamYAML = `title: Team
tags: [team, ops]
sortable: false
page_size: 5
rows:
  - name: mina
    role: lead
  - name: joon
    role: dev
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func parse(t *testing.T, args ...string) config.Config {
	t.Helper()
	cfg, err := config.Parse(args, io.Discard)
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	return cfg
}

func TestLoadInitialStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	writeFile(t, path, "name,age\nmina,31\n")

	state, err := LoadInitialState(parse(t, path))
	if err != nil {
		t.Fatal(err)
	}
	if state.Dataset == nil || len(state.Dataset.Rows) != 1 {
		t.Fatalf("Dataset = %+v", state.Dataset)
	}
	if state.TreeVisible || state.TreeRoot != nil {
		t.Error("file target should not show the tree")
	}
	if abs, _ := filepath.Abs(path); state.ActiveAbsPath != abs {
		t.Errorf("ActiveAbsPath = %q", state.ActiveAbsPath)
	}
	if !strings.HasSuffix(state.HeaderPath, "users.csv") {
		t.Errorf("HeaderPath = %q", state.HeaderPath)
	}
}

func TestLoadInitialStateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "users.csv"), "name\nmina\n")

	state, err := LoadInitialState(parse(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	if !state.TreeVisible || state.TreeRoot == nil || !state.FocusTree {
		t.Errorf("state = %+v", state)
	}
	if state.Dataset != nil {
		t.Error("directory target should not open a dataset")
	}
	if state.HeaderPath != filepath.Base(dir)+"/" {
		t.Errorf("HeaderPath = %q", state.HeaderPath)
	}
}

func TestLoadInitialStateEmptyDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")

	state, err := LoadInitialState(parse(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(state.Message, "No dataset files") {
		t.Errorf("Message = %q", state.Message)
	}
}

func TestLoadInitialStateErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadInitialState(parse(t, filepath.Join(dir, "missing.csv"))); !os.IsNotExist(err) {
		t.Errorf("missing file: err = %v", err)
	}
	bad := filepath.Join(dir, "notes.txt")
	writeFile(t, bad, "x")
	if _, err := LoadInitialState(parse(t, bad)); err == nil {
		t.Error("expected error for unsupported file")
	}
}

func TestOptionsFor(t *testing.T) {
	no := false
	ds := &dataset.Dataset{Options: dataset.FileOptions{Sortable: &no, PageSize: 5}}

	opts := OptionsFor(parse(t, "x"))(ds)
	if opts.Sortable || !opts.Selectable || opts.Pagination == nil || opts.Pagination.PageSize != 5 {
		t.Errorf("file settings not applied: %+v", opts)
	}

	opts = OptionsFor(parse(t, "-sortable", "-page-size", "3", "x"))(ds)
	if !opts.Sortable || opts.Pagination.PageSize != 3 {
		t.Errorf("flags should win: %+v", opts)
	}

	opts = OptionsFor(parse(t, "-page-size", "0", "x"))(&dataset.Dataset{})
	if opts.Pagination != nil {
		t.Errorf("page size 0 should disable pagination: %+v", opts.Pagination)
	}
}

func TestCollectTagged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "team.yaml"), teamYAML)
	writeFile(t, filepath.Join(dir, "sub", "ops.json"), `{"tags": ["OPS"], "rows": [{"id": 1}]}`)
	writeFile(t, filepath.Join(dir, "sub", "plain.csv"), "id\n1\n")
	writeFile(t, filepath.Join(dir, "broken.json"), `{`)

	got, err := CollectTagged(dir, "ops")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"sub/ops.json", "team.yaml"}, got); diff != "" {
		t.Errorf("CollectTagged (-want +got):\n%s", diff)
	}
}

func TestTagFilteredState(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sub", "team.yaml"), teamYAML)
	writeFile(t, filepath.Join(dir, "other.csv"), "id\n1\n")

	state, err := TagFilteredState(parse(t, "-tag", "team", dir))
	if err != nil {
		t.Fatal(err)
	}
	if state.TreeSelectionPath != "sub/team.yaml" {
		t.Errorf("TreeSelectionPath = %q", state.TreeSelectionPath)
	}
	if node, err := state.TreeRoot.Find("other.csv"); err != nil || node != nil {
		t.Errorf("untagged file listed: %v %v", node, err)
	}
	if node, err := state.TreeRoot.Find("sub/team.yaml"); err != nil || node == nil {
		t.Errorf("tagged file missing: %v", err)
	}

	if _, err := TagFilteredState(parse(t, "-tag", "nope", dir)); err == nil {
		t.Error("expected error when nothing matches")
	}
	if _, err := TagFilteredState(parse(t, "-tag", "team", filepath.Join(dir, "other.csv"))); err == nil {
		t.Error("expected error for a file target")
	}
}

func TestPrintPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	writeFile(t, path, teamYAML)
	state, err := LoadInitialState(parse(t, path))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := PrintPlain(&buf, state); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"name", "role", "mina", "lead", "joon"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := PrintPlain(&buf, ui.State{Message: "nothing open"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "nothing open\n" {
		t.Errorf("message output = %q", buf.String())
	}
}
