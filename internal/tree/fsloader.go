package tree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kyaoi/tabview/internal/dataset"
)

var errNotDir = errors.New("path is not a directory")

// FSLoader lists dataset files and the directories that contain them.
type FSLoader struct {
	root  string
	cache map[string]bool
}

// NewFSLoader returns a loader rooted at root.
func NewFSLoader(root string) *FSLoader {
	return &FSLoader{
		root:  root,
		cache: make(map[string]bool),
	}
}

// List returns the dataset files and non-empty directories directly under
// relPath.
func (l *FSLoader) List(relPath string) ([]*Node, error) {
	dir := l.Abs(relPath)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errNotDir
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var nodes []*Node
	for _, entry := range entries {
		name := entry.Name()
		childPath := join(relPath, name)
		if entry.IsDir() {
			if skipDir(name) {
				continue
			}
			has, err := l.HasDataset(childPath)
			if err != nil {
				return nil, err
			}
			if has {
				nodes = append(nodes, &Node{Name: name, Path: childPath, IsDir: true})
			}
			continue
		}
		if dataset.IsDataset(name) {
			nodes = append(nodes, &Node{Name: name, Path: childPath})
		}
	}
	return nodes, nil
}

// HasDataset reports whether relPath contains a dataset file anywhere below
// it. Results are cached per path.
func (l *FSLoader) HasDataset(relPath string) (bool, error) {
	if cached, ok := l.cache[relPath]; ok {
		return cached, nil
	}

	entries, err := os.ReadDir(l.Abs(relPath))
	if err != nil {
		return false, err
	}

	found := false
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if skipDir(name) {
				continue
			}
			has, err := l.HasDataset(join(relPath, name))
			if err != nil {
				return false, err
			}
			if has {
				found = true
				break
			}
			continue
		}
		if dataset.IsDataset(name) {
			found = true
			break
		}
	}

	l.cache[relPath] = found
	return found, nil
}

// Files returns every dataset file below the root as slash separated
// relative paths.
func (l *FSLoader) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !dataset.IsDataset(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// Invalidate drops cached results so that new or removed files are seen.
func (l *FSLoader) Invalidate() {
	clear(l.cache)
}

// Abs converts a relative tree path into an absolute file path.
func (l *FSLoader) Abs(relPath string) string {
	if relPath == "" {
		return l.root
	}
	return filepath.Join(l.root, filepath.FromSlash(relPath))
}

func join(base, part string) string {
	if base == "" {
		return part
	}
	return base + "/" + part
}

func skipDir(name string) bool {
	switch strings.ToLower(name) {
	case ".git", "node_modules", ".hg", ".svn", ".idea", ".vscode":
		return true
	default:
		return false
	}
}
