package tree

import (
	"slices"
	"strings"
)

// Loader lists the children of a directory node.
type Loader interface {
	List(path string) ([]*Node, error)
}

// Node is a directory or dataset file in the side panel.
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Open     bool
	Parent   *Node
	Children []*Node

	loader Loader
	loaded bool
}

// NewRoot returns an open root directory backed by loader.
func NewRoot(name string, loader Loader) *Node {
	return &Node{
		Name:   name,
		IsDir:  true,
		Open:   true,
		loader: loader,
	}
}

// ChildByName returns the direct child called name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// AddChild attaches child to n.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Find returns the node at the slash separated relative path, loading
// directories on the way.
func (n *Node) Find(path string) (*Node, error) {
	current := n
	if path == "" {
		return current, nil
	}
	for _, part := range strings.Split(path, "/") {
		if err := current.EnsureLoaded(); err != nil {
			return nil, err
		}
		current = current.ChildByName(part)
		if current == nil {
			return nil, nil
		}
	}
	return current, nil
}

// EnsureLoaded lists the children of a directory the first time it is
// needed. Nodes without a loader are considered fully built.
func (n *Node) EnsureLoaded() error {
	if !n.IsDir || n.loaded || n.loader == nil {
		return nil
	}

	children, err := n.loader.List(n.Path)
	if err != nil {
		return err
	}

	n.Children = children
	for _, child := range n.Children {
		child.Parent = n
		child.loader = n.loader
	}
	n.sortChildren()
	n.loaded = true
	return nil
}

// Unload forgets the listed children of a loader backed directory so the
// next EnsureLoaded lists it again. Built trees are left untouched.
func (n *Node) Unload() {
	if n.loader == nil {
		return
	}
	n.Children = nil
	n.loaded = false
}

// SortRecursive orders every directory's children, directories first.
func (n *Node) SortRecursive() {
	n.sortChildren()
	for _, child := range n.Children {
		child.SortRecursive()
	}
}

func (n *Node) sortChildren() {
	slices.SortFunc(n.Children, func(a, b *Node) int {
		switch {
		case a.IsDir == b.IsDir:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case a.IsDir:
			return -1
		default:
			return 1
		}
	})
}
