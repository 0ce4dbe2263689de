package tree

import "strings"

// Build returns a fully built tree for the given slash separated relative
// file paths. The root is named rootName and starts open.
func Build(rootName string, files []string) *Node {
	root := &Node{
		Name:  rootName,
		IsDir: true,
		Open:  true,
	}

	for _, rel := range files {
		rel = strings.Trim(rel, "/")
		if rel == "" {
			continue
		}
		parts := strings.Split(rel, "/")
		current := root
		for i, part := range parts {
			child := current.ChildByName(part)
			if child == nil {
				child = &Node{
					Name:  part,
					Path:  join(current.Path, part),
					IsDir: i < len(parts)-1,
				}
				current.AddChild(child)
			}
			current = child
		}
	}

	root.SortRecursive()
	return root
}
