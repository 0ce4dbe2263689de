package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kyaoi/tabview/internal/tree"
)

type treeLine struct {
	node  *tree.Node
	label string
}

func (m *Model) handleTreeKey(key string) (bool, tea.Cmd) {
	if m.treeRoot == nil {
		return false, nil
	}
	half := max(1, m.treeVP.Height/2)
	switch key {
	case "j", "down":
		m.moveTreeSelection(1)
	case "k", "up":
		m.moveTreeSelection(-1)
	case "ctrl+d":
		m.moveTreeSelection(half)
	case "ctrl+u":
		m.moveTreeSelection(-half)
	case "ctrl+j":
		m.contentVP.ScrollDown(1)
	case "ctrl+k":
		m.contentVP.ScrollUp(1)
	case "l", "right", "enter":
		return true, m.openOrDescend()
	case "h", "left":
		m.closeOrAscend()
	case "g":
		if m.pendingKey != "g" {
			m.pendingKey = "g"
			return true, nil
		}
		m.pendingKey = ""
		m.selectTreeLine(0)
	case "G":
		m.selectTreeLine(len(m.flatTree) - 1)
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) selectTreeLine(index int) {
	if len(m.flatTree) == 0 {
		return
	}
	m.treeSelection = clamp(index, 0, len(m.flatTree)-1)
	m.updateTreeContent(m.treeContentWidth)
}

func (m *Model) moveTreeSelection(delta int) {
	m.selectTreeLine(m.treeSelection + delta)
}

// openOrDescend expands a closed directory, steps into an open one, or
// opens the dataset under the cursor.
func (m *Model) openOrDescend() tea.Cmd {
	node := m.currentTreeNode()
	if node == nil {
		return nil
	}
	if !node.IsDir {
		return m.openFileEntry(node)
	}
	if !m.loadNode(node) {
		return nil
	}
	if !node.Open {
		node.Open = true
		m.refreshTreeViewWithSelection(node.Path)
		return nil
	}
	if len(node.Children) > 0 {
		m.moveTreeSelection(1)
	}
	return nil
}

func (m *Model) closeOrAscend() {
	node := m.currentTreeNode()
	if node == nil {
		return
	}
	if node.IsDir && node.Open && node.Parent != nil {
		node.Open = false
		m.refreshTreeViewWithSelection(node.Path)
		return
	}
	if node.Parent != nil {
		m.refreshTreeViewWithSelection(node.Parent.Path)
	}
}

func (m *Model) currentTreeNode() *tree.Node {
	if m.treeSelection < 0 || m.treeSelection >= len(m.flatTree) {
		return nil
	}
	return m.flatTree[m.treeSelection].node
}

// refreshTreeViewWithSelection rebuilds the visible tree with every
// directory on path expanded and the cursor on path when it is listed.
func (m *Model) refreshTreeViewWithSelection(path string) {
	if m.treeRoot == nil || !m.loadNode(m.treeRoot) {
		return
	}
	m.expandPath(path)
	m.treeContentWidth = m.rebuildFlatTree()
	if idx := m.indexForPath(path); idx >= 0 {
		m.treeSelection = idx
	} else {
		m.treeSelection = clamp(m.treeSelection, 0, max(len(m.flatTree)-1, 0))
	}
	m.updateTreeContent(m.treeContentWidth)
}

// expandPath opens every ancestor of path. The target directory itself keeps
// its open state.
func (m *Model) expandPath(path string) {
	m.treeRoot.Open = true
	node, err := m.treeRoot.Find(path)
	if err != nil {
		m.err = err
		return
	}
	if node == nil {
		return
	}
	for dir := node.Parent; dir != nil; dir = dir.Parent {
		dir.Open = true
	}
}

// rescanTree lists the tree again after files were added or removed, keeping
// the cursor on the same path when it still exists.
func (m *Model) rescanTree() {
	if m.treeRoot == nil || m.treeLoader == nil {
		return
	}
	selected := ""
	if node := m.currentTreeNode(); node != nil {
		selected = node.Path
	}
	m.treeLoader.Invalidate()
	m.treeRoot.Unload()
	m.refreshTreeViewWithSelection(selected)
}

// rebuildFlatTree flattens the open part of the tree and returns the widest
// label.
func (m *Model) rebuildFlatTree() int {
	m.flatTree = m.flatTree[:0]
	widest := 0
	var walk func(*tree.Node, int)
	walk = func(node *tree.Node, depth int) {
		label := formatTreeLabel(node, depth)
		widest = max(widest, lipgloss.Width(label))
		m.flatTree = append(m.flatTree, treeLine{node: node, label: label})
		if !node.IsDir || !node.Open || !m.loadNode(node) {
			return
		}
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	walk(m.treeRoot, 0)
	return widest
}

func (m *Model) updateTreeContent(width int) {
	if m.treeRoot == nil {
		return
	}
	if width <= 0 {
		width = minTreePanelWidth
	}
	lines := make([]string, len(m.flatTree))
	for i, line := range m.flatTree {
		style := treeLineStyle
		if i == m.treeSelection {
			style = treeSelectedInactive
			if m.treeFocus {
				style = treeSelectedActive
			}
		}
		lines[i] = style.Render(line.label)
	}
	if m.treePreferredWidth <= 0 || m.treePreferredWidth < width+4 {
		m.treePreferredWidth = max(width+4, minTreePanelWidth)
	}
	m.treeVP.SetContent(strings.Join(lines, "\n"))
	m.ensureSelectionVisible()
}

func (m *Model) indexForPath(path string) int {
	for i, line := range m.flatTree {
		if line.node.Path == path {
			return i
		}
	}
	return -1
}

func (m *Model) ensureSelectionVisible() {
	if len(m.flatTree) == 0 || m.treeVP.Height == 0 {
		return
	}
	if m.treeSelection < m.treeVP.YOffset {
		m.treeVP.SetYOffset(m.treeSelection)
		return
	}
	if bottom := m.treeVP.YOffset + m.treeVP.Height - 1; m.treeSelection > bottom {
		m.treeVP.SetYOffset(m.treeSelection - m.treeVP.Height + 1)
	}
}

func (m *Model) focusTree() {
	m.treeFocus = true
	m.updateTreePanelStyle()
	m.updateTreeContent(m.treeContentWidth)
	m.renderContent()
}

func (m *Model) blurTree() {
	m.treeFocus = false
	m.updateTreePanelStyle()
	m.updateTreeContent(m.treeContentWidth)
	m.renderContent()
}

func (m *Model) updateTreePanelStyle() {
	color := treeBlurBorderColor
	if m.treeFocus {
		color = treeFocusBorderColor
	}
	m.treeVP.Style = treePanelStyle(color)
}

func (m *Model) loadNode(node *tree.Node) bool {
	if node == nil {
		return false
	}
	if err := node.EnsureLoaded(); err != nil {
		m.err = err
		return false
	}
	return true
}

func treePanelStyle(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(color)
}

func formatTreeLabel(node *tree.Node, depth int) string {
	if depth == 0 {
		return node.Name + "/"
	}
	marker := "  "
	if node.IsDir {
		marker = "▸ "
		if node.Open {
			marker = "▾ "
		}
	}
	label := strings.Repeat("  ", depth-1) + marker + node.Name
	if node.IsDir {
		label += "/"
	}
	return label
}

func composeDisplayPath(root, rel string) string {
	rel = filepath.ToSlash(rel)
	switch {
	case root == "":
		return rel
	case rel == "":
		return root + "/"
	}
	return filepath.ToSlash(filepath.Join(root, rel))
}
