package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kyaoi/tabview/internal/config"
	"github.com/kyaoi/tabview/internal/dataset"
	"github.com/kyaoi/tabview/internal/tree"
	"github.com/kyaoi/tabview/internal/ui"
)

// CollectTagged returns the slash separated paths, relative to root, of every
// dataset tagged with tag. Files that fail to load are skipped.
func CollectTagged(root, tag string) ([]string, error) {
	loader := tree.NewFSLoader(root)
	files, err := loader.Files()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, rel := range files {
		ds, err := dataset.Load(loader.Abs(rel))
		if err != nil {
			log.Printf("tabview: skip %s: %v", rel, err)
			continue
		}
		if ds.HasTag(tag) {
			matches = append(matches, rel)
		}
	}
	return matches, nil
}

// TagFilteredState prepares a UI state whose tree only lists the datasets
// below cfg.Target tagged with cfg.Tag.
func TagFilteredState(cfg config.Config) (ui.State, error) {
	info, err := os.Stat(cfg.Target)
	if err != nil {
		return ui.State{}, err
	}
	if !info.IsDir() {
		return ui.State{}, fmt.Errorf("-tag needs a directory, %s is a file", cfg.Target)
	}
	rootDir, err := filepath.Abs(cfg.Target)
	if err != nil {
		return ui.State{}, err
	}
	displayRoot := filepath.Base(rootDir)

	relPaths, err := CollectTagged(rootDir, cfg.Tag)
	if err != nil {
		return ui.State{}, err
	}
	if len(relPaths) == 0 {
		return ui.State{}, fmt.Errorf("no datasets tagged %q in %s", cfg.Tag, displayRoot)
	}

	state := baseState(cfg)
	state.Message = fmt.Sprintf("Datasets tagged %q:\n  %s", cfg.Tag, strings.Join(relPaths, "\n  "))
	state.HeaderPath = fmt.Sprintf("%s/ (tag: %s)", displayRoot, cfg.Tag)
	state.TreeVisible = true
	state.TreeRoot = tree.Build(displayRoot, relPaths)
	state.TreeSelectionPath = relPaths[0]
	state.RootDir = rootDir
	state.DisplayRoot = displayRoot
	state.FocusTree = true
	return state, nil
}
