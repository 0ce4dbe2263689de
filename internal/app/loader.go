package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kyaoi/tabview/internal/config"
	"github.com/kyaoi/tabview/internal/dataset"
	"github.com/kyaoi/tabview/internal/table"
	"github.com/kyaoi/tabview/internal/tree"
	"github.com/kyaoi/tabview/internal/ui"
)

// LoadInitialState analyses the target path and prepares the UI state.
func LoadInitialState(cfg config.Config) (ui.State, error) {
	info, err := os.Stat(cfg.Target)
	if err != nil {
		return ui.State{}, err
	}
	absTarget, err := filepath.Abs(cfg.Target)
	if err != nil {
		return ui.State{}, err
	}

	state := baseState(cfg)
	if info.IsDir() {
		rootName := filepath.Base(absTarget)
		loader := tree.NewFSLoader(absTarget)

		hasDataset, err := loader.HasDataset("")
		if err != nil {
			return ui.State{}, err
		}

		state.Message = "Select a dataset in the tree."
		if !hasDataset {
			state.Message = fmt.Sprintf("No dataset files found in %s.", rootName)
		}
		state.HeaderPath = rootName + "/"
		state.TreeVisible = true
		state.TreeRoot = tree.NewRoot(rootName, loader)
		state.TreeLoader = loader
		state.RootDir = absTarget
		state.DisplayRoot = rootName
		state.FocusTree = true
		return state, nil
	}

	ds, err := dataset.Load(absTarget)
	if err != nil {
		return ui.State{}, err
	}
	state.Dataset = ds
	state.HeaderPath = displayPath(absTarget)
	state.ActiveAbsPath = absTarget
	return state, nil
}

func baseState(cfg config.Config) ui.State {
	return ui.State{
		TreePreferredWidth: cfg.TreeWidth,
		Options:            OptionsFor(cfg),
		BannerDuration:     cfg.BannerDuration,
	}
}

// displayPath returns abs relative to the working directory when possible.
func displayPath(abs string) string {
	display := abs
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, abs); err == nil {
			display = rel
		}
	}
	return filepath.ToSlash(display)
}

// OptionsFor returns the view options for each loaded dataset. Settings from
// the file apply unless the matching flag was given on the command line.
func OptionsFor(cfg config.Config) ui.OptionsFunc {
	return func(ds *dataset.Dataset) table.Options {
		opts := table.Options{
			Sortable:   cfg.Sortable,
			Selectable: cfg.Selectable,
			Locale:     cfg.Locale,
		}
		pageSize := cfg.PageSize

		if ds != nil {
			file := ds.Options
			if file.Sortable != nil && !cfg.IsSet("sortable") {
				opts.Sortable = *file.Sortable
			}
			if file.Selectable != nil && !cfg.IsSet("selectable") {
				opts.Selectable = *file.Selectable
			}
			if file.PageSize > 0 && !cfg.IsSet("page-size") {
				pageSize = file.PageSize
			}
		}

		if pageSize > 0 {
			opts.Pagination = &table.Pagination{PageSize: pageSize}
		}
		return opts
	}
}
