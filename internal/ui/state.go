package ui

import (
	"time"

	"github.com/kyaoi/tabview/internal/dataset"
	"github.com/kyaoi/tabview/internal/table"
	"github.com/kyaoi/tabview/internal/tree"
)

// OptionsFunc returns the view options for a freshly loaded dataset.
type OptionsFunc func(*dataset.Dataset) table.Options

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	Dataset            *dataset.Dataset
	ActiveAbsPath      string
	Message            string
	HeaderPath         string
	TreeVisible        bool
	TreePreferredWidth int
	TreeRoot           *tree.Node
	TreeLoader         *tree.FSLoader
	TreeSelectionPath  string
	RootDir            string
	DisplayRoot        string
	FocusTree          bool
	Options            OptionsFunc
	BannerDuration     time.Duration
}
