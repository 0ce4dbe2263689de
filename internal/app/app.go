// Package app wires configuration, dataset loading and the terminal UI.
package app

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/kyaoi/tabview/internal/config"
	"github.com/kyaoi/tabview/internal/table"
	"github.com/kyaoi/tabview/internal/ui"
)

// Run executes the table viewer for the resolved configuration.
func Run(cfg config.Config) error {
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	var state ui.State
	if cfg.Tag != "" {
		state, err = TagFilteredState(cfg)
	} else {
		state, err = LoadInitialState(cfg)
	}
	if err != nil {
		return err
	}
	return runProgram(state, os.Stdout)
}

// setupLogging routes the standard logger to the debug log file when
// TABVIEW_DEBUG=1 and silences it otherwise. The returned func restores
// stderr logging.
func setupLogging() (func(), error) {
	restore := func() { log.SetOutput(os.Stderr) }
	if !config.DebugEnabled() {
		log.SetOutput(io.Discard)
		return restore, nil
	}
	if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
		return nil, err
	}
	f, err := tea.LogToFile(config.LogFile(), "tabview")
	if err != nil {
		return nil, err
	}
	return func() {
		f.Close()
		log.SetPrefix("")
		restore()
	}, nil
}

func runProgram(state ui.State, out *os.File) error {
	if fd := out.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return PrintPlain(out, state)
	}

	model := ui.NewModel(state)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// PrintPlain writes the first page of the state's dataset without styles, or
// its message when no dataset is open.
func PrintPlain(w io.Writer, state ui.State) error {
	if state.Dataset == nil {
		_, err := fmt.Fprintln(w, state.Message)
		return err
	}

	var opts table.Options
	if state.Options != nil {
		opts = state.Options(state.Dataset)
	}
	v, err := table.New(state.Dataset.Columns, state.Dataset.Rows, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, ui.RenderPlain(v))
	return err
}
