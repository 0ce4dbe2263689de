// Package config resolves command line flags and environment settings.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/text/language"
)

// ErrUsage is returned when no target path is given.
var ErrUsage = errors.New("usage: tabview [flags] <dataset-file-or-directory>")

// Config holds the resolved command line settings.
type Config struct {
	Target         string
	PageSize       int
	Sortable       bool
	Selectable     bool
	Locale         language.Tag
	Tag            string
	TreeWidth      int
	BannerDuration time.Duration

	// set records flags given explicitly on the command line.
	set map[string]bool
}

// Default returns the settings used when no flag is given.
func Default() Config {
	return Config{
		PageSize:       10,
		Sortable:       true,
		Selectable:     true,
		Locale:         language.Und,
		BannerDuration: 3 * time.Second,
	}
}

// Parse reads flags and the positional target from args (without the
// program name).
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("tabview", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "rows per page (0 disables pagination)")
	fs.BoolVar(&cfg.Sortable, "sortable", cfg.Sortable, "allow sorting by column")
	fs.BoolVar(&cfg.Selectable, "selectable", cfg.Selectable, "allow selecting rows")
	locale := fs.String("locale", "", "BCP 47 locale used to collate text (e.g. ko, en-US)")
	fs.StringVar(&cfg.Tag, "tag", "", "only list datasets carrying this tag (directory targets)")
	fs.IntVar(&cfg.TreeWidth, "tree-width", 0, "preferred width of the file tree panel")
	fs.DurationVar(&cfg.BannerDuration, "banner", cfg.BannerDuration, "how long banners stay visible")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() < 1 {
		return Config{}, ErrUsage
	}
	if cfg.PageSize < 0 {
		return Config{}, fmt.Errorf("invalid -page-size %d", cfg.PageSize)
	}
	if *locale != "" {
		tag, err := language.Parse(*locale)
		if err != nil {
			return Config{}, fmt.Errorf("invalid -locale %q: %w", *locale, err)
		}
		cfg.Locale = tag
	}

	cfg.Target = filepath.Clean(fs.Arg(0))
	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		cfg.set[f.Name] = true
	})
	return cfg, nil
}

// IsSet reports whether the named flag was given on the command line.
func (c Config) IsSet(name string) bool {
	return c.set[name]
}

// Dir returns the tabview configuration directory. It respects
// XDG_CONFIG_HOME on Unix and APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "tabview")
}

// LogFile returns the path debug logs are written to.
func LogFile() string {
	return filepath.Join(Dir(), "debug.log")
}

// DebugEnabled reports whether debug logging is on (TABVIEW_DEBUG=1).
func DebugEnabled() bool {
	return os.Getenv("TABVIEW_DEBUG") == "1"
}
