// Package dataset loads tabular data files into columns and rows.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kyaoi/tabview/internal/table"
)

// ErrUnsupported is returned for file names without a known extension.
var ErrUnsupported = errors.New("unsupported dataset format")

// Dataset is a loaded table together with its metadata.
type Dataset struct {
	Title       string
	Description string
	Tags        []string
	Columns     []table.Column
	Rows        []table.Row
	Options     FileOptions
}

// FileOptions are per-file overrides of the view options. Nil and zero
// values mean "not set".
type FileOptions struct {
	Sortable   *bool
	Selectable *bool
	PageSize   int
}

// HasTag reports whether the dataset is tagged with tag, ignoring case.
func (d *Dataset) HasTag(tag string) bool {
	return slices.ContainsFunc(d.Tags, func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}


// document is the shape shared by JSON, YAML, TOML and front matter files.
type document struct {
	Title       string           `json:"title" yaml:"title" toml:"title"`
	Description string           `json:"description" yaml:"description" toml:"description"`
	Tags        []string         `json:"tags" yaml:"tags" toml:"tags"`
	Sortable    *bool            `json:"sortable" yaml:"sortable" toml:"sortable"`
	Selectable  *bool            `json:"selectable" yaml:"selectable" toml:"selectable"`
	PageSize    int              `json:"page_size" yaml:"page_size" toml:"page_size"`
	Columns     []columnDocument `json:"columns" yaml:"columns" toml:"columns"`
	Rows        []map[string]any `json:"rows" yaml:"rows" toml:"rows"`
}

type columnDocument struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Label string `json:"label" yaml:"label" toml:"label"`
	Width int    `json:"width" yaml:"width" toml:"width"`
}

// IsDataset reports whether name has a supported extension.
func IsDataset(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".json", ".yaml", ".yml", ".toml", ".md", ".markdown":
		return true
	default:
		return false
	}
}

// Load reads and decodes the dataset at path.
func Load(path string) (*Dataset, error) {
	if !IsDataset(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(filepath.Base(path), f)
}

// Decode decodes a dataset from r. The format is chosen from the extension
// of name.
func Decode(name string, r io.Reader) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv":
		ds, err = decodeCSV(r, ',')
	case ".tsv":
		ds, err = decodeCSV(r, '\t')
	case ".json":
		ds, err = decodeDocument(r, func(data []byte, doc *document) error {
			return json.Unmarshal(data, doc)
		})
	case ".yaml", ".yml":
		ds, err = decodeDocument(r, func(data []byte, doc *document) error {
			return yaml.Unmarshal(data, doc)
		})
	case ".toml":
		ds, err = decodeDocument(r, func(data []byte, doc *document) error {
			_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(doc)
			return err
		})
	case ".md", ".markdown":
		ds, err = decodeMarkdown(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if ds.Title == "" {
		ds.Title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return ds, nil
}

func decodeDocument(r io.Reader, unmarshal func([]byte, *document) error) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.dataset(), nil
}

func (doc *document) dataset() *Dataset {
	rows := make([]table.Row, 0, len(doc.Rows))
	for _, raw := range doc.Rows {
		row := make(table.Row, len(raw))
		for k, v := range raw {
			row[k] = v
		}
		rows = append(rows, row)
	}

	var columns []table.Column
	if len(doc.Columns) > 0 {
		columns = make([]table.Column, 0, len(doc.Columns))
		for _, c := range doc.Columns {
			label := c.Label
			if label == "" {
				label = c.Key
			}
			columns = append(columns, table.Column{Key: c.Key, Label: label, Width: c.Width})
		}
	} else {
		columns = deriveColumns(rows)
	}

	return &Dataset{
		Title:       doc.Title,
		Description: doc.Description,
		Tags:        doc.Tags,
		Columns:     columns,
		Rows:        rows,
		Options: FileOptions{
			Sortable:   doc.Sortable,
			Selectable: doc.Selectable,
			PageSize:   doc.PageSize,
		},
	}
}

// deriveColumns returns one column per key found in rows, sorted by key.
func deriveColumns(rows []table.Row) []table.Column {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	columns := make([]table.Column, 0, len(keys))
	for _, k := range keys {
		columns = append(columns, table.Column{Key: k, Label: k})
	}
	return columns
}
