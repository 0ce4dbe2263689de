package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kyaoi/tabview/internal/table"
)

var errEmptyCSV = errors.New("no header row")

type cellKind int

const (
	kindInt cellKind = iota
	kindFloat
	kindString
)

// decodeCSV reads a delimited file whose first record is the header. Columns
// whose non-empty cells all parse as numbers are stored as int64 or float64.
func decodeCSV(r io.Reader, comma rune) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = comma != '\t'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errEmptyCSV
	}

	header := records[0]
	columns := make([]table.Column, len(header))
	for i, h := range header {
		label := strings.TrimSpace(h)
		columns[i] = table.Column{Key: label, Label: label}
	}

	body := records[1:]
	kinds := make([]cellKind, len(header))
	for i := range header {
		kinds[i] = detectKind(body, i)
	}

	rows := make([]table.Row, 0, len(body))
	for _, record := range body {
		row := make(table.Row, len(header))
		for i, col := range columns {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			row[col.Key] = parseCell(cell, kinds[i])
		}
		rows = append(rows, row)
	}

	return &Dataset{Columns: columns, Rows: rows}, nil
}

func detectKind(records [][]string, col int) cellKind {
	kind := kindInt
	seen := false
	for _, record := range records {
		if col >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[col])
		if cell == "" {
			continue
		}
		seen = true
		if kind == kindInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			kind = kindFloat
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return kindString
		}
	}
	if !seen {
		return kindString
	}
	return kind
}

func parseCell(cell string, kind cellKind) table.Value {
	if cell == "" {
		return ""
	}
	switch kind {
	case kindInt:
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return n
		}
	case kindFloat:
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
	}
	return cell
}
