package table

import (
	"cmp"
	"fmt"
	"strconv"
)

// Column describes one column of the view. Width is an optional size hint in
// terminal cells; zero lets the presentation pick a width.
type Column struct {
	Key   string
	Label string
	Width int
}

// Value is a single cell. Strings and Go numeric kinds sort natively; any
// other value is treated as an opaque renderable unit.
type Value = any

// Row maps column keys to cell values. Rows are owned by the caller and are
// never modified by the view.
type Row = map[string]Value

// RowRenderer maps a cell value to its displayable form.
type RowRenderer func(col Column, v Value) string

// Renderable is an opaque cell that knows how to display itself.
type Renderable interface {
	Render() string
}

// DefaultRenderer formats strings as-is, numbers in their shortest form and
// everything else through Render, String or fmt.Sprint.
func DefaultRenderer(_ Column, v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Renderable:
		return x.Render()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// numKind classifies a numeric cell.
type numKind int

const (
	notNumber numKind = iota
	signedNumber
	unsignedNumber
	floatNumber
)

// number is a numeric cell kept at full precision for its kind.
type number struct {
	kind numKind
	i    int64
	u    uint64
	f    float64
}

// numeric reports whether v holds a Go integer or float kind.
func numeric(v Value) (number, bool) {
	switch x := v.(type) {
	case int:
		return signed(int64(x)), true
	case int8:
		return signed(int64(x)), true
	case int16:
		return signed(int64(x)), true
	case int32:
		return signed(int64(x)), true
	case int64:
		return signed(x), true
	case uint:
		return unsigned(uint64(x)), true
	case uint8:
		return unsigned(uint64(x)), true
	case uint16:
		return unsigned(uint64(x)), true
	case uint32:
		return unsigned(uint64(x)), true
	case uint64:
		return unsigned(x), true
	case float32:
		return number{kind: floatNumber, f: float64(x)}, true
	case float64:
		return number{kind: floatNumber, f: x}, true
	}
	return number{}, false
}

func signed(i int64) number    { return number{kind: signedNumber, i: i, f: float64(i)} }
func unsigned(u uint64) number { return number{kind: unsignedNumber, u: u, f: float64(u)} }

// compareNumbers orders integers exactly and falls back to float64 only
// when one side is a float.
func compareNumbers(a, b number) int {
	switch {
	case a.kind == signedNumber && b.kind == signedNumber:
		return cmp.Compare(a.i, b.i)
	case a.kind == unsignedNumber && b.kind == unsignedNumber:
		return cmp.Compare(a.u, b.u)
	case a.kind == signedNumber && b.kind == unsignedNumber:
		if a.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.i), b.u)
	case a.kind == unsignedNumber && b.kind == signedNumber:
		return -compareNumbers(b, a)
	}
	return cmp.Compare(a.f, b.f)
}

// stringOf returns the representation used when values of different kinds
// are compared.
func stringOf(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Renderable:
		return x.Render()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}
