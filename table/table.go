// Package table holds the data snapshots handed to the visuals: typed
// columns with a display format and rows of cell values.
//
// Cell values are nil (no value), int64, float64, string, bool or
// time.Time according to the column type.
package table

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vdobler/vizcore/stat"
)

var (
	ErrRaggedRow = errors.New("table: row length does not match columns")
	ErrNoColumn  = errors.New("table: no such column")
	ErrNotNumber = errors.New("table: column is not numeric")
)

// Type represents the basic type of a column.
type Type uint

const (
	Int Type = iota
	Float
	String
	Bool
	Time
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Time:
		return "time"
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Numeric reports whether values of t can be used as measurements.
func (t Type) Numeric() bool { return t == Int || t == Float }

type Column struct {
	Name   string
	Type   Type
	Format string // display format, see Format
}

type Table struct {
	Columns []Column
	Rows    [][]any
}

// Validate checks that every row has one value per column.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: table has no columns", ErrNoColumn)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d values, want %d",
				ErrRaggedRow, i, len(row), len(t.Columns))
		}
	}
	return nil
}

// Index returns the position of the column name.
func (t *Table) Index(name string) (int, error) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNoColumn, name)
}

// Indices resolves several column names at once.
func (t *Table) Indices(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, err := t.Index(name)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	return idx, nil
}

// Project returns the rows restricted to the given columns in the given
// order.
func (t *Table) Project(cols ...int) [][]any {
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]any, len(cols))
		for j, c := range cols {
			r[j] = row[c]
		}
		rows[i] = r
	}
	return rows
}

// Filter extracts all rows where column col equals value. Numbers compare
// by value regardless of their Go type.
func (t *Table) Filter(col int, value any) *Table {
	res := &Table{Columns: make([]Column, len(t.Columns))}
	copy(res.Columns, t.Columns)
	for _, row := range t.Rows {
		if equal(row[col], value) {
			res.Rows = append(res.Rows, row)
		}
	}
	return res
}

func equal(a, b any) bool {
	if fa, ok := Number(a); ok {
		fb, ok := Number(b)
		return ok && fa == fb
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

// Number converts numeric cell values to float64.
func Number(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	}
	return 0, false
}

// MinMax determines minimum and maximum of the numeric column col,
// ignoring missing values. ok is false if the column holds no number.
func (t *Table) MinMax(col int) (min, max float64, ok bool) {
	for _, row := range t.Rows {
		val, isNum := Number(row[col])
		if !isNum || math.IsNaN(val) {
			continue
		}
		if !ok {
			min, max, ok = val, val, true
			continue
		}
		if val < min {
			min = val
		} else if val > max {
			max = val
		}
	}
	return min, max, ok
}

// Samples groups the numeric column value by the formatted values of the
// column by. Categories appear in first seen order; missing or non
// numeric measurements are NaN.
func (t *Table) Samples(by, value int) ([]stat.Category, error) {
	if by < 0 || by >= len(t.Columns) || value < 0 || value >= len(t.Columns) {
		return nil, ErrNoColumn
	}
	if !t.Columns[value].Type.Numeric() {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotNumber, t.Columns[value].Name, t.Columns[value].Type)
	}

	var cats []stat.Category
	index := make(map[string]int)
	for _, row := range t.Rows {
		label := Format(row[by], t.Columns[by].Format)
		i, ok := index[label]
		if !ok {
			i = len(cats)
			index[label] = i
			cats = append(cats, stat.Category{Label: label})
		}
		v, ok := Number(row[value])
		if !ok {
			v = math.NaN()
		}
		cats[i].Values = append(cats[i].Values, v)
	}
	return cats, nil
}
