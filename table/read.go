package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Layouts recognised for time cells, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
}

// Open reads a CSV or XLSX file depending on its extension. XLSX files
// are read from their first sheet.
func Open(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, "")
	default:
		return nil, fmt.Errorf("table: unsupported file type %q", ext)
	}
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) && errors.Is(pe.Err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: line %d", ErrRaggedRow, pe.Line)
		}
		return nil, fmt.Errorf("table: reading csv: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX reads sheet of the workbook at path. An empty sheet name
// selects the first sheet. Missing trailing cells are treated as empty.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("table: opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("table: reading sheet %q: %w", sheet, err)
	}
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			if len(row) > width {
				return nil, fmt.Errorf("%w: row %d has %d cells, header has %d",
					ErrRaggedRow, i+1, len(row), width)
			}
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row
		}
	}
	return fromRecords(rows)
}

// fromRecords builds a table from a header record and data records,
// inferring one type per column.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrNoColumn)
	}

	header := records[0]
	t := &Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		t.Columns[i] = Column{Name: strings.TrimSpace(name), Type: inferType(records[1:], i)}
	}

	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = parseCell(strings.TrimSpace(cell), t.Columns[i].Type)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// inferType returns the narrowest type all non empty cells of column col
// parse as.
func inferType(records [][]string, col int) Type {
	candidates := []Type{Int, Float, Bool, Time}
	seen := false
	for _, rec := range records {
		if col >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[col])
		if cell == "" {
			continue
		}
		seen = true
		kept := candidates[:0]
		for _, typ := range candidates {
			if parseCell(cell, typ) != nil {
				kept = append(kept, typ)
			}
		}
		candidates = kept
		if len(candidates) == 0 {
			return String
		}
	}
	if !seen {
		return String
	}
	return candidates[0]
}

// parseCell converts cell to typ. Empty cells and cells that do not parse
// yield nil.
func parseCell(cell string, typ Type) any {
	if cell == "" {
		return nil
	}
	switch typ {
	case Int:
		if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return v
		}
	case Float:
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
	case Bool:
		if v, err := strconv.ParseBool(cell); err == nil {
			return v
		}
	case Time:
		for _, layout := range timeLayouts {
			if v, err := time.Parse(layout, cell); err == nil {
				return v
			}
		}
	case String:
		return cell
	}
	return nil
}
