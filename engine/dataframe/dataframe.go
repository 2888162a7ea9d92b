package dataframe

import (
	"fmt"
	"strings"
)

// Record is a single row, a map from column name to value.
type Record map[string]any

// DataFrame is an in-memory table with a stable column order. It is
// immutable after construction; loaders build one per load.
type DataFrame struct {
	columns []string
	records []Record
}

// New builds a DataFrame from an explicit column order and records.
// Columns absent from the list but present in records are appended in
// first-seen order.
func New(columns []string, records []Record) *DataFrame {
	cols := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, rec := range records {
		for c := range rec {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return &DataFrame{columns: cols, records: records}
}

// FromRecords builds a DataFrame inferring column order from the
// records themselves.
func FromRecords(records []Record) *DataFrame {
	return New(nil, records)
}

// FromRows builds a DataFrame from a header row and string cells, the
// shape produced by CSV-like parsers. Missing cells become nil.
func FromRows(header []string, rows [][]string) *DataFrame {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = nil
			}
		}
		records = append(records, rec)
	}
	return New(header, records)
}

func (d *DataFrame) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

func (d *DataFrame) NumRows() int {
	return len(d.records)
}

func (d *DataFrame) NumColumns() int {
	return len(d.columns)
}

func (d *DataFrame) HasColumn(name string) bool {
	for _, c := range d.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order. Unknown
// columns yield an error rather than a silent all-nil slice.
func (d *DataFrame) Column(name string) ([]any, error) {
	if !d.HasColumn(name) {
		return nil, fmt.Errorf("unknown column %q (have: %s)", name, strings.Join(d.columns, ", "))
	}
	out := make([]any, len(d.records))
	for i, rec := range d.records {
		out[i] = rec[name]
	}
	return out, nil
}

// Records returns the underlying rows. Callers must not mutate them.
func (d *DataFrame) Records() []Record {
	return d.records
}
