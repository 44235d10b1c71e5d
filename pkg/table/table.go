// Package table reads the tab-delimited source tables of a dictionary build.
// It knows nothing about their meaning: rows come out as named fields (for
// tables with a header) or as raw field slices (for headerless tables).
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one data row of a table with a header, keyed by column name.
type Row map[string]string

// Get returns the value of column, or "" if the row has no such column.
func (r Row) Get(column string) string {
	return r[column]
}

// Table is a parsed tab-delimited table.
type Table struct {
	Columns []string
	Rows    []Row
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// Read parses a table whose first row names the columns. Rows shorter than
// the header leave the missing columns empty; extra fields are ignored.
func Read(r io.Reader) (*Table, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := &Table{Columns: columns}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if isBlank(record) {
			continue
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadPairsFile opens path and parses it with ReadPairs.
func ReadPairsFile(path string) ([][2]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	pairs, err := ReadPairs(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pairs, nil
}

// ReadPairs parses a headerless two-column table. Rows with a single field
// get an empty second value.
func ReadPairs(r io.Reader) ([][2]string, error) {
	reader := newReader(r)

	var pairs [][2]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if isBlank(record) {
			continue
		}

		var p [2]string
		p[0] = record[0]
		if len(record) > 1 {
			p[1] = record[1]
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1 // allow variable column count
	reader.LazyQuotes = true
	return reader
}

func isBlank(record []string) bool {
	for _, f := range record {
		if f != "" {
			return false
		}
	}
	return true
}
