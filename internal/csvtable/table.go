// Package csvtable decodes the pipe-delimited CSV extracts served by the
// feed server into in-memory tables.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// numericColumns are the only columns that receive numeric normalization:
// decimal commas become dots, and cells that still fail to parse degrade to
// zero instead of failing the load.
var numericColumns = map[string]bool{
	"qty":         true,
	"total_price": true,
}

// Table is an ordered set of rows sharing the header schema of one decoded
// file. Rows are immutable after Decode.
type Table struct {
	header []string
	index  map[string]int // column name -> position
	rows   [][]string
	nums   map[string][]decimal.Decimal // normalized values per numeric column
}

// Decode parses pipe-delimited text with a header row. Text cells are
// trimmed; qty/total_price cells are normalized and pre-parsed as decimals.
// A payload without a usable header or with ragged rows is a decode error;
// callers treat that the same as a missing file.
func Decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited payload: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty payload, no header row")
	}

	t := &Table{
		header: make([]string, len(records[0])),
		index:  make(map[string]int, len(records[0])),
		nums:   make(map[string][]decimal.Decimal),
	}
	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		t.header[i] = name
		t.index[name] = i
	}

	t.rows = make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(rec))
		for i, cell := range rec {
			row[i] = strings.TrimSpace(cell)
		}
		t.rows = append(t.rows, row)
	}

	for _, name := range t.header {
		if !numericColumns[name] {
			continue
		}
		col := t.index[name]
		vals := make([]decimal.Decimal, len(t.rows))
		for i, row := range t.rows {
			vals[i] = normalizeDecimal(row[col])
		}
		t.nums[name] = vals
	}
	return t, nil
}

// normalizeDecimal applies the locale fix-up (decimal comma to dot) and
// coerces malformed cells to zero. The row itself is kept either way.
func normalizeDecimal(raw string) decimal.Decimal {
	raw = strings.ReplaceAll(raw, ",", ".")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Header returns the declared column names in file order.
func (t *Table) Header() []string { return t.header }

// HasColumn reports whether the header declares the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the trimmed text value of the named column in row i, or ""
// when the column is absent.
func (t *Table) Cell(i int, name string) string {
	col, ok := t.index[name]
	if !ok || col >= len(t.rows[i]) {
		return ""
	}
	return t.rows[i][col]
}

// Decimal returns the normalized numeric value of a qty/total_price column
// in row i. Non-numeric columns read as zero.
func (t *Table) Decimal(i int, name string) decimal.Decimal {
	vals, ok := t.nums[name]
	if !ok {
		return decimal.Zero
	}
	return vals[i]
}
