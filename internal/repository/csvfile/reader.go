// Package csvfile reads the product catalog and forecast exports from CSV files.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// row maps upper-cased header names to cell values.
type row map[string]string

func (r row) get(col string) string {
	return strings.TrimSpace(r[col])
}

// readRows parses a headed CSV file. Header names are matched case-insensitively.
func readRows(path string, required ...string) ([]row, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	cols := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		cols[i] = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		present[cols[i]] = true
	}
	for _, c := range required {
		if !present[c] {
			return nil, fmt.Errorf("%s: missing column %s", path, c)
		}
	}

	var rows []row
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		rw := make(row, len(cols))
		for i, v := range rec {
			if i < len(cols) {
				rw[cols[i]] = v
			}
		}
		rows = append(rows, rw)
	}
	return rows, nil
}
