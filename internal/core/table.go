package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// RawTable is one parsed CSV file: ordered headers, one cell slice per
// header, and the CSV line number of every data row.
type RawTable struct {
	Headers []string
	Columns [][]string
	Lines   []int
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Lines)
}

var errEmptyFile = errors.New("empty file: no header row")

// ReadTable parses delimited text with a header row into a RawTable.
// Short rows are padded with empty cells; fully empty rows are skipped.
// A row carrying values beyond the last header is rejected as malformed.
func ReadTable(r io.Reader, enc Encoding) (*RawTable, error) {
	data, err := io.ReadAll(WrapForReading(r, enc))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, errInvalidEncoding
	}

	cr := csv.NewReader(strings.NewReader(string(data)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	t := &RawTable{
		Headers: header,
		Columns: make([][]string, len(header)),
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if allBlank(record) {
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(record) > len(header) && !allBlank(record[len(header):]) {
			return nil, fmt.Errorf("invalid csv: line %d has %d fields, header has %d",
				line, len(record), len(header))
		}

		for i := range header {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			t.Columns[i] = append(t.Columns[i], cell)
		}
		t.Lines = append(t.Lines, line)
	}

	return t, nil
}

func allBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
