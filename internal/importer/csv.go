package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// RawRow is one data row of the source file: cell text keyed by header.
// Num is 1-based and matches the source file with the header excluded.
type RawRow struct {
	Num   int
	Cells map[string]string
}

// Cell returns the trimmed cell under a header, or "".
func (r RawRow) Cell(header string) string {
	return strings.TrimSpace(r.Cells[header])
}

// RawFile is a parsed source file: trimmed headers plus data rows.
type RawFile struct {
	Headers []string
	Rows    []RawRow
}

// ParseCSV reads file bytes into headers and raw rows. The delimiter is
// sniffed from the header line (comma, tab, or semicolon) and a UTF-8 BOM
// is stripped. A file without a header line is a file-level error.
func ParseCSV(data []byte) (*RawFile, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header line")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	file := &RawFile{Headers: headers}
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		cells := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				cells[h] = rec[i]
			}
		}
		// Row numbers count source data rows, so skipped blanks still advance.
		file.Rows = append(file.Rows, RawRow{Num: n + 1, Cells: cells})
	}
	return file, nil
}

// sniffDelimiter picks the delimiter with the most occurrences on the
// first line. Comma wins ties.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, count := ',', bytes.Count(line, []byte(","))
	if n := bytes.Count(line, []byte("\t")); n > count {
		best, count = '\t', n
	}
	if n := bytes.Count(line, []byte(";")); n > count {
		best = ';'
	}
	return best
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
