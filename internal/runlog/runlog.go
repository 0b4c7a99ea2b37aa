// Package runlog keeps an append-only CSV audit trail of import runs.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	File       string
	Kind       string
	TotalRows  int
	Success    int
	Failed     int
	Duplicates int
	DryRun     bool
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,file,kind,total_rows,success,failed,duplicates,dry_run"

const (
	numFields     = 9
	logFile       = "logs/import-log.csv"
	colTimestamp  = 0
	colRunID      = 1
	colFile       = 2
	colKind       = 3
	colTotalRows  = 4
	colSuccess    = 5
	colFailed     = 6
	colDuplicates = 7
	colDryRun     = 8
)

// Append adds an entry to <root>/logs/import-log.csv, creating the log
// with its header when new.
func Append(root string, e Entry) error {
	path := filepath.Join(root, logFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/import-log.csv.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFile] = e.File
	row[colKind] = e.Kind
	row[colTotalRows] = strconv.Itoa(e.TotalRows)
	row[colSuccess] = strconv.Itoa(e.Success)
	row[colFailed] = strconv.Itoa(e.Failed)
	row[colDuplicates] = strconv.Itoa(e.Duplicates)
	row[colDryRun] = strconv.FormatBool(e.DryRun)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	ints := make([]int, 4)
	for i, col := range []int{colTotalRows, colSuccess, colFailed, colDuplicates} {
		ints[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	dryRun, err := strconv.ParseBool(record[colDryRun])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing dry_run %q: %w", record[colDryRun], err)
	}

	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		File:       record[colFile],
		Kind:       record[colKind],
		TotalRows:  ints[0],
		Success:    ints[1],
		Failed:     ints[2],
		Duplicates: ints[3],
		DryRun:     dryRun,
	}, nil
}
