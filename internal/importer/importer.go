// Package importer implements the CSV import and reconciliation engine:
// format detection, column mapping, row normalization, counterparty
// matching, duplicate detection, and the per-row commit loop.
package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jantonca/easytax-au-sub002/internal/fiscal"
	"github.com/jantonca/easytax-au-sub002/internal/model"
)

// CounterpartyReader lists known counterparties of one kind.
type CounterpartyReader interface {
	ListCounterparties(kind model.CounterpartyKind) ([]model.Counterparty, error)
}

// CounterpartyWriter creates a counterparty and returns it with its ID.
type CounterpartyWriter interface {
	CreateCounterparty(kind model.CounterpartyKind, name string) (model.Counterparty, error)
}

// LedgerReader returns existing ledger entries in a date range, projected
// for duplicate checking.
type LedgerReader interface {
	EntriesInRange(kind model.RecordKind, from, to time.Time) ([]LedgerEntry, error)
}

// LedgerWriter appends accepted records to the ledger.
type LedgerWriter interface {
	CreateExpense(e model.Expense) (string, error)
	CreateIncome(in model.Income) (string, error)
}

// Options controls one import run. Zero values mean: detect the kind from
// headers, derive the mapping from headers, default threshold, keep
// duplicates out, commit writes.
type Options struct {
	Kind           model.RecordKind
	Template       string
	Mapping        *Mapping
	MatchThreshold float64
	SkipDuplicates bool
	DryRun         bool
	MarkAsPaid     bool // income only, applied to all accepted rows
}

// DefaultOptions returns the documented defaults for an import run.
func DefaultOptions() Options {
	return Options{
		MatchThreshold: DefaultMatchThreshold,
		SkipDuplicates: true,
	}
}

// RowOutcome is one row's final result. Immutable once the report is
// assembled; row numbers are 1-based with the header excluded.
type RowOutcome struct {
	Row          int     `json:"row"`
	Success      bool    `json:"success"`
	Duplicate    bool    `json:"duplicate,omitempty"`
	Error        string  `json:"error,omitempty"`
	Warning      string  `json:"warning,omitempty"`
	Counterparty string  `json:"counterparty,omitempty"`
	MatchScore   float64 `json:"matchScore,omitempty"`
	AmountCents  int64   `json:"amountCents"`
	GSTCents     int64   `json:"gstCents"`
	Period       string  `json:"period,omitempty"`
	RecordID     string  `json:"recordId,omitempty"`
}

// Report aggregates one run. It is the sole artifact handed back: in a
// committing run, ledger writes for accepted rows happen before it is
// returned.
type Report struct {
	RunID          string           `json:"runId"`
	Kind           model.RecordKind `json:"kind"`
	DryRun         bool             `json:"dryRun"`
	TotalRows      int              `json:"totalRows"`
	SuccessCount   int              `json:"successCount"`
	FailedCount    int              `json:"failedCount"`
	DuplicateCount int              `json:"duplicateCount"`
	WarningCount   int              `json:"warningCount,omitempty"`
	AmountCents    int64            `json:"amountCents"`
	GSTCents       int64            `json:"gstCents"`
	ElapsedMS      int64            `json:"elapsedMs"`
	Rows           []RowOutcome     `json:"rows"`
}

// Importer drives the end-to-end pipeline for one file. The collaborators
// are plain interfaces: storage technology is the caller's concern.
type Importer struct {
	parties      CounterpartyReader
	partyWriter  CounterpartyWriter
	ledger       LedgerReader
	ledgerWriter LedgerWriter
}

// New creates an Importer over ledger and counterparty collaborators.
func New(parties CounterpartyReader, partyWriter CounterpartyWriter, ledger LedgerReader, ledgerWriter LedgerWriter) *Importer {
	return &Importer{
		parties:      parties,
		partyWriter:  partyWriter,
		ledger:       ledger,
		ledgerWriter: ledgerWriter,
	}
}

// rowState carries a row between the normalization and commit phases.
type rowState struct {
	raw  RawRow
	norm NormalizedRow
	err  error
}

// Run executes one import. File-level failures (malformed file, unknown
// template, invalid mapping, snapshot load errors) return an error and no
// report. Row-level failures are isolated to their RowOutcome: one bad row
// never aborts the run, and a committed row is never rolled back.
func (imp *Importer) Run(data []byte, opts Options) (*Report, error) {
	start := time.Now()

	file, err := ParseCSV(data)
	if err != nil {
		return nil, err
	}

	kind := opts.Kind
	if kind == "" || kind == model.KindUnknown {
		kind = DetectCSVType(file.Headers)
		if kind == model.KindUnknown {
			return nil, fmt.Errorf("could not detect record kind from headers; supply a kind, template, or mapping")
		}
	}
	if opts.Mapping != nil && opts.Mapping.Kind != "" {
		kind = opts.Mapping.Kind
	}

	mapping, err := ResolveMapping(kind, opts.Template, opts.Mapping, file.Headers)
	if err != nil {
		return nil, err
	}

	// Phase 1: normalize every row and establish the imported date range.
	states := make([]rowState, len(file.Rows))
	var minDate, maxDate time.Time
	for i, raw := range file.Rows {
		norm, err := NormalizeRow(raw, mapping)
		states[i] = rowState{raw: raw, norm: norm, err: err}
		if err != nil {
			continue
		}
		if minDate.IsZero() || norm.Date.Before(minDate) {
			minDate = norm.Date
		}
		if maxDate.IsZero() || norm.Date.After(maxDate) {
			maxDate = norm.Date
		}
	}

	partyKind := model.KindVendor
	if kind == model.KindIncome {
		partyKind = model.KindClient
	}
	known, err := imp.parties.ListCounterparties(partyKind)
	if err != nil {
		return nil, fmt.Errorf("loading counterparties: %w", err)
	}
	matcher := NewMatcher(known, opts.MatchThreshold)

	var existing []LedgerEntry
	if !minDate.IsZero() {
		existing, err = imp.ledger.EntriesInRange(kind, minDate, maxDate)
		if err != nil {
			return nil, fmt.Errorf("loading ledger entries: %w", err)
		}
	}
	dupes := NewDupeDetector(existing)

	report := &Report{
		RunID:  uuid.NewString(),
		Kind:   kind,
		DryRun: opts.DryRun,
	}

	// Phase 2: match, duplicate-check, and commit rows in file order.
	// Counterparties created this run are cached so two rows naming the
	// same new party share one record.
	created := make(map[string]model.Counterparty)
	for _, st := range states {
		outcome := imp.processRow(st, kind, opts, matcher, dupes, created)
		report.Rows = append(report.Rows, outcome)

		report.TotalRows++
		switch {
		case outcome.Success:
			report.SuccessCount++
			report.AmountCents += outcome.AmountCents
			report.GSTCents += outcome.GSTCents
		case outcome.Duplicate:
			report.DuplicateCount++
		default:
			report.FailedCount++
		}
		if outcome.Warning != "" {
			report.WarningCount++
		}
	}

	report.ElapsedMS = time.Since(start).Milliseconds()
	return report, nil
}

func (imp *Importer) processRow(st rowState, kind model.RecordKind, opts Options, matcher *Matcher, dupes *DupeDetector, created map[string]model.Counterparty) RowOutcome {
	outcome := RowOutcome{Row: st.raw.Num}
	if st.err != nil {
		outcome.Error = st.err.Error()
		return outcome
	}

	norm := st.norm
	outcome.AmountCents = norm.AmountCents
	outcome.GSTCents = norm.GSTCents
	outcome.Warning = norm.Warning
	outcome.Period = fiscal.AssignPeriod(norm.Date).String()

	match := matcher.Match(norm.Counterparty)
	partyName := norm.Counterparty
	if match.Matched() {
		partyName = match.Counterparty.Name
		outcome.Counterparty = partyName
		outcome.MatchScore = match.Score
	} else {
		outcome.Counterparty = partyName
	}

	if opts.SkipDuplicates {
		if dupes.IsDuplicate(norm.Date, norm.AmountCents, partyName) {
			outcome.Duplicate = true
			return outcome
		}
	}
	dupes.Mark(norm.Date, norm.AmountCents, partyName)

	if !opts.DryRun {
		recordID, err := imp.commitRow(norm, match, partyName, kind, opts.MarkAsPaid, created)
		if err != nil {
			outcome.Error = err.Error()
			return outcome
		}
		outcome.RecordID = recordID
	}

	outcome.Success = true
	return outcome
}

// commitRow issues the counterparty create (when the matcher found none)
// and exactly one ledger create for an accepted row.
func (imp *Importer) commitRow(norm NormalizedRow, match MatchResult, partyName string, kind model.RecordKind, markAsPaid bool, created map[string]model.Counterparty) (string, error) {
	partyKind := model.KindVendor
	if kind == model.KindIncome {
		partyKind = model.KindClient
	}

	if !match.Matched() {
		key := normalizeName(partyName)
		if party, ok := created[key]; ok {
			partyName = party.Name
		} else {
			party, err := imp.partyWriter.CreateCounterparty(partyKind, partyName)
			if err != nil {
				return "", fmt.Errorf("creating %s %q: %w", partyKind, partyName, err)
			}
			created[key] = party
		}
	}

	if kind == model.KindIncome {
		return imp.ledgerWriter.CreateIncome(model.Income{
			Date:          norm.Date,
			Client:        partyName,
			InvoiceNumber: norm.Reference,
			Description:   norm.Description,
			SubtotalCents: norm.AmountCents,
			GSTCents:      norm.GSTCents,
			TotalCents:    norm.TotalCents,
			Paid:          markAsPaid,
		})
	}
	return imp.ledgerWriter.CreateExpense(model.Expense{
		Date:        norm.Date,
		Vendor:      partyName,
		Description: norm.Description,
		Category:    norm.Category,
		AmountCents: norm.AmountCents,
		GSTCents:    norm.GSTCents,
		BusinessPct: norm.BusinessPct,
		Reference:   norm.Reference,
	})
}
