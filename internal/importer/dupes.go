package importer

import (
	"fmt"
	"strings"
	"time"
)

// LedgerEntry is the read-only projection of an existing ledger row used
// for duplicate checks: date, amount in cents, counterparty name.
type LedgerEntry struct {
	Date         time.Time
	AmountCents  int64
	Counterparty string
}

// DupeDetector flags rows that already exist in the ledger. Equivalence is
// exact on (date, amount, counterparty), never fuzzy, so two genuinely
// repeated charges in a month with different dates or amounts pass.
type DupeDetector struct {
	seen map[string]bool
}

// NewDupeDetector builds a detector over a snapshot of existing entries
// for the imported date range.
func NewDupeDetector(existing []LedgerEntry) *DupeDetector {
	d := &DupeDetector{seen: make(map[string]bool, len(existing))}
	for _, e := range existing {
		d.seen[dupeKey(e.Date, e.AmountCents, e.Counterparty)] = true
	}
	return d
}

// IsDuplicate reports whether an equivalent entry already exists.
func (d *DupeDetector) IsDuplicate(date time.Time, amountCents int64, counterparty string) bool {
	return d.seen[dupeKey(date, amountCents, counterparty)]
}

// Mark records an accepted row so a later identical row in the same file
// is flagged on its second occurrence.
func (d *DupeDetector) Mark(date time.Time, amountCents int64, counterparty string) {
	d.seen[dupeKey(date, amountCents, counterparty)] = true
}

func dupeKey(date time.Time, amountCents int64, counterparty string) string {
	return fmt.Sprintf("%s|%d|%s", date.Format("2006-01-02"), amountCents, strings.ToLower(strings.TrimSpace(counterparty)))
}
