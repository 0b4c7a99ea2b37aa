package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDupeDetector_ExistingEntry(t *testing.T) {
	day := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	d := NewDupeDetector([]LedgerEntry{
		{Date: day, AmountCents: 1100, Counterparty: "GitHub"},
	})

	assert.True(t, d.IsDuplicate(day, 1100, "GitHub"))
	assert.True(t, d.IsDuplicate(day, 1100, "github"), "counterparty compare is case-insensitive")
	assert.False(t, d.IsDuplicate(day, 1101, "GitHub"), "amount must match exactly")
	assert.False(t, d.IsDuplicate(day.AddDate(0, 0, 1), 1100, "GitHub"), "date must match exactly")
	assert.False(t, d.IsDuplicate(day, 1100, "GitLab"))
}

func TestDupeDetector_MarkFlagsSecondOccurrence(t *testing.T) {
	day := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	d := NewDupeDetector(nil)

	assert.False(t, d.IsDuplicate(day, 1100, "GitHub"))
	d.Mark(day, 1100, "GitHub")
	assert.True(t, d.IsDuplicate(day, 1100, "GitHub"))
}

func TestDupeDetector_RepeatedLegitimateCharges(t *testing.T) {
	// Two identical subscription charges on different days are not dupes.
	d := NewDupeDetector([]LedgerEntry{
		{Date: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), AmountCents: 400, Counterparty: "GitHub"},
	})
	assert.False(t, d.IsDuplicate(time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC), 400, "GitHub"))
}
