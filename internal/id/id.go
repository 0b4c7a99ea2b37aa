package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Record ID prefixes.
const (
	PrefixExpense = "EXP"
	PrefixIncome  = "INV"
	PrefixVendor  = "VND"
	PrefixClient  = "CLI"
)

// FormatRecordID returns a ledger record ID like "EXP-2026-001".
func FormatRecordID(prefix string, fiscalYear, seq int) string {
	return fmt.Sprintf("%s-%04d-%03d", prefix, fiscalYear, seq)
}

// ParseRecordID parses "EXP-2026-001" into prefix, fiscal year, and sequence.
func ParseRecordID(recordID string) (prefix string, fiscalYear, seq int, err error) {
	parts := strings.SplitN(recordID, "-", 3)
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid record ID format: %q", recordID)
	}

	fiscalYear, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year in record ID %q: %w", recordID, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sequence in record ID %q: %w", recordID, err)
	}

	return parts[0], fiscalYear, seq, nil
}

// FormatPartyID returns a counterparty ID like "VND-001".
func FormatPartyID(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// ParsePartyID parses "VND-001" into prefix and sequence.
func ParsePartyID(partyID string) (prefix string, seq int, err error) {
	parts := strings.SplitN(partyID, "-", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid counterparty ID format: %q", partyID)
	}

	seq, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid sequence in counterparty ID %q: %w", partyID, err)
	}

	return parts[0], seq, nil
}
