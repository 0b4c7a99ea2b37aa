package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jantonca/easytax-au-sub002/internal/model"
	"github.com/jantonca/easytax-au-sub002/internal/money"
)

// NormalizedRow is the canonical row shape after parsing. AmountCents is
// the GST-inclusive amount for expenses and the GST-exclusive subtotal for
// incomes. All monetary fields are non-negative integer cents.
type NormalizedRow struct {
	Date         time.Time
	AmountCents  int64
	GSTCents     int64
	TotalCents   int64 // income only; zero when the source gave no total
	BusinessPct  int
	Counterparty string
	Description  string
	Category     string
	Reference    string // invoice number
	Warning      string // non-fatal, e.g. income subtotal/total mismatch
}

// dateFormats are tried in order when a mapping has no fixed date format.
// Day-first layouts come before month-first: source files are Australian.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02 Jan 2006",
}

// NormalizeRow parses one raw row under the active mapping. A failure is
// row-level: the caller records it and moves on.
func NormalizeRow(raw RawRow, m Mapping) (NormalizedRow, error) {
	if m.Kind == model.KindIncome {
		return normalizeIncome(raw, m)
	}
	return normalizeExpense(raw, m)
}

func normalizeExpense(raw RawRow, m Mapping) (NormalizedRow, error) {
	row := NormalizedRow{
		Description: raw.Cell(m.Column(RoleDescription)),
		Category:    raw.Cell(m.Column(RoleCategory)),
		Reference:   raw.Cell(m.Column(RoleInvoice)),
	}

	var err error
	row.Date, err = parseDate(raw.Cell(m.Column(RoleDate)), m.DateFormat)
	if err != nil {
		return NormalizedRow{}, err
	}

	// Bank exports sign debits negative; the ledger stores magnitudes.
	amount, err := money.ParseCents(raw.Cell(m.Column(RoleAmount)))
	if err != nil {
		return NormalizedRow{}, err
	}
	row.AmountCents = abs(amount)

	if cell := raw.Cell(m.Column(RoleGST)); m.Column(RoleGST) != "" && cell != "" {
		gst, err := money.ParseCents(cell)
		if err != nil {
			return NormalizedRow{}, err
		}
		row.GSTCents = abs(gst)
		if row.GSTCents > row.AmountCents {
			return NormalizedRow{}, fmt.Errorf("GST %s exceeds amount %s",
				money.FormatCents(row.GSTCents), money.FormatCents(row.AmountCents))
		}
	}

	row.BusinessPct, err = parsePercent(raw.Cell(m.Column(RoleBusinessPct)))
	if err != nil {
		return NormalizedRow{}, err
	}

	row.Counterparty = raw.Cell(m.Column(RoleCounterparty))
	if row.Counterparty == "" {
		row.Counterparty = row.Description
	}
	return row, nil
}

func normalizeIncome(raw RawRow, m Mapping) (NormalizedRow, error) {
	row := NormalizedRow{
		Counterparty: raw.Cell(m.Column(RoleCounterparty)),
		Description:  raw.Cell(m.Column(RoleDescription)),
		Reference:    raw.Cell(m.Column(RoleInvoice)),
		BusinessPct:  100,
	}
	if row.Counterparty == "" {
		return NormalizedRow{}, fmt.Errorf("missing client name")
	}

	var err error
	row.Date, err = parseDate(raw.Cell(m.Column(RoleDate)), m.DateFormat)
	if err != nil {
		return NormalizedRow{}, err
	}

	subtotalCell := raw.Cell(m.Column(RoleSubtotal))
	gstCell := raw.Cell(m.Column(RoleGST))
	totalCell := raw.Cell(m.Column(RoleTotal))

	if subtotalCell != "" && gstCell != "" {
		if row.AmountCents, err = parseNonNegative(subtotalCell); err != nil {
			return NormalizedRow{}, err
		}
		if row.GSTCents, err = parseNonNegative(gstCell); err != nil {
			return NormalizedRow{}, err
		}
		if totalCell != "" {
			if row.TotalCents, err = parseNonNegative(totalCell); err != nil {
				return NormalizedRow{}, err
			}
			// Explicit subtotal and GST win over a disagreeing total.
			if row.AmountCents+row.GSTCents != row.TotalCents {
				row.Warning = fmt.Sprintf("subtotal %s + GST %s does not equal total %s",
					money.FormatCents(row.AmountCents), money.FormatCents(row.GSTCents),
					money.FormatCents(row.TotalCents))
			}
		}
		return row, nil
	}

	if totalCell == "" {
		return NormalizedRow{}, fmt.Errorf("need subtotal and GST, or a total")
	}
	if row.TotalCents, err = parseNonNegative(totalCell); err != nil {
		return NormalizedRow{}, err
	}
	row.GSTCents = money.GSTFromTotal(row.TotalCents)
	row.AmountCents = money.SubtotalFromTotal(row.TotalCents)
	return row, nil
}

func parseDate(s, layout string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if layout != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
		}
		return t, nil
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parsePercent parses a business-use percentage like "50" or "50%".
// An empty cell defaults to fully business use.
func parsePercent(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 100, nil
	}
	pct, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing business percent %q: %w", s, err)
	}
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("business percent %d outside [0,100]", pct)
	}
	return pct, nil
}

func parseNonNegative(cell string) (int64, error) {
	cents, err := money.ParseCents(cell)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, fmt.Errorf("negative amount %s", money.FormatCents(cents))
	}
	return cents, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
