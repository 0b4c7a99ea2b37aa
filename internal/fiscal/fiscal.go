// Package fiscal maps calendar dates onto the Australian financial year,
// which runs 1 July to 30 June and is labeled by the calendar year it ends in.
package fiscal

import (
	"fmt"
	"time"
)

// Quarter is one of the four fixed BAS quarters.
type Quarter int

const (
	Q1 Quarter = iota + 1 // Jul-Sep
	Q2                    // Oct-Dec
	Q3                    // Jan-Mar
	Q4                    // Apr-Jun
)

func (q Quarter) String() string {
	return fmt.Sprintf("Q%d", int(q))
}

// Period is a quarter within a financial year.
type Period struct {
	Year    int // financial year label, e.g. 2026 for 1 Jul 2025 - 30 Jun 2026
	Quarter Quarter
}

func (p Period) String() string {
	return fmt.Sprintf("FY%d %s", p.Year, p.Quarter)
}

// AssignPeriod returns the financial year and quarter containing a date.
// 30 June belongs to the ending year, 1 July starts the next one.
func AssignPeriod(date time.Time) Period {
	year := date.Year()
	month := date.Month()

	p := Period{Year: year}
	switch {
	case month >= time.July && month <= time.September:
		p.Year = year + 1
		p.Quarter = Q1
	case month >= time.October:
		p.Year = year + 1
		p.Quarter = Q2
	case month <= time.March:
		p.Quarter = Q3
	default:
		p.Quarter = Q4
	}
	return p
}

// QuarterRange returns the inclusive first and last calendar dates of a
// quarter in a financial year.
func QuarterRange(q Quarter, fiscalYear int) (start, end time.Time) {
	var startMonth time.Month
	year := fiscalYear
	switch q {
	case Q1:
		startMonth = time.July
		year = fiscalYear - 1
	case Q2:
		startMonth = time.October
		year = fiscalYear - 1
	case Q3:
		startMonth = time.January
	default:
		startMonth = time.April
	}
	start = time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 3, -1)
	return start, end
}

// YearRange returns the inclusive first and last calendar dates of a
// financial year: 1 July to 30 June.
func YearRange(fiscalYear int) (start, end time.Time) {
	start = time.Date(fiscalYear-1, time.July, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(fiscalYear, time.June, 30, 0, 0, 0, 0, time.UTC)
	return start, end
}

// IsInRange reports whether a date falls inside a quarter of a financial
// year. Agrees with AssignPeriod for every date.
func IsInRange(date time.Time, q Quarter, fiscalYear int) bool {
	p := AssignPeriod(date)
	return p.Year == fiscalYear && p.Quarter == q
}
