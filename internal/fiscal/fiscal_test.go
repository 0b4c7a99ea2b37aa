package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAssignPeriod_Boundaries(t *testing.T) {
	tests := []struct {
		in   time.Time
		year int
		q    Quarter
	}{
		{date(2025, time.June, 30), 2025, Q4},
		{date(2025, time.July, 1), 2026, Q1},
		{date(2025, time.September, 30), 2026, Q1},
		{date(2025, time.October, 1), 2026, Q2},
		{date(2025, time.December, 31), 2026, Q2},
		{date(2026, time.January, 1), 2026, Q3},
		{date(2026, time.January, 31), 2026, Q3},
		{date(2026, time.March, 31), 2026, Q3},
		{date(2026, time.April, 1), 2026, Q4},
		{date(2026, time.June, 30), 2026, Q4},
		{date(2026, time.July, 1), 2027, Q1},
	}
	for _, tt := range tests {
		p := AssignPeriod(tt.in)
		assert.Equal(t, tt.year, p.Year, "%s", tt.in.Format("2006-01-02"))
		assert.Equal(t, tt.q, p.Quarter, "%s", tt.in.Format("2006-01-02"))
	}
}

func TestQuarterRange(t *testing.T) {
	start, end := QuarterRange(Q1, 2026)
	assert.Equal(t, date(2025, time.July, 1), start)
	assert.Equal(t, date(2025, time.September, 30), end)

	start, end = QuarterRange(Q3, 2026)
	assert.Equal(t, date(2026, time.January, 1), start)
	assert.Equal(t, date(2026, time.March, 31), end)

	start, end = QuarterRange(Q4, 2026)
	assert.Equal(t, date(2026, time.April, 1), start)
	assert.Equal(t, date(2026, time.June, 30), end)
}

func TestYearRange(t *testing.T) {
	start, end := YearRange(2026)
	assert.Equal(t, date(2025, time.July, 1), start)
	assert.Equal(t, date(2026, time.June, 30), end)
}

func TestIsInRange_AgreesWithAssignPeriod(t *testing.T) {
	// Walk every day of two financial years.
	d := date(2024, time.July, 1)
	for d.Before(date(2026, time.July, 1)) {
		p := AssignPeriod(d)
		assert.True(t, IsInRange(d, p.Quarter, p.Year), "%s", d.Format("2006-01-02"))

		start, end := QuarterRange(p.Quarter, p.Year)
		assert.False(t, d.Before(start), "%s before %s", d.Format("2006-01-02"), start.Format("2006-01-02"))
		assert.False(t, d.After(end), "%s after %s", d.Format("2006-01-02"), end.Format("2006-01-02"))

		d = d.AddDate(0, 0, 1)
	}
}

func TestPeriodString(t *testing.T) {
	p := Period{Year: 2026, Quarter: Q3}
	assert.Equal(t, "FY2026 Q3", p.String())
}
