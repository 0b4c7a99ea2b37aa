package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jantonca/easytax-au-sub002/internal/fiscal"
	"github.com/jantonca/easytax-au-sub002/internal/ledger"
	"github.com/jantonca/easytax-au-sub002/internal/money"
)

func newSummaryCommand() *cobra.Command {
	var dir string
	var fy int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-quarter GST totals for a financial year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fy == 0 {
				fy = fiscal.AssignPeriod(time.Now()).Year
			}
			return runSummary(dir, fy)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "ledger root directory")
	cmd.Flags().IntVar(&fy, "fy", 0, "financial year, e.g. 2026 (default: current)")

	return cmd
}

// quarterTotals accumulates one quarter's cents.
type quarterTotals struct {
	incomeSubtotal int64
	gstCollected   int64
	expenseAmount  int64
	gstPaid        int64
}

func runSummary(dir string, fy int) error {
	svc := ledger.NewService(dir)

	expenses, err := svc.ReadExpenses(fy)
	if err != nil {
		return err
	}
	incomes, err := svc.ReadIncomes(fy)
	if err != nil {
		return err
	}

	totals := make(map[fiscal.Quarter]*quarterTotals)
	for _, q := range []fiscal.Quarter{fiscal.Q1, fiscal.Q2, fiscal.Q3, fiscal.Q4} {
		totals[q] = &quarterTotals{}
	}

	for _, e := range expenses {
		q := fiscal.AssignPeriod(e.Date).Quarter
		totals[q].expenseAmount += e.AmountCents
		// Only the business-use share of GST is claimable.
		totals[q].gstPaid += money.DeductibleGST(e.GSTCents, e.BusinessPct)
	}
	for _, in := range incomes {
		q := fiscal.AssignPeriod(in.Date).Quarter
		totals[q].incomeSubtotal += in.SubtotalCents
		totals[q].gstCollected += in.GSTCents
	}

	fmt.Printf("FY%d summary\n", fy)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Quarter", "Income", "GST Collected", "Expenses", "GST Paid", "Net GST"})
	table.SetBorder(false)

	var year quarterTotals
	for _, q := range []fiscal.Quarter{fiscal.Q1, fiscal.Q2, fiscal.Q3, fiscal.Q4} {
		t := totals[q]
		start, end := fiscal.QuarterRange(q, fy)
		table.Append([]string{
			fmt.Sprintf("%s (%s to %s)", q, start.Format("Jan 2006"), end.Format("Jan 2006")),
			money.FormatCents(t.incomeSubtotal),
			money.FormatCents(t.gstCollected),
			money.FormatCents(t.expenseAmount),
			money.FormatCents(t.gstPaid),
			money.FormatCents(t.gstCollected - t.gstPaid),
		})

		year.incomeSubtotal += t.incomeSubtotal
		year.gstCollected += t.gstCollected
		year.expenseAmount += t.expenseAmount
		year.gstPaid += t.gstPaid
	}
	table.Append([]string{
		"Total",
		money.FormatCents(year.incomeSubtotal),
		money.FormatCents(year.gstCollected),
		money.FormatCents(year.expenseAmount),
		money.FormatCents(year.gstPaid),
		money.FormatCents(year.gstCollected - year.gstPaid),
	})
	table.Render()
	return nil
}
