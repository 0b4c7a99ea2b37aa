package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jantonca/easytax-au-sub002/internal/model"
)

const dateFormat = "2006-01-02"

// ExpensesHeader is the CSV header for expenses.csv.
const ExpensesHeader = "id,date,vendor,description,category,amount_cents,gst_cents,business_pct,reference"

const (
	expNumFields = 9
	expColID     = 0
	expColDate   = 1
	expColVendor = 2
	expColDesc   = 3
	expColCat    = 4
	expColAmount = 5
	expColGST    = 6
	expColPct    = 7
	expColRef    = 8
)

// IncomesHeader is the CSV header for incomes.csv.
const IncomesHeader = "id,date,client,invoice,description,subtotal_cents,gst_cents,total_cents,paid"

const (
	incNumFields   = 9
	incColID       = 0
	incColDate     = 1
	incColClient   = 2
	incColInvoice  = 3
	incColDesc     = 4
	incColSubtotal = 5
	incColGST      = 6
	incColTotal    = 7
	incColPaid     = 8
)

// ReadExpenses reads all rows from an expenses.csv reader.
func ReadExpenses(r io.Reader) ([]model.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = expNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expenses CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var expenses []model.Expense
	for i, rec := range records[1:] {
		e, err := UnmarshalExpense(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// ReadIncomes reads all rows from an incomes.csv reader.
func ReadIncomes(r io.Reader) ([]model.Income, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = incNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading incomes CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var incomes []model.Income
	for i, rec := range records[1:] {
		in, err := UnmarshalIncome(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		incomes = append(incomes, in)
	}
	return incomes, nil
}

// MarshalExpense converts an Expense to a CSV row.
func MarshalExpense(e model.Expense) []string {
	row := make([]string, expNumFields)
	row[expColID] = e.ID
	row[expColDate] = e.Date.Format(dateFormat)
	row[expColVendor] = e.Vendor
	row[expColDesc] = e.Description
	row[expColCat] = e.Category
	row[expColAmount] = strconv.FormatInt(e.AmountCents, 10)
	row[expColGST] = strconv.FormatInt(e.GSTCents, 10)
	row[expColPct] = strconv.Itoa(e.BusinessPct)
	row[expColRef] = e.Reference
	return row
}

// UnmarshalExpense converts a CSV row to an Expense.
func UnmarshalExpense(record []string) (model.Expense, error) {
	if len(record) != expNumFields {
		return model.Expense{}, fmt.Errorf("expected %d fields, got %d", expNumFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[expColDate])
	if err != nil {
		return model.Expense{}, fmt.Errorf("parsing date %q: %w", record[expColDate], err)
	}
	amount, err := strconv.ParseInt(record[expColAmount], 10, 64)
	if err != nil {
		return model.Expense{}, fmt.Errorf("parsing amount_cents %q: %w", record[expColAmount], err)
	}
	gst, err := strconv.ParseInt(record[expColGST], 10, 64)
	if err != nil {
		return model.Expense{}, fmt.Errorf("parsing gst_cents %q: %w", record[expColGST], err)
	}
	pct, err := strconv.Atoi(record[expColPct])
	if err != nil {
		return model.Expense{}, fmt.Errorf("parsing business_pct %q: %w", record[expColPct], err)
	}

	return model.Expense{
		ID:          record[expColID],
		Date:        date,
		Vendor:      record[expColVendor],
		Description: record[expColDesc],
		Category:    record[expColCat],
		AmountCents: amount,
		GSTCents:    gst,
		BusinessPct: pct,
		Reference:   record[expColRef],
	}, nil
}

// MarshalIncome converts an Income to a CSV row.
func MarshalIncome(in model.Income) []string {
	row := make([]string, incNumFields)
	row[incColID] = in.ID
	row[incColDate] = in.Date.Format(dateFormat)
	row[incColClient] = in.Client
	row[incColInvoice] = in.InvoiceNumber
	row[incColDesc] = in.Description
	row[incColSubtotal] = strconv.FormatInt(in.SubtotalCents, 10)
	row[incColGST] = strconv.FormatInt(in.GSTCents, 10)
	row[incColTotal] = strconv.FormatInt(in.TotalCents, 10)
	row[incColPaid] = strconv.FormatBool(in.Paid)
	return row
}

// UnmarshalIncome converts a CSV row to an Income.
func UnmarshalIncome(record []string) (model.Income, error) {
	if len(record) != incNumFields {
		return model.Income{}, fmt.Errorf("expected %d fields, got %d", incNumFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[incColDate])
	if err != nil {
		return model.Income{}, fmt.Errorf("parsing date %q: %w", record[incColDate], err)
	}
	subtotal, err := strconv.ParseInt(record[incColSubtotal], 10, 64)
	if err != nil {
		return model.Income{}, fmt.Errorf("parsing subtotal_cents %q: %w", record[incColSubtotal], err)
	}
	gst, err := strconv.ParseInt(record[incColGST], 10, 64)
	if err != nil {
		return model.Income{}, fmt.Errorf("parsing gst_cents %q: %w", record[incColGST], err)
	}
	total, err := strconv.ParseInt(record[incColTotal], 10, 64)
	if err != nil {
		return model.Income{}, fmt.Errorf("parsing total_cents %q: %w", record[incColTotal], err)
	}
	paid, err := strconv.ParseBool(record[incColPaid])
	if err != nil {
		return model.Income{}, fmt.Errorf("parsing paid %q: %w", record[incColPaid], err)
	}

	return model.Income{
		ID:            record[incColID],
		Date:          date,
		Client:        record[incColClient],
		InvoiceNumber: record[incColInvoice],
		Description:   record[incColDesc],
		SubtotalCents: subtotal,
		GSTCents:      gst,
		TotalCents:    total,
		Paid:          paid,
	}, nil
}
