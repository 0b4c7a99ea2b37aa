package model

import "time"

// RecordKind classifies a ledger record or an import file.
type RecordKind string

const (
	KindExpense RecordKind = "expense"
	KindIncome  RecordKind = "income"
	KindUnknown RecordKind = "unknown"
)

// Expense represents a row in expenses.csv. Monetary fields are integer
// cents; AmountCents is the GST-inclusive amount paid.
type Expense struct {
	ID          string
	Date        time.Time
	Vendor      string
	Description string
	Category    string
	AmountCents int64
	GSTCents    int64
	BusinessPct int // 0-100, share of the amount that is business use
	Reference   string
}

// Income represents a row in incomes.csv. SubtotalCents is GST-exclusive;
// TotalCents is zero when the source only supplied subtotal and GST.
type Income struct {
	ID            string
	Date          time.Time
	Client        string
	InvoiceNumber string
	Description   string
	SubtotalCents int64
	GSTCents      int64
	TotalCents    int64
	Paid          bool
}
