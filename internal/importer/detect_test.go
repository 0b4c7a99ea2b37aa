package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jantonca/easytax-au-sub002/internal/model"
)

func TestDetectCSVType(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    model.RecordKind
	}{
		{"empty", []string{}, model.KindUnknown},
		{"single header", []string{"date"}, model.KindUnknown},
		{"bank export", []string{"Date", "Description", "Amount"}, model.KindExpense},
		{"bank export with debit", []string{"Date", "Item", "Debit", "Credit"}, model.KindExpense},
		{"invoice export", []string{"Date", "Client", "Subtotal", "GST"}, model.KindIncome},
		{"client with invoice", []string{"Client", "Invoice", "Amount Due"}, model.KindIncome},
		{"client with total", []string{"Date", "Client", "Total"}, model.KindIncome},
		{"subtotal and gst without client", []string{"Date", "Subtotal", "GST"}, model.KindIncome},
		{"unrelated", []string{"Foo", "Bar", "Baz"}, model.KindUnknown},
		{"date only pair", []string{"Date", "Balance"}, model.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCSVType(tt.headers))
		})
	}
}

func TestDetectCSVType_IncomeWinsOverExpense(t *testing.T) {
	// An export with both client and description signals is income: the
	// income rules are checked first.
	headers := []string{"Date", "Client", "Description", "Total"}
	assert.Equal(t, model.KindIncome, DetectCSVType(headers))
}

func TestDetectCSVType_CaseAndWhitespace(t *testing.T) {
	headers := []string{" DATE ", "DESCRIPTION", "amount"}
	assert.Equal(t, model.KindExpense, DetectCSVType(headers))
}
