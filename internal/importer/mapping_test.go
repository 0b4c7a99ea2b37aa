package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantonca/easytax-au-sub002/internal/model"
)

func TestResolveMapping_Template(t *testing.T) {
	m, err := ResolveMapping(model.KindExpense, "anz", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, m.Kind)
	assert.Equal(t, "Date", m.Column(RoleDate))
	assert.Equal(t, "02/01/2006", m.DateFormat)
}

func TestResolveMapping_TemplateCaseInsensitive(t *testing.T) {
	m, err := ResolveMapping(model.KindExpense, "ANZ", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Amount", m.Column(RoleAmount))
}

func TestResolveMapping_UnknownTemplate(t *testing.T) {
	_, err := ResolveMapping(model.KindExpense, "narnia-bank", nil, nil)
	require.Error(t, err)

	var invalid *InvalidMappingError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "narnia-bank", invalid.Template)
	assert.Contains(t, err.Error(), "narnia-bank")
}

func TestResolveMapping_ExplicitWinsOverTemplate(t *testing.T) {
	explicit := &Mapping{
		Kind: model.KindExpense,
		Columns: map[Role]string{
			RoleDate:         "When",
			RoleAmount:       "How Much",
			RoleCounterparty: "Who",
		},
	}
	m, err := ResolveMapping(model.KindExpense, "anz", explicit, nil)
	require.NoError(t, err)
	assert.Equal(t, "When", m.Column(RoleDate))
}

func TestResolveMapping_MissingRoles(t *testing.T) {
	explicit := &Mapping{
		Kind:    model.KindExpense,
		Columns: map[Role]string{RoleCategory: "Category"},
	}
	_, err := ResolveMapping(model.KindExpense, "", explicit, nil)
	require.Error(t, err)

	var invalid *InvalidMappingError
	require.ErrorAs(t, err, &invalid)
	assert.ElementsMatch(t, []Role{RoleDate, RoleAmount, RoleCounterparty}, invalid.Missing)
}

func TestValidate_IncomeRequiresSplitOrTotal(t *testing.T) {
	base := map[Role]string{RoleDate: "Date", RoleCounterparty: "Client"}

	m := Mapping{Kind: model.KindIncome, Columns: base}
	assert.Error(t, m.Validate(), "neither split nor total")

	withTotal := Mapping{Kind: model.KindIncome, Columns: map[Role]string{
		RoleDate: "Date", RoleCounterparty: "Client", RoleTotal: "Total",
	}}
	assert.NoError(t, withTotal.Validate())

	withSplit := Mapping{Kind: model.KindIncome, Columns: map[Role]string{
		RoleDate: "Date", RoleCounterparty: "Client", RoleSubtotal: "Subtotal", RoleGST: "GST",
	}}
	assert.NoError(t, withSplit.Validate())

	// Subtotal without GST does not satisfy the split requirement.
	halfSplit := Mapping{Kind: model.KindIncome, Columns: map[Role]string{
		RoleDate: "Date", RoleCounterparty: "Client", RoleSubtotal: "Subtotal",
	}}
	assert.Error(t, halfSplit.Validate())
}

func TestAutoMapping_ExpenseHeaders(t *testing.T) {
	headers := []string{"Date", "Item", "Total", "GST", "Biz%", "Category"}
	m := AutoMapping(model.KindExpense, headers)

	assert.Equal(t, "Date", m.Column(RoleDate))
	assert.Equal(t, "Item", m.Column(RoleCounterparty))
	assert.Equal(t, "Total", m.Column(RoleAmount))
	assert.Equal(t, "GST", m.Column(RoleGST))
	assert.Equal(t, "Biz%", m.Column(RoleBusinessPct))
	assert.Equal(t, "Category", m.Column(RoleCategory))
	require.NoError(t, m.Validate())
}

func TestAutoMapping_IncomeHeaders(t *testing.T) {
	headers := []string{"Client", "Invoice", "Subtotal", "GST", "Total", "Date"}
	m := AutoMapping(model.KindIncome, headers)

	assert.Equal(t, "Client", m.Column(RoleCounterparty))
	assert.Equal(t, "Invoice", m.Column(RoleInvoice))
	assert.Equal(t, "Subtotal", m.Column(RoleSubtotal))
	assert.Equal(t, "GST", m.Column(RoleGST))
	assert.Equal(t, "Total", m.Column(RoleTotal))
	require.NoError(t, m.Validate())
}

func TestAutoMapping_BankHeaders(t *testing.T) {
	headers := []string{"Date", "Description", "Amount", "Balance"}
	m := AutoMapping(model.KindExpense, headers)

	assert.Equal(t, "Amount", m.Column(RoleAmount))
	assert.Equal(t, "Description", m.Column(RoleDescription))
	assert.Empty(t, m.Column(RoleCounterparty))
	require.NoError(t, m.Validate(), "description stands in for counterparty")
}

func TestTemplateNames(t *testing.T) {
	names := TemplateNames()
	assert.Contains(t, names, "anz")
	assert.Contains(t, names, "commbank")
	assert.Contains(t, names, "amex")
	assert.Contains(t, names, "wave")
	assert.IsIncreasing(t, names)
}
