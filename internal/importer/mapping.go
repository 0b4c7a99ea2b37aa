package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jantonca/easytax-au-sub002/internal/model"
)

// Role names a canonical field a source column can be bound to.
type Role string

const (
	RoleDate         Role = "date"
	RoleCounterparty Role = "counterparty" // vendor or client column
	RoleAmount       Role = "amount"       // expense: GST-inclusive amount
	RoleGST          Role = "gst"
	RoleSubtotal     Role = "subtotal" // income: GST-exclusive amount
	RoleTotal        Role = "total"    // income: GST-inclusive amount
	RoleBusinessPct  Role = "business_pct"
	RoleCategory     Role = "category"
	RoleDescription  Role = "description"
	RoleInvoice      Role = "invoice"
)

// Mapping binds roles to source column headers for one import run.
// DateFormat is a Go time layout; empty means try the common formats.
type Mapping struct {
	Kind       model.RecordKind
	Columns    map[Role]string
	DateFormat string
}

// Column returns the source header bound to a role, or "".
func (m Mapping) Column(role Role) string {
	return m.Columns[role]
}

// InvalidMappingError reports a mapping that cannot drive an import:
// an unknown template or missing required roles. Always file-level.
type InvalidMappingError struct {
	Template string
	Missing  []Role
}

func (e *InvalidMappingError) Error() string {
	if e.Template != "" && len(e.Missing) == 0 {
		return fmt.Sprintf("unknown template %q", e.Template)
	}
	names := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		names[i] = string(r)
	}
	return fmt.Sprintf("mapping missing required roles: %s", strings.Join(names, ", "))
}

// Validate checks the mapping carries every role its kind requires.
// Expense needs a date, an amount, and a counterparty or description source.
// Income needs a date, a client, and either subtotal+gst or a total.
func (m Mapping) Validate() error {
	var missing []Role

	if m.Column(RoleDate) == "" {
		missing = append(missing, RoleDate)
	}

	switch m.Kind {
	case model.KindIncome:
		if m.Column(RoleCounterparty) == "" {
			missing = append(missing, RoleCounterparty)
		}
		hasSplit := m.Column(RoleSubtotal) != "" && m.Column(RoleGST) != ""
		if !hasSplit && m.Column(RoleTotal) == "" {
			missing = append(missing, RoleTotal)
		}
	default:
		if m.Column(RoleAmount) == "" {
			missing = append(missing, RoleAmount)
		}
		if m.Column(RoleCounterparty) == "" && m.Column(RoleDescription) == "" {
			missing = append(missing, RoleCounterparty)
		}
	}

	if len(missing) > 0 {
		return &InvalidMappingError{Missing: missing}
	}
	return nil
}

// Built-in templates for known export layouts. Data, not logic: each is a
// fixed header vocabulary with the export's fixed date format.
var templates = map[string]Mapping{
	"anz": {
		Kind:       model.KindExpense,
		DateFormat: "02/01/2006",
		Columns: map[Role]string{
			RoleDate:        "Date",
			RoleDescription: "Description",
			RoleAmount:      "Amount",
		},
	},
	"commbank": {
		Kind:       model.KindExpense,
		DateFormat: "02/01/2006",
		Columns: map[Role]string{
			RoleDate:        "Date",
			RoleDescription: "Description",
			RoleAmount:      "Amount",
		},
	},
	"amex": {
		Kind:       model.KindExpense,
		DateFormat: "02/01/2006",
		Columns: map[Role]string{
			RoleDate:        "Date",
			RoleDescription: "Description",
			RoleAmount:      "Amount",
			RoleCategory:    "Category",
		},
	},
	"wave": {
		Kind:       model.KindIncome,
		DateFormat: "2006-01-02",
		Columns: map[Role]string{
			RoleDate:         "Invoice Date",
			RoleCounterparty: "Customer",
			RoleInvoice:      "Invoice Number",
			RoleSubtotal:     "Subtotal",
			RoleGST:          "Tax Amount",
			RoleTotal:        "Total",
		},
	},
}

// TemplateNames returns the built-in template names, sorted.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveMapping produces the validated mapping for a run. Precedence:
// an explicit mapping, then a named template, then a mapping derived from
// the file's own headers. Exactly one mapping is active per run.
func ResolveMapping(kind model.RecordKind, template string, explicit *Mapping, headers []string) (Mapping, error) {
	var m Mapping
	switch {
	case explicit != nil:
		m = *explicit
		if m.Kind == "" {
			m.Kind = kind
		}
	case template != "":
		t, ok := templates[strings.ToLower(template)]
		if !ok {
			return Mapping{}, &InvalidMappingError{Template: template}
		}
		m = t
	default:
		m = AutoMapping(kind, headers)
	}

	if err := m.Validate(); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

// roleVocabulary is the header vocabulary AutoMapping matches against,
// per record kind, in priority order. Earlier roles claim headers first.
type roleVocabulary []struct {
	role   Role
	tokens []string
}

var expenseVocabulary = roleVocabulary{
	{RoleDate, []string{"date"}},
	{RoleCounterparty, []string{"vendor", "merchant", "supplier", "payee", "item"}},
	{RoleGST, []string{"gst", "tax"}},
	{RoleAmount, []string{"amount", "total", "debit"}},
	{RoleBusinessPct, []string{"biz", "business"}},
	{RoleCategory, []string{"category"}},
	{RoleDescription, []string{"description", "details", "narrative"}},
	{RoleInvoice, []string{"invoice", "reference"}},
}

var incomeVocabulary = roleVocabulary{
	{RoleDate, []string{"date"}},
	{RoleCounterparty, []string{"client", "customer"}},
	{RoleSubtotal, []string{"subtotal"}},
	{RoleGST, []string{"gst", "tax"}},
	{RoleTotal, []string{"total", "amount"}},
	{RoleInvoice, []string{"invoice", "reference"}},
	{RoleDescription, []string{"description", "details"}},
}

// AutoMapping derives a best-effort mapping from a file's own headers by
// matching them against a known vocabulary. Used when the caller names
// neither a template nor an explicit mapping.
func AutoMapping(kind model.RecordKind, headers []string) Mapping {
	m := Mapping{Kind: kind, Columns: make(map[Role]string)}

	vocab := expenseVocabulary
	if kind == model.KindIncome {
		vocab = incomeVocabulary
	}

	claimed := make(map[string]Role)
	for _, rv := range vocab {
		for _, tok := range rv.tokens {
			header := findHeader(headers, tok, claimed)
			if header == "" {
				continue
			}
			m.Columns[rv.role] = header
			claimed[header] = rv.role
			break
		}
	}
	return m
}

func findHeader(headers []string, token string, claimed map[string]Role) string {
	for _, h := range headers {
		if _, taken := claimed[h]; taken {
			continue
		}
		if strings.Contains(strings.ToLower(h), token) {
			return h
		}
	}
	return ""
}
