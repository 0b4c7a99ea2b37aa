package importer

import (
	"strings"

	"github.com/jantonca/easytax-au-sub002/internal/model"
)

// DetectCSVType classifies a file's header row as an expense export, an
// income export, or unknown. Income signals are checked first: expense bank
// exports often carry a "Total" column that would otherwise misclassify.
func DetectCSVType(headers []string) model.RecordKind {
	joined := make([]string, 0, len(headers))
	for _, h := range headers {
		joined = append(joined, strings.ToLower(strings.TrimSpace(h)))
	}

	has := func(tokens ...string) bool {
		for _, h := range joined {
			for _, tok := range tokens {
				if strings.Contains(h, tok) {
					return true
				}
			}
		}
		return false
	}

	if has("client") && (has("invoice") || has("subtotal", "total")) {
		return model.KindIncome
	}
	if has("subtotal") && has("gst") {
		return model.KindIncome
	}

	if has("date") && has("description", "item") && has("amount", "debit", "total", "credit") {
		return model.KindExpense
	}

	return model.KindUnknown
}
