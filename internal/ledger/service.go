// Package ledger stores expenses, incomes, and counterparties as CSV files
// partitioned by financial year under a ledger root directory. It is the
// concrete collaborator behind the importer's reader/writer interfaces.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jantonca/easytax-au-sub002/internal/fiscal"
	"github.com/jantonca/easytax-au-sub002/internal/id"
	"github.com/jantonca/easytax-au-sub002/internal/importer"
	"github.com/jantonca/easytax-au-sub002/internal/model"
)

// Service reads and appends ledger records under a root directory.
type Service struct {
	root string
}

// NewService creates a ledger Service rooted at dir.
func NewService(dir string) *Service {
	return &Service{root: dir}
}

func (s *Service) fyDir(fiscalYear int) string {
	return filepath.Join(s.root, fmt.Sprintf("fy%d", fiscalYear))
}

func (s *Service) expensesPath(fiscalYear int) string {
	return filepath.Join(s.fyDir(fiscalYear), "expenses.csv")
}

func (s *Service) incomesPath(fiscalYear int) string {
	return filepath.Join(s.fyDir(fiscalYear), "incomes.csv")
}

// ReadExpenses reads all expenses for a financial year. A missing file is
// an empty year, not an error.
func (s *Service) ReadExpenses(fiscalYear int) ([]model.Expense, error) {
	f, err := os.Open(s.expensesPath(fiscalYear))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening expenses: %w", err)
	}
	defer f.Close()

	expenses, err := ReadExpenses(f)
	if err != nil {
		return nil, fmt.Errorf("reading expenses fy%d: %w", fiscalYear, err)
	}
	return expenses, nil
}

// ReadIncomes reads all incomes for a financial year.
func (s *Service) ReadIncomes(fiscalYear int) ([]model.Income, error) {
	f, err := os.Open(s.incomesPath(fiscalYear))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening incomes: %w", err)
	}
	defer f.Close()

	incomes, err := ReadIncomes(f)
	if err != nil {
		return nil, fmt.Errorf("reading incomes fy%d: %w", fiscalYear, err)
	}
	return incomes, nil
}

// CreateExpense assigns an ID and appends the expense to its financial
// year's file. Returns the assigned ID.
func (s *Service) CreateExpense(e model.Expense) (string, error) {
	fy := fiscal.AssignPeriod(e.Date).Year

	existing, err := s.ReadExpenses(fy)
	if err != nil {
		return "", err
	}
	e.ID = id.FormatRecordID(id.PrefixExpense, fy, nextSeq(expenseIDs(existing)))

	if err := appendRow(s.expensesPath(fy), ExpensesHeader, MarshalExpense(e)); err != nil {
		return "", err
	}
	return e.ID, nil
}

// CreateIncome assigns an ID and appends the income to its financial
// year's file. Returns the assigned ID.
func (s *Service) CreateIncome(in model.Income) (string, error) {
	fy := fiscal.AssignPeriod(in.Date).Year

	existing, err := s.ReadIncomes(fy)
	if err != nil {
		return "", err
	}
	in.ID = id.FormatRecordID(id.PrefixIncome, fy, nextSeq(incomeIDs(existing)))

	if err := appendRow(s.incomesPath(fy), IncomesHeader, MarshalIncome(in)); err != nil {
		return "", err
	}
	return in.ID, nil
}

// EntriesInRange projects existing records in [from, to] for duplicate
// checking. Expense entries carry the gross amount, income entries the
// subtotal, mirroring what the importer normalizes.
func (s *Service) EntriesInRange(kind model.RecordKind, from, to time.Time) ([]importer.LedgerEntry, error) {
	var entries []importer.LedgerEntry

	fromFY := fiscal.AssignPeriod(from).Year
	toFY := fiscal.AssignPeriod(to).Year
	for fy := fromFY; fy <= toFY; fy++ {
		if kind == model.KindIncome {
			incomes, err := s.ReadIncomes(fy)
			if err != nil {
				return nil, err
			}
			for _, in := range incomes {
				if inRange(in.Date, from, to) {
					entries = append(entries, importer.LedgerEntry{
						Date: in.Date, AmountCents: in.SubtotalCents, Counterparty: in.Client,
					})
				}
			}
			continue
		}
		expenses, err := s.ReadExpenses(fy)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			if inRange(e.Date, from, to) {
				entries = append(entries, importer.LedgerEntry{
					Date: e.Date, AmountCents: e.AmountCents, Counterparty: e.Vendor,
				})
			}
		}
	}
	return entries, nil
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func nextSeq(seqs []int) int {
	max := 0
	for _, seq := range seqs {
		if seq > max {
			max = seq
		}
	}
	return max + 1
}

func expenseIDs(expenses []model.Expense) []int {
	var seqs []int
	for _, e := range expenses {
		if _, _, seq, err := id.ParseRecordID(e.ID); err == nil {
			seqs = append(seqs, seq)
		}
	}
	return seqs
}

func incomeIDs(incomes []model.Income) []int {
	var seqs []int
	for _, in := range incomes {
		if _, _, seq, err := id.ParseRecordID(in.ID); err == nil {
			seqs = append(seqs, seq)
		}
	}
	return seqs
}

// appendRow appends one CSV row to path, creating the file with its
// header when new.
func appendRow(path, header string, row []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
