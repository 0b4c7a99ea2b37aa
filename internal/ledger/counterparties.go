package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jantonca/easytax-au-sub002/internal/id"
	"github.com/jantonca/easytax-au-sub002/internal/model"
)

// PartiesHeader is the CSV header for counterparties.csv.
const PartiesHeader = "id,kind,name"

const (
	partyNumFields = 3
	partyColID     = 0
	partyColKind   = 1
	partyColName   = 2
)

func (s *Service) partiesPath() string {
	return filepath.Join(s.root, "counterparties.csv")
}

// ListCounterparties returns all counterparties of one kind.
func (s *Service) ListCounterparties(kind model.CounterpartyKind) ([]model.Counterparty, error) {
	all, err := s.readParties()
	if err != nil {
		return nil, err
	}

	var out []model.Counterparty
	for _, p := range all {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreateCounterparty assigns an ID and appends a new counterparty.
func (s *Service) CreateCounterparty(kind model.CounterpartyKind, name string) (model.Counterparty, error) {
	all, err := s.readParties()
	if err != nil {
		return model.Counterparty{}, err
	}

	prefix := id.PrefixVendor
	if kind == model.KindClient {
		prefix = id.PrefixClient
	}

	var seqs []int
	for _, p := range all {
		if p.Kind != kind {
			continue
		}
		if _, seq, err := id.ParsePartyID(p.ID); err == nil {
			seqs = append(seqs, seq)
		}
	}

	party := model.Counterparty{
		ID:   id.FormatPartyID(prefix, nextSeq(seqs)),
		Kind: kind,
		Name: name,
	}
	if err := appendRow(s.partiesPath(), PartiesHeader, marshalParty(party)); err != nil {
		return model.Counterparty{}, err
	}
	return party, nil
}

func (s *Service) readParties() ([]model.Counterparty, error) {
	f, err := os.Open(s.partiesPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening counterparties: %w", err)
	}
	defer f.Close()

	parties, err := readParties(f)
	if err != nil {
		return nil, fmt.Errorf("reading counterparties: %w", err)
	}
	return parties, nil
}

func readParties(r io.Reader) ([]model.Counterparty, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = partyNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading counterparties CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var parties []model.Counterparty
	for i, rec := range records[1:] {
		p, err := unmarshalParty(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		parties = append(parties, p)
	}
	return parties, nil
}

func marshalParty(p model.Counterparty) []string {
	row := make([]string, partyNumFields)
	row[partyColID] = p.ID
	row[partyColKind] = string(p.Kind)
	row[partyColName] = p.Name
	return row
}

func unmarshalParty(record []string) (model.Counterparty, error) {
	if len(record) != partyNumFields {
		return model.Counterparty{}, fmt.Errorf("expected %d fields, got %d", partyNumFields, len(record))
	}

	kind := model.CounterpartyKind(record[partyColKind])
	if kind != model.KindVendor && kind != model.KindClient {
		return model.Counterparty{}, fmt.Errorf("unknown counterparty kind %q", record[partyColKind])
	}

	return model.Counterparty{
		ID:   record[partyColID],
		Kind: kind,
		Name: record[partyColName],
	}, nil
}
