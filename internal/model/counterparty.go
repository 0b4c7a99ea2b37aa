package model

// CounterpartyKind distinguishes the expense side from the income side.
type CounterpartyKind string

const (
	KindVendor CounterpartyKind = "vendor"
	KindClient CounterpartyKind = "client"
)

// Counterparty is a named external party: a vendor we pay or a client we bill.
type Counterparty struct {
	ID   string
	Kind CounterpartyKind
	Name string
}
