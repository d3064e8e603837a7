package node

import "time"

// Balance is the node-reported balance snapshot, in satoshis.
type Balance struct {
	ConfirmedSat      uint64
	PendingReceiveSat uint64
	PendingSendSat    uint64
}

// SpendableTotalSat is the display balance: confirmed funds plus inbound
// funds in flight. Pending receives are shown but not yet spendable on-chain.
func (b Balance) SpendableTotalSat() uint64 {
	return b.ConfirmedSat + b.PendingReceiveSat
}

// PaymentDirection tells send from receive history entries.
type PaymentDirection string

// Payment directions.
const (
	DirectionSend    PaymentDirection = "send"
	DirectionReceive PaymentDirection = "receive"
)

// PaymentStatus is the settlement state of a history entry.
type PaymentStatus string

// Payment statuses.
const (
	StatusPending  PaymentStatus = "pending"
	StatusComplete PaymentStatus = "complete"
	StatusFailed   PaymentStatus = "failed"
)

// PaymentRecord is one append-only history entry. Records are refreshed in
// bulk from the node, never mutated field-by-field locally.
type PaymentRecord struct {
	ID        string
	Direction PaymentDirection
	AmountSat uint64
	FeeSat    uint64
	Status    PaymentStatus
	Timestamp time.Time
}

// ListPaymentsFilter bounds a history query.
type ListPaymentsFilter struct {
	// Limit caps the number of returned records; 0 means node default.
	Limit int
}

// ReceiveMethod selects how funds are received.
type ReceiveMethod string

// Receive methods.
const (
	ReceiveLightning ReceiveMethod = "lightning"
	ReceiveOnchain   ReceiveMethod = "onchain"
)
