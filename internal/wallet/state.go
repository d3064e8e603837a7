package wallet

import (
	"sync"
	"time"

	"github.com/boltzap/boltzap/internal/node"
)

// ConnectionState is the lifecycle position of the settlement node link.
// Owned exclusively by the Manager; everything else reads it.
type ConnectionState int

// Connection states.
const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	ConnectionError
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case ConnectionError:
		return "error"
	default:
		return "unknown"
	}
}

// ReceiveOffer is a generated invoice or address currently presented to a
// payer. Valid until consumed or replaced.
type ReceiveOffer struct {
	Method             node.ReceiveMethod
	DestinationString  string
	RequestedAmountSat *uint64
	FeeSat             uint64
	CreatedAt          time.Time
}

// SendDraft is the user-entered send input kept so a failed execute can be
// retried without re-typing.
type SendDraft struct {
	Destination string
	AmountSat   *uint64
}

// Snapshot is an immutable copy of the wallet state handed to observers.
type Snapshot struct {
	Connection       ConnectionState
	ConnectionErr    string
	SeedNewlyCreated bool
	Balance          node.Balance
	Payments         []node.PaymentRecord
	ReceiveMethod    node.ReceiveMethod
	Offer            *ReceiveOffer
	Draft            SendDraft
}

// State is the aggregate all components read and the Manager mutates.
// Mutations are serialized through its mutex; observers get value copies.
type State struct {
	mu       sync.RWMutex
	conn     ConnectionState
	connErr  string
	seedNew  bool
	balance  node.Balance
	payments []node.PaymentRecord
	method   node.ReceiveMethod
	offer    *ReceiveOffer
	draft    SendDraft
	watchers []func(Snapshot)
}

// NewState creates an empty, disconnected state.
func NewState() *State {
	return &State{conn: Disconnected, method: node.ReceiveLightning}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// snapshotLocked builds a Snapshot; callers hold at least a read lock.
func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		Connection:       s.conn,
		ConnectionErr:    s.connErr,
		SeedNewlyCreated: s.seedNew,
		Balance:          s.balance,
		ReceiveMethod:    s.method,
		Draft:            s.draft,
	}
	if len(s.payments) > 0 {
		snap.Payments = make([]node.PaymentRecord, len(s.payments))
		copy(snap.Payments, s.payments)
	}
	if s.offer != nil {
		offer := *s.offer
		snap.Offer = &offer
	}
	return snap
}

// Watch registers an observer invoked after every mutation. Observers run
// on the mutating goroutine and must not call back into State mutators.
func (s *State) Watch(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}

// Connection returns the current connection state.
func (s *State) Connection() ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// Balance returns the last known balance snapshot.
func (s *State) Balance() node.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// Payments returns a copy of the known payment history.
func (s *State) Payments() []node.PaymentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]node.PaymentRecord, len(s.payments))
	copy(out, s.payments)
	return out
}

// Offer returns the active receive offer, or nil.
func (s *State) Offer() *ReceiveOffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.offer == nil {
		return nil
	}
	offer := *s.offer
	return &offer
}

// ReceiveMethod returns the active receive method.
func (s *State) ReceiveMethod() node.ReceiveMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.method
}

// mutate runs fn under the write lock, then notifies watchers with the
// resulting snapshot outside of it.
func (s *State) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	watchers := s.watchers
	s.mu.Unlock()

	for _, w := range watchers {
		w(snap)
	}
}

func (s *State) setConnection(conn ConnectionState, reason string) {
	s.mutate(func() {
		s.conn = conn
		s.connErr = reason
	})
}

func (s *State) setSeedNewlyCreated(created bool) {
	s.mutate(func() { s.seedNew = created })
}

func (s *State) setBalance(b node.Balance) {
	s.mutate(func() { s.balance = b })
}

func (s *State) setPayments(p []node.PaymentRecord) {
	s.mutate(func() { s.payments = p })
}

func (s *State) setReceiveMethod(m node.ReceiveMethod) {
	s.mutate(func() {
		s.method = m
		s.offer = nil
	})
}

func (s *State) setOffer(o *ReceiveOffer) {
	s.mutate(func() { s.offer = o })
}

func (s *State) clearOffer() {
	s.mutate(func() { s.offer = nil })
}

func (s *State) setDraft(d SendDraft) {
	s.mutate(func() { s.draft = d })
}

func (s *State) clearDraft() {
	s.mutate(func() { s.draft = SendDraft{} })
}
