package wallet

import (
	"context"
	"sync"

	"github.com/boltzap/boltzap/internal/node"
)

// eventBufferSize bounds the queue between the node's listener callback and
// the reconciler goroutine. The listener must not block; a full queue drops
// the event, which is safe because every reconcile is a full re-read.
const eventBufferSize = 64

// subscribeEvents registers on the node's event stream and starts the
// reconciler goroutine. Called once per Connected transition, under the
// lifecycle lock.
func (m *Manager) subscribeEvents() error {
	m.events = make(chan node.Event, eventBufferSize)
	m.reconcDone = make(chan struct{})
	m.unsubOnce = &sync.Once{}

	events := m.events
	id, err := m.client.SubscribeEvents(func(ev node.Event) {
		select {
		case events <- ev:
		default:
			m.logger.Error("event queue full, dropping %T", ev)
		}
	})
	if err != nil {
		// The reconciler never started, so there is nothing to tear down on
		// Disconnect: consume the Once instead of closing reconcDone.
		m.unsubOnce.Do(func() {})
		return nodeCallFailed(err)
	}
	m.subID = id

	go m.reconcile(events, m.reconcDone)
	return nil
}

// unsubscribeEvents tears the subscription down exactly once, so a
// reconnect never sees duplicate delivery. Called under the lifecycle lock.
func (m *Manager) unsubscribeEvents() {
	if m.unsubOnce == nil {
		return
	}
	m.unsubOnce.Do(func() {
		if err := m.client.Unsubscribe(m.subID); err != nil {
			m.logger.Error("unsubscribing node events: %v", err)
		}
		close(m.reconcDone)
	})
}

// reconcile is the single goroutine that folds node events back into wallet
// state. Balance and history refreshes are idempotent snapshot reads, so
// replaying or interleaving events cannot double-count.
func (m *Manager) reconcile(events <-chan node.Event, done <-chan struct{}) {
	ctx := context.Background()

	for {
		select {
		case <-done:
			return
		case ev := <-events:
			m.handleEvent(ctx, ev)
		}
	}
}

// handleEvent applies the per-kind policy for one node event.
func (m *Manager) handleEvent(ctx context.Context, ev node.Event) {
	switch e := ev.(type) {
	case node.EventPaymentPending:
		m.onPaymentPending(e.Payment)
	case node.EventPaymentWaitingConfirmation:
		m.onPaymentPending(e.Payment)
	case node.EventPaymentSucceeded:
		m.logger.Debug("payment %s settled", e.Payment.ID)
	case node.EventPaymentFailed:
		m.logger.Info("payment %s failed", e.Payment.ID)
	case node.EventSynced:
		m.logger.Debug("node sync pass complete")
	default:
		m.logger.Debug("ignoring unknown node event %T", ev)
	}

	// Every event kind triggers the same best-effort re-read: failures log
	// and keep the prior snapshot.
	m.refreshBestEffort(ctx)
}

// onPaymentPending clears the active receive offer when an inbound payment
// lands on it, so a spent invoice or address is never shown again.
func (m *Manager) onPaymentPending(p node.PaymentRecord) {
	if p.Direction == node.DirectionReceive {
		m.state.clearOffer()
	}
}
