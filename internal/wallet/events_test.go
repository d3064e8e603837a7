package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boltzap/boltzap/internal/node"
)

const (
	eventWait = 2 * time.Second
	eventTick = 5 * time.Millisecond
)

func TestReconciler_ReceivePendingClearsOffer(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	_, err := m.CreateLightningOffer(context.Background(), 1000)
	require.NoError(t, err)
	require.NotNil(t, m.State().Offer())

	client.emit(node.EventPaymentPending{Payment: node.PaymentRecord{
		ID:        "in-1",
		Direction: node.DirectionReceive,
		Status:    node.StatusPending,
	}})

	require.Eventually(t, func() bool {
		return m.State().Offer() == nil
	}, eventWait, eventTick, "a paid invoice must not stay on display")
}

func TestReconciler_SendPendingKeepsOffer(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	_, err := m.CreateLightningOffer(context.Background(), 1000)
	require.NoError(t, err)

	_, balancesBefore, _ := client.counts()
	client.emit(node.EventPaymentPending{Payment: node.PaymentRecord{
		ID:        "out-1",
		Direction: node.DirectionSend,
		Status:    node.StatusPending,
	}})

	// Wait for the refresh the event triggers, then check the offer.
	require.Eventually(t, func() bool {
		_, balances, _ := client.counts()
		return balances > balancesBefore
	}, eventWait, eventTick)

	assert.NotNil(t, m.State().Offer(), "an outbound payment does not consume the receive offer")
}

func TestReconciler_EventsRefreshBalanceAndHistory(t *testing.T) {
	t.Parallel()

	events := []struct {
		name string
		ev   node.Event
	}{
		{"waiting confirmation", node.EventPaymentWaitingConfirmation{Payment: node.PaymentRecord{ID: "p", Direction: node.DirectionSend}}},
		{"succeeded", node.EventPaymentSucceeded{Payment: node.PaymentRecord{ID: "p"}}},
		{"failed", node.EventPaymentFailed{Payment: node.PaymentRecord{ID: "p"}}},
		{"synced", node.EventSynced{}},
	}

	for _, tt := range events {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newFakeClient()
			m := newTestManager(client, newMemStore())
			require.NoError(t, m.Initialize(context.Background()))

			client.mu.Lock()
			client.balance = node.Balance{ConfirmedSat: 777}
			client.mu.Unlock()

			_, balancesBefore, paymentsBefore := client.counts()
			client.emit(tt.ev)

			require.Eventually(t, func() bool {
				_, balances, payments := client.counts()
				return balances > balancesBefore && payments > paymentsBefore
			}, eventWait, eventTick)

			require.Eventually(t, func() bool {
				return m.State().Balance().ConfirmedSat == 777
			}, eventWait, eventTick)
		})
	}
}

func TestReconciler_FailedRefreshKeepsPriorState(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	client.mu.Lock()
	client.balance = node.Balance{ConfirmedSat: 4000}
	client.mu.Unlock()
	_, err := m.RefreshBalance(context.Background())
	require.NoError(t, err)

	client.mu.Lock()
	client.balanceErr = assert.AnError
	client.paymentsErr = assert.AnError
	client.mu.Unlock()

	_, balancesBefore, _ := client.counts()
	client.emit(node.EventSynced{})

	require.Eventually(t, func() bool {
		_, balances, _ := client.counts()
		return balances > balancesBefore
	}, eventWait, eventTick)

	assert.Equal(t, uint64(4000), m.State().Balance().ConfirmedSat, "failed refresh must not zero the balance")
}

func TestReconciler_NoEventsAfterDisconnect(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.Disconnect(context.Background()))

	client.mu.Lock()
	listeners := len(client.listeners)
	client.mu.Unlock()
	assert.Zero(t, listeners, "disconnect must tear the subscription down")
}

func TestReconciler_SubscribeFailureThenDisconnect(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	client.subscribeErr = assert.AnError
	m := newTestManager(client, newMemStore())

	// Initialize still succeeds: the wallet is usable without a live event
	// stream, it just never reconciles until a reconnect.
	require.NoError(t, m.Initialize(context.Background()))
	assert.Equal(t, Connected, m.State().Connection())

	require.NoError(t, m.Disconnect(context.Background()))

	client.mu.Lock()
	unsubs := len(client.unsubs)
	client.mu.Unlock()
	assert.Zero(t, unsubs, "nothing to unsubscribe when the subscription never existed")
}

func TestReconciler_ResubscribesOnReconnect(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.Disconnect(context.Background()))
	require.NoError(t, m.Initialize(context.Background()))

	client.mu.Lock()
	listeners := len(client.listeners)
	client.mu.Unlock()
	assert.Equal(t, 1, listeners, "exactly one live subscription after reconnect")
}
