package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boltzap/boltzap/internal/node"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

func TestCreateLightningOffer_WithinRange(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	offer, err := m.CreateLightningOffer(context.Background(), 1000)
	require.NoError(t, err)

	assert.Equal(t, node.ReceiveLightning, offer.Method)
	assert.Equal(t, "lnbc1fakeinvoice", offer.DestinationString)
	assert.Equal(t, uint64(21), offer.FeeSat)
	require.NotNil(t, offer.RequestedAmountSat)
	assert.Equal(t, uint64(1000), *offer.RequestedAmountSat)
	assert.False(t, offer.CreatedAt.IsZero())

	stored := m.State().Offer()
	require.NotNil(t, stored)
	assert.Equal(t, offer.DestinationString, stored.DestinationString)
}

func TestCreateLightningOffer_OutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount uint64
	}{
		{"below minimum", 50},
		{"above maximum", 60000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newFakeClient()
			m := newTestManager(client, newMemStore())
			require.NoError(t, m.Initialize(context.Background()))

			_, err := m.CreateLightningOffer(context.Background(), tt.amount)
			require.ErrorIs(t, err, walleterr.ErrAmountOutOfRange)

			var we *walleterr.WalletError
			require.ErrorAs(t, err, &we)
			assert.Equal(t, "100", we.Details["min_sat"])
			assert.Equal(t, "50000", we.Details["max_sat"])

			client.mu.Lock()
			defer client.mu.Unlock()
			assert.Zero(t, client.prepareReceiveCalls)
			assert.Nil(t, m.State().Offer())
		})
	}
}

func TestCreateLightningOffer_ZeroAmount(t *testing.T) {
	t.Parallel()
	m := newTestManager(newFakeClient(), newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	_, err := m.CreateLightningOffer(context.Background(), 0)
	require.ErrorIs(t, err, walleterr.ErrInvalidAmount)
}

func TestCreateOnchainOffer_Amountless(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	client.receiveResp = node.ReceiveResponse{DestinationString: "bc1qnewaddr"}
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	offer, err := m.CreateOnchainOffer(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, node.ReceiveOnchain, offer.Method)
	assert.Equal(t, "bc1qnewaddr", offer.DestinationString)
	assert.Nil(t, offer.RequestedAmountSat)
	assert.Equal(t, uint64(21), offer.FeeSat, "fee estimate is always surfaced")
}

func TestCreateOnchainOffer_DustRejected(t *testing.T) {
	t.Parallel()
	client := newFakeClient()
	m := newTestManager(client, newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	amount := DustLimitSat
	_, err := m.CreateOnchainOffer(context.Background(), &amount)
	require.ErrorIs(t, err, walleterr.ErrAmountOutOfRange)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Zero(t, client.prepareReceiveCalls)
}

func TestCreateOnchainOffer_AboveDust(t *testing.T) {
	t.Parallel()
	m := newTestManager(newFakeClient(), newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	amount := DustLimitSat + 1
	offer, err := m.CreateOnchainOffer(context.Background(), &amount)
	require.NoError(t, err)
	require.NotNil(t, offer.RequestedAmountSat)
	assert.Equal(t, amount, *offer.RequestedAmountSat)
}

func TestCreateOffer_NotConnected(t *testing.T) {
	t.Parallel()
	m := newTestManager(newFakeClient(), newMemStore())

	_, err := m.CreateLightningOffer(context.Background(), 1000)
	require.ErrorIs(t, err, walleterr.ErrNotConnected)

	_, err = m.CreateOnchainOffer(context.Background(), nil)
	require.ErrorIs(t, err, walleterr.ErrNotConnected)
}

func TestSetReceiveMethod_ClearsStaleOffer(t *testing.T) {
	t.Parallel()
	m := newTestManager(newFakeClient(), newMemStore())
	require.NoError(t, m.Initialize(context.Background()))

	_, err := m.CreateLightningOffer(context.Background(), 1000)
	require.NoError(t, err)
	require.NotNil(t, m.State().Offer())

	m.SetReceiveMethod(node.ReceiveOnchain)

	assert.Nil(t, m.State().Offer(), "switching method must never show the old destination")
	assert.Equal(t, node.ReceiveOnchain, m.State().ReceiveMethod())
}
