package wallet

import (
	"context"
	"time"

	"github.com/boltzap/boltzap/internal/node"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

// DustLimitSat is the floor for an explicitly requested on-chain receive
// amount. Outputs below it are uneconomical to spend.
const DustLimitSat uint64 = 546

// CreateLightningOffer requests a Lightning invoice for the given amount.
// The amount must sit inside the node's accepted invoice range. The
// resulting offer replaces any prior one in wallet state.
func (m *Manager) CreateLightningOffer(ctx context.Context, amountSat uint64) (*ReceiveOffer, error) {
	if m.state.Connection() != Connected {
		return nil, walleterr.ErrNotConnected
	}
	if amountSat == 0 {
		return nil, walleterr.Wrap(walleterr.ErrInvalidAmount, "receive amount must be greater than zero")
	}

	limits, err := m.client.FetchLightningLimits(ctx)
	if err != nil {
		return nil, nodeCallFailed(err)
	}
	if amountSat < limits.MinSat || (limits.MaxSat > 0 && amountSat > limits.MaxSat) {
		return nil, amountOutOfRange(amountSat, limits)
	}

	return m.finalizeOffer(ctx, node.ReceiveLightning, &amountSat)
}

// CreateOnchainOffer requests an on-chain receive address. The amount is
// optional; when given it must clear the dust threshold. A fee estimate is
// always returned for display alongside the address.
func (m *Manager) CreateOnchainOffer(ctx context.Context, amountSat *uint64) (*ReceiveOffer, error) {
	if m.state.Connection() != Connected {
		return nil, walleterr.ErrNotConnected
	}
	if amountSat != nil && *amountSat <= DustLimitSat {
		return nil, amountOutOfRange(*amountSat, node.Limits{MinSat: DustLimitSat + 1})
	}

	return m.finalizeOffer(ctx, node.ReceiveOnchain, amountSat)
}

// finalizeOffer runs the prepare/receive pair and stores the offer.
func (m *Manager) finalizeOffer(ctx context.Context, method node.ReceiveMethod, amountSat *uint64) (*ReceiveOffer, error) {
	prep, err := m.client.PrepareReceive(ctx, method, amountSat)
	if err != nil {
		return nil, nodeCallFailed(err)
	}

	resp, err := m.client.Receive(ctx, prep.Handle)
	if err != nil {
		return nil, nodeCallFailed(err)
	}

	offer := &ReceiveOffer{
		Method:             method,
		DestinationString:  resp.DestinationString,
		RequestedAmountSat: amountSat,
		FeeSat:             prep.FeeSat,
		CreatedAt:          time.Now(),
	}
	m.state.setOffer(offer)
	return offer, nil
}

// SetReceiveMethod switches between Lightning and on-chain receiving and
// drops any previously generated offer so stale destinations and fees are
// never shown against the new method.
func (m *Manager) SetReceiveMethod(method node.ReceiveMethod) {
	m.state.setReceiveMethod(method)
}
