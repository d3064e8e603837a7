package wallet

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/boltzap/boltzap/internal/node"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

// PaymentKind selects the execute primitive for a prepared payment.
type PaymentKind string

const (
	KindLightning PaymentKind = "lightning"
	KindOnchain   PaymentKind = "onchain"
	KindLayer2    PaymentKind = "layer2"
	KindLnurl     PaymentKind = "lnurl"
)

// PreparedPayment is the output of the estimate phase: a fee quote plus the
// opaque node handle needed to execute. Single use; Execute consumes it.
type PreparedPayment struct {
	Destination node.Destination
	AmountSat   *uint64
	FeeSat      uint64
	Kind        PaymentKind

	// onchainAddress is the execute-side address for on-chain sends.
	onchainAddress string

	handle   node.PreparedHandle
	executed atomic.Bool
}

// Estimate classifies the raw destination, validates the amount rules for
// its kind and asks the node for a fee quote. It never mutates wallet state
// and may be called repeatedly; only Execute moves funds.
func (m *Manager) Estimate(ctx context.Context, raw string, amountSat *uint64) (*PreparedPayment, error) {
	if m.state.Connection() != Connected {
		return nil, walleterr.ErrNotConnected
	}
	if amountSat != nil && *amountSat == 0 {
		return nil, walleterr.Wrap(walleterr.ErrInvalidAmount, "amount must be greater than zero")
	}

	dest := Classify(ctx, m.client, raw)

	switch d := dest.(type) {
	case node.Bolt11:
		return m.prepareLightning(ctx, dest, d.Invoice, amountSat)
	case node.Bolt12Offer:
		return m.prepareLightning(ctx, dest, d.Offer, amountSat)
	case node.LnurlPay:
		return m.prepareLnurl(ctx, d, amountSat)
	case node.BitcoinAddress:
		return m.prepareOnchain(ctx, d, amountSat)
	case node.LiquidAddress:
		return m.prepareLayer2(ctx, d, amountSat)
	default:
		// LNURL-withdraw/auth, node pubkeys, plain URLs and anything the
		// parser could not place are not payable here.
		return nil, walleterr.WithDetails(walleterr.ErrUnsupportedDestination, map[string]string{
			"kind": destinationKindName(dest),
		})
	}
}

// prepareLightning quotes an invoice or offer send. The amount rides along
// only when the caller supplied one; otherwise the destination's embedded
// amount is honored by the node.
func (m *Manager) prepareLightning(ctx context.Context, dest node.Destination, encoded string, amountSat *uint64) (*PreparedPayment, error) {
	resp, err := m.client.PrepareSend(ctx, encoded, amountSat)
	if err != nil {
		return nil, nodeCallFailed(err)
	}
	return &PreparedPayment{
		Destination: dest,
		AmountSat:   amountSat,
		FeeSat:      resp.FeeSat,
		Kind:        KindLightning,
		handle:      resp.Handle,
	}, nil
}

// prepareLnurl quotes an LNURL-pay. The amount is mandatory and must sit
// inside the range the LNURL entry advertises.
func (m *Manager) prepareLnurl(ctx context.Context, dest node.LnurlPay, amountSat *uint64) (*PreparedPayment, error) {
	if amountSat == nil {
		return nil, walleterr.Wrap(walleterr.ErrAmountRequired, "LNURL-pay destinations")
	}
	if *amountSat < dest.MinSendableSat || (dest.MaxSendableSat > 0 && *amountSat > dest.MaxSendableSat) {
		return nil, amountOutOfRange(*amountSat, node.Limits{MinSat: dest.MinSendableSat, MaxSat: dest.MaxSendableSat})
	}

	resp, err := m.client.PrepareLnurlPay(ctx, dest.Data, *amountSat)
	if err != nil {
		return nil, nodeCallFailed(err)
	}
	return &PreparedPayment{
		Destination: dest,
		AmountSat:   amountSat,
		FeeSat:      resp.FeeSat,
		Kind:        KindLnurl,
		handle:      resp.Handle,
	}, nil
}

// prepareOnchain quotes an on-chain send. The current node limits are
// fetched first; an out-of-range amount never reaches prepare.
func (m *Manager) prepareOnchain(ctx context.Context, dest node.BitcoinAddress, amountSat *uint64) (*PreparedPayment, error) {
	if amountSat == nil {
		return nil, walleterr.Wrap(walleterr.ErrAmountRequired, "on-chain destinations")
	}

	limits, err := m.client.FetchOnchainLimits(ctx)
	if err != nil {
		return nil, nodeCallFailed(err)
	}
	if *amountSat < limits.MinSat || (limits.MaxSat > 0 && *amountSat > limits.MaxSat) {
		return nil, amountOutOfRange(*amountSat, limits)
	}

	resp, err := m.client.PrepareOnchainSend(ctx, *amountSat)
	if err != nil {
		return nil, nodeCallFailed(err)
	}
	return &PreparedPayment{
		Destination:    dest,
		AmountSat:      amountSat,
		FeeSat:         resp.FeeSat,
		Kind:           KindOnchain,
		onchainAddress: dest.Address,
		handle:         resp.Handle,
	}, nil
}

// prepareLayer2 quotes a Liquid address send. The amount is mandatory.
func (m *Manager) prepareLayer2(ctx context.Context, dest node.LiquidAddress, amountSat *uint64) (*PreparedPayment, error) {
	if amountSat == nil {
		return nil, walleterr.Wrap(walleterr.ErrAmountRequired, "Liquid destinations")
	}

	resp, err := m.client.PrepareSend(ctx, dest.Address, amountSat)
	if err != nil {
		return nil, nodeCallFailed(err)
	}
	return &PreparedPayment{
		Destination: dest,
		AmountSat:   amountSat,
		FeeSat:      resp.FeeSat,
		Kind:        KindLayer2,
		handle:      resp.Handle,
	}, nil
}

// Execute consumes a prepared payment and dispatches it through the node.
// The node call is never retried here: a transient failure after dispatch
// would otherwise turn into a double spend. Retrying a failed send is a
// fresh Estimate/Execute cycle on a new instance.
func (m *Manager) Execute(ctx context.Context, prepared *PreparedPayment) (node.Receipt, error) {
	if prepared == nil {
		return node.Receipt{}, walleterr.Wrap(walleterr.ErrInvalidInput, "nothing prepared")
	}
	// Connection is checked before the single-use flag is consumed: a tap
	// while disconnected must not burn a quote the node never saw.
	if m.state.Connection() != Connected {
		return node.Receipt{}, walleterr.ErrNotConnected
	}
	if !prepared.executed.CompareAndSwap(false, true) {
		return node.Receipt{}, walleterr.ErrAlreadyExecuted
	}

	var (
		receipt node.Receipt
		err     error
	)
	switch prepared.Kind {
	case KindLightning, KindLayer2:
		receipt, err = m.client.Send(ctx, prepared.handle)
	case KindLnurl:
		receipt, err = m.client.LnurlPay(ctx, prepared.handle)
	case KindOnchain:
		receipt, err = m.client.OnchainSend(ctx, prepared.onchainAddress, prepared.handle)
	default:
		return node.Receipt{}, walleterr.New("UNKNOWN_PAYMENT_KIND",
			fmt.Sprintf("no execute primitive for payment kind %q", prepared.Kind))
	}
	if err != nil {
		// Draft fields stay so the user can correct and retry; the balance
		// is untouched because nothing moved.
		return node.Receipt{}, nodeCallFailed(err)
	}

	m.state.clearDraft()
	if _, refreshErr := m.RefreshBalance(ctx); refreshErr != nil {
		m.logger.Error("post-send balance refresh failed: %v", refreshErr)
	}

	var dispatched uint64
	if prepared.AmountSat != nil {
		dispatched = *prepared.AmountSat
	}
	m.notifyPaymentSent(dispatched)

	return receipt, nil
}

// SendDirect runs the full estimate and execute cycle in one call for flows
// with no separate confirmation step. The branch rules are exactly those of
// Estimate; there is no second code path.
func (m *Manager) SendDirect(ctx context.Context, raw string, amountSat *uint64) (node.Receipt, error) {
	prepared, err := m.Estimate(ctx, raw, amountSat)
	if err != nil {
		return node.Receipt{}, err
	}
	return m.Execute(ctx, prepared)
}

// StageSendDraft records in-progress send input so presentation layers can
// restore it across views. Cleared automatically on a successful Execute.
func (m *Manager) StageSendDraft(raw string, amountSat *uint64) {
	m.state.setDraft(SendDraft{Destination: raw, AmountSat: amountSat})
}

// amountOutOfRange builds the typed range violation with explicit bounds.
func amountOutOfRange(amountSat uint64, limits node.Limits) error {
	return walleterr.WithDetails(walleterr.ErrAmountOutOfRange, map[string]string{
		"amount_sat": fmt.Sprintf("%d", amountSat),
		"min_sat":    fmt.Sprintf("%d", limits.MinSat),
		"max_sat":    fmt.Sprintf("%d", limits.MaxSat),
	})
}

// destinationKindName names a destination kind for error details.
func destinationKindName(dest node.Destination) string {
	switch dest.(type) {
	case node.Bolt11:
		return "lightning invoice"
	case node.Bolt12Offer:
		return "lightning offer"
	case node.LnurlPay:
		return "lnurl-pay"
	case node.LnurlWithdraw:
		return "lnurl-withdraw"
	case node.LnurlAuth:
		return "lnurl-auth"
	case node.BitcoinAddress:
		return "bitcoin address"
	case node.LiquidAddress:
		return "liquid address"
	case node.NodeID:
		return "node id"
	case node.URL:
		return "url"
	default:
		return "unrecognized"
	}
}
