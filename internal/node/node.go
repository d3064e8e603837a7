// Package node defines the client surface of the external payment-settlement
// node. The wallet core consumes this interface only; the concrete binding
// (an embedded Lightning/Liquid SDK) lives outside this module.
package node

import "context"

// Config carries the settings handed to the node on connect.
type Config struct {
	// Network is the chain the node settles on ("bitcoin", "testnet").
	Network string

	// WorkingDir is where the node keeps its own state.
	WorkingDir string

	// EsploraURL points the node at a chain-data source, typically the
	// caching proxy this module ships.
	EsploraURL string

	// GossipSourceURL is the rapid gossip sync snapshot endpoint.
	GossipSourceURL string
}

// PreparedHandle is an opaque token minted by a prepare call. It is passed
// back, untouched, to the matching execute call. Handles may be single-use
// on the node side.
type PreparedHandle any

// PrepareResponse is the outcome of any prepare call: the disclosed fee and
// the handle for the execute phase.
type PrepareResponse struct {
	FeeSat uint64
	Handle PreparedHandle
}

// ReceiveResponse is the outcome of finalizing a receive preparation.
type ReceiveResponse struct {
	DestinationString string
}

// Receipt identifies a dispatched payment.
type Receipt struct {
	PaymentID string
}

// Limits bounds an amount accepted by the node for a given flow.
type Limits struct {
	MinSat uint64
	MaxSat uint64
}

// SubscriptionID identifies an event stream subscription.
type SubscriptionID string

// Client is the full settlement node capability the wallet orchestrates.
// All methods may be called concurrently. Connect is not idempotent; the
// caller guards against double connects.
type Client interface {
	// Connect boots the node with the given seed and configuration.
	Connect(ctx context.Context, seed string, cfg Config) error

	// Disconnect tears the node down. Safe to call when not connected.
	Disconnect(ctx context.Context) error

	// GetBalance reports the current balance snapshot.
	GetBalance(ctx context.Context) (Balance, error)

	// ListPayments returns payment history, newest first.
	ListPayments(ctx context.Context, filter ListPaymentsFilter) ([]PaymentRecord, error)

	// ParseInput classifies a raw destination string.
	ParseInput(ctx context.Context, raw string) (Destination, error)

	// PrepareReceive quotes the fee for a receive of the given method.
	// amountSat is nil when the caller wants an amountless destination.
	PrepareReceive(ctx context.Context, method ReceiveMethod, amountSat *uint64) (PrepareResponse, error)

	// Receive finalizes a prepared receive and returns the destination to
	// present to the payer.
	Receive(ctx context.Context, handle PreparedHandle) (ReceiveResponse, error)

	// PrepareSend quotes a Lightning or Liquid send. amountSat is nil when
	// the destination embeds its own amount.
	PrepareSend(ctx context.Context, destination string, amountSat *uint64) (PrepareResponse, error)

	// Send executes a prepared Lightning/Liquid send.
	Send(ctx context.Context, handle PreparedHandle) (Receipt, error)

	// PrepareLnurlPay resolves an LNURL-pay entry for the requested amount.
	PrepareLnurlPay(ctx context.Context, data string, amountSat uint64) (PrepareResponse, error)

	// LnurlPay executes a prepared LNURL-pay.
	LnurlPay(ctx context.Context, handle PreparedHandle) (Receipt, error)

	// PrepareOnchainSend quotes an on-chain send of the given amount.
	PrepareOnchainSend(ctx context.Context, amountSat uint64) (PrepareResponse, error)

	// OnchainSend executes a prepared on-chain send to the address.
	OnchainSend(ctx context.Context, address string, handle PreparedHandle) (Receipt, error)

	// FetchOnchainLimits reports the currently accepted on-chain send range.
	FetchOnchainLimits(ctx context.Context) (Limits, error)

	// FetchLightningLimits reports the accepted invoice amount range.
	FetchLightningLimits(ctx context.Context) (Limits, error)

	// SubscribeEvents registers a listener on the node's event stream.
	SubscribeEvents(listener EventListener) (SubscriptionID, error)

	// Unsubscribe removes a previously registered listener.
	Unsubscribe(id SubscriptionID) error
}
