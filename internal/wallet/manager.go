package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/boltzap/boltzap/internal/config"
	"github.com/boltzap/boltzap/internal/keychain"
	"github.com/boltzap/boltzap/internal/node"
	"github.com/boltzap/boltzap/internal/retry"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

// NewSeedWordCount is the word count of generated seeds. Restores accept
// 12 or 24 words; fresh wallets get 12.
const NewSeedWordCount = 12

// Manager owns the node connect/disconnect lifecycle, seed provisioning,
// and the wallet state aggregate. One Manager per wallet session.
type Manager struct {
	client node.Client
	store  keychain.Store
	cfg    *config.Config
	logger *config.Logger
	state  *State

	startRetry retry.Config

	// lifecycle guards Initialize/ReplaceSeed/Disconnect against overlap.
	lifecycle sync.Mutex

	// reconciler subscription, owned by the Connected state.
	subID      node.SubscriptionID
	events     chan node.Event
	reconcDone chan struct{}
	unsubOnce  *sync.Once

	// onPaymentSent is notified with the dispatched amount (0 if unknown).
	sentMu        sync.Mutex
	onPaymentSent []func(amountSat uint64)
}

// NewManager creates a Manager around the given node client and seed store.
func NewManager(client node.Client, store keychain.Store, cfg *config.Config, logger *config.Logger) *Manager {
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Manager{
		client:     client,
		store:      store,
		cfg:        cfg,
		logger:     logger,
		state:      NewState(),
		startRetry: startRetryConfig(cfg),
	}
}

// startRetryConfig derives the node start policy from configuration.
func startRetryConfig(cfg *config.Config) retry.Config {
	rc := retry.NodeStartConfig()
	if cfg == nil {
		return rc
	}
	if cfg.Node.MaxStartAttempts > 0 {
		rc.MaxAttempts = cfg.Node.MaxStartAttempts
	}
	if cfg.Node.RetryDelaySeconds > 0 {
		rc.Delay = time.Duration(cfg.Node.RetryDelaySeconds) * time.Second
	}
	return rc
}

// State exposes the observable wallet state.
func (m *Manager) State() *State {
	return m.state
}

// OnPaymentSent registers a callback fired after a successful execute with
// the dispatched amount in sats (0 when only the destination knows it).
func (m *Manager) OnPaymentSent(fn func(amountSat uint64)) {
	m.sentMu.Lock()
	defer m.sentMu.Unlock()
	m.onPaymentSent = append(m.onPaymentSent, fn)
}

// notifyPaymentSent fans the dispatched signal out to observers.
func (m *Manager) notifyPaymentSent(amountSat uint64) {
	m.sentMu.Lock()
	observers := make([]func(uint64), len(m.onPaymentSent))
	copy(observers, m.onPaymentSent)
	m.sentMu.Unlock()

	for _, fn := range observers {
		fn(amountSat)
	}
}

// Initialize brings the settlement node online: load or create the seed,
// connect with bounded retries, then subscribe events and pull the first
// balance and history snapshots. A no-op when already connected.
func (m *Manager) Initialize(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	return m.initializeLocked(ctx)
}

func (m *Manager) initializeLocked(ctx context.Context) error {
	if m.state.Connection() == Connected {
		return nil
	}

	m.state.setConnection(Connecting, "")

	seed, created, err := m.loadOrCreateSeed()
	if err != nil {
		// Never proceed with an unpersisted seed.
		m.state.setConnection(ConnectionError, err.Error())
		return err
	}

	nodeCfg := m.buildNodeConfig()

	_, err = retry.Do(ctx, m.startRetry, retry.IsRetryable, func() (struct{}, error) {
		return struct{}{}, m.client.Connect(ctx, seed, nodeCfg)
	})
	if err != nil {
		// The seed stays persisted; only the connection failed.
		failure := *walleterr.ErrNodeCallFailed
		failure.Message = "connecting to settlement node failed"
		failure.Suggestion = "the settlement service may be unreachable; try again shortly"
		failure.Cause = err
		m.state.setConnection(ConnectionError, failure.Error())
		return &failure
	}

	m.state.setSeedNewlyCreated(created)
	m.state.setConnection(Connected, "")

	if err := m.subscribeEvents(); err != nil {
		m.logger.Error("subscribing to node events: %v", err)
	}

	// Initial snapshots are best-effort: a cold node answers eventually via
	// the event stream.
	m.refreshBestEffort(ctx)

	return nil
}

// loadOrCreateSeed returns the persisted mnemonic, generating and storing a
// fresh one when none exists. The bool reports whether the seed is new.
func (m *Manager) loadOrCreateSeed() (string, bool, error) {
	service := m.keychainService()

	seed, err := m.store.Get(service)
	if err == nil {
		return seed, false, nil
	}
	if !errors.Is(err, keychain.ErrSecretNotFound) {
		return "", false, walleterr.Wrap(err, "reading wallet seed")
	}

	seed, err = GenerateMnemonic(NewSeedWordCount)
	if err != nil {
		return "", false, walleterr.Wrap(err, "generating wallet seed")
	}

	if err := m.store.Set(service, seed); err != nil {
		// A seed that was never persisted must not be used.
		return "", false, walleterr.Wrap(err, "persisting wallet seed")
	}

	return seed, true, nil
}

// ReplaceSeed validates the new mnemonic, tears down the running node,
// overwrites the stored seed and reconnects. Destructive with respect to
// the old wallet's funds: confirm must be true or nothing happens.
func (m *Manager) ReplaceSeed(ctx context.Context, mnemonic string, confirm bool) error {
	if !confirm {
		return walleterr.WithSuggestion(walleterr.ErrInvalidInput,
			"replacing the seed abandons the current wallet; pass the confirmation flag to proceed")
	}

	// Validation happens before any teardown so a typo never costs the
	// active connection.
	if err := ValidateMnemonic(mnemonic); err != nil {
		return err
	}
	normalized := NormalizeMnemonicInput(mnemonic)

	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if err := m.disconnectLocked(ctx); err != nil {
		return err
	}

	if err := m.store.Set(m.keychainService(), normalized); err != nil {
		wrapped := walleterr.Wrap(err, "persisting replacement seed")
		m.state.setConnection(ConnectionError, wrapped.Error())
		return wrapped
	}

	m.state.setSeedNewlyCreated(false)
	return m.initializeLocked(ctx)
}

// Disconnect tears down the event subscription and the node.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	return m.disconnectLocked(ctx)
}

func (m *Manager) disconnectLocked(ctx context.Context) error {
	if m.state.Connection() == Disconnected {
		return nil
	}

	m.unsubscribeEvents()

	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.Error("disconnecting node: %v", err)
	}

	m.state.setConnection(Disconnected, "")
	return nil
}

// RefreshBalance pulls the current balance snapshot from the node.
func (m *Manager) RefreshBalance(ctx context.Context) (node.Balance, error) {
	if m.state.Connection() != Connected {
		return node.Balance{}, walleterr.ErrNotConnected
	}

	balance, err := m.client.GetBalance(ctx)
	if err != nil {
		return node.Balance{}, nodeCallFailed(err)
	}

	m.state.setBalance(balance)
	return balance, nil
}

// FetchPayments pulls the payment history from the node, newest first.
func (m *Manager) FetchPayments(ctx context.Context) ([]node.PaymentRecord, error) {
	if m.state.Connection() != Connected {
		return nil, walleterr.ErrNotConnected
	}

	records, err := m.client.ListPayments(ctx, node.ListPaymentsFilter{Limit: m.paymentLimit()})
	if err != nil {
		return nil, nodeCallFailed(err)
	}

	m.state.setPayments(records)
	return records, nil
}

// refreshBestEffort refreshes balance and history, logging failures and
// keeping prior state on error.
func (m *Manager) refreshBestEffort(ctx context.Context) {
	if _, err := m.RefreshBalance(ctx); err != nil {
		m.logger.Error("balance refresh failed, keeping prior snapshot: %v", err)
	}
	if _, err := m.FetchPayments(ctx); err != nil {
		m.logger.Error("history refresh failed, keeping prior snapshot: %v", err)
	}
}

// buildNodeConfig assembles the node boot configuration.
func (m *Manager) buildNodeConfig() node.Config {
	nc := node.Config{
		Network:         "bitcoin",
		GossipSourceURL: config.DefaultGossipSourceURL,
	}
	if m.cfg != nil {
		nc.Network = m.cfg.Node.Network
		nc.WorkingDir = m.cfg.GetNodeWorkingDir()
		nc.EsploraURL = m.cfg.Node.EsploraURL
		nc.GossipSourceURL = m.cfg.Node.GossipSourceURL
	}
	return nc
}

// keychainService returns the credential store scope for the seed.
func (m *Manager) keychainService() string {
	if m.cfg != nil && m.cfg.Keychain.Service != "" {
		return m.cfg.Keychain.Service
	}
	return config.KeychainService
}

// paymentLimit returns the history query bound.
func (m *Manager) paymentLimit() int {
	if m.cfg != nil && m.cfg.Node.PaymentLimit > 0 {
		return m.cfg.Node.PaymentLimit
	}
	return 50
}

// nodeCallFailed wraps an underlying node error into the typed taxonomy,
// preserving an already-typed error as-is.
func nodeCallFailed(err error) error {
	var we *walleterr.WalletError
	if errors.As(err, &we) {
		return err
	}
	wrapped := *walleterr.ErrNodeCallFailed
	wrapped.Cause = err
	return &wrapped
}
