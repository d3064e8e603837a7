package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/config"
	"github.com/boltzap/boltzap/internal/keychain"
	"github.com/boltzap/boltzap/internal/node"
	"github.com/boltzap/boltzap/internal/output"
)

// testMnemonic is a valid BIP39 phrase used across CLI tests.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// stubClient is a canned settlement node for CLI-level tests. The wallet
// package carries its own richer fake; this one only needs to look healthy.
type stubClient struct {
	mu sync.Mutex

	balance  node.Balance
	payments []node.PaymentRecord
	parseFn  func(raw string) (node.Destination, error)

	connects    int
	disconnects int
	sends       int
	subs        int
}

func newStubClient() *stubClient {
	return &stubClient{
		balance: node.Balance{ConfirmedSat: 150_000, PendingReceiveSat: 2_000},
		payments: []node.PaymentRecord{
			{
				ID:        "pay-aaaaaaaaaaaaaaaaaaaaaaaa",
				Direction: node.DirectionSend,
				AmountSat: 1_000,
				FeeSat:    5,
				Status:    node.StatusComplete,
				Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			},
			{
				ID:        "pay-b",
				Direction: node.DirectionReceive,
				AmountSat: 5_000,
				Status:    node.StatusPending,
				Timestamp: time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC),
			},
		},
	}
}

func (c *stubClient) Connect(_ context.Context, _ string, _ node.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	return nil
}

func (c *stubClient) Disconnect(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
	return nil
}

func (c *stubClient) GetBalance(_ context.Context) (node.Balance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.balance, nil
}

func (c *stubClient) ListPayments(_ context.Context, filter node.ListPaymentsFilter) ([]node.PaymentRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if filter.Limit > 0 && filter.Limit < len(c.payments) {
		return c.payments[:filter.Limit], nil
	}
	return c.payments, nil
}

func (c *stubClient) ParseInput(ctx context.Context, raw string) (node.Destination, error) {
	c.mu.Lock()
	parse := c.parseFn
	c.mu.Unlock()
	if parse != nil {
		return parse(raw)
	}
	return node.Bolt11{Invoice: raw}, nil
}

func (c *stubClient) PrepareReceive(_ context.Context, _ node.ReceiveMethod, _ *uint64) (node.PrepareResponse, error) {
	return node.PrepareResponse{FeeSat: 21, Handle: "recv-handle"}, nil
}

func (c *stubClient) Receive(_ context.Context, _ node.PreparedHandle) (node.ReceiveResponse, error) {
	return node.ReceiveResponse{DestinationString: "lnbc1stubinvoice"}, nil
}

func (c *stubClient) PrepareSend(_ context.Context, _ string, _ *uint64) (node.PrepareResponse, error) {
	return node.PrepareResponse{FeeSat: 7, Handle: "send-handle"}, nil
}

func (c *stubClient) Send(_ context.Context, _ node.PreparedHandle) (node.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sends++
	return node.Receipt{PaymentID: "pay-sent"}, nil
}

func (c *stubClient) PrepareLnurlPay(_ context.Context, _ string, _ uint64) (node.PrepareResponse, error) {
	return node.PrepareResponse{FeeSat: 3, Handle: "lnurl-handle"}, nil
}

func (c *stubClient) LnurlPay(_ context.Context, _ node.PreparedHandle) (node.Receipt, error) {
	return node.Receipt{PaymentID: "pay-lnurl"}, nil
}

func (c *stubClient) PrepareOnchainSend(_ context.Context, _ uint64) (node.PrepareResponse, error) {
	return node.PrepareResponse{FeeSat: 150, Handle: "onchain-handle"}, nil
}

func (c *stubClient) OnchainSend(_ context.Context, _ string, _ node.PreparedHandle) (node.Receipt, error) {
	return node.Receipt{PaymentID: "pay-onchain"}, nil
}

func (c *stubClient) FetchOnchainLimits(_ context.Context) (node.Limits, error) {
	return node.Limits{MinSat: 1_000, MaxSat: 1_000_000}, nil
}

func (c *stubClient) FetchLightningLimits(_ context.Context) (node.Limits, error) {
	return node.Limits{MinSat: 100, MaxSat: 500_000}, nil
}

func (c *stubClient) SubscribeEvents(_ node.EventListener) (node.SubscriptionID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs++
	return "sub-1", nil
}

func (c *stubClient) Unsubscribe(_ node.SubscriptionID) error {
	return nil
}

// memStore is an in-memory keychain.Store.
type memStore struct {
	mu      sync.Mutex
	secrets map[string]string
}

func newMemStore() *memStore {
	return &memStore{secrets: make(map[string]string)}
}

func (s *memStore) Get(service string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret, ok := s.secrets[service]
	if !ok {
		return "", keychain.ErrSecretNotFound
	}
	return secret, nil
}

func (s *memStore) Set(service, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[service] = secret
	return nil
}

func (s *memStore) Delete(service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, service)
	return nil
}

// testEnv bundles an injected CommandContext with the buffers commands
// write to.
type testEnv struct {
	cc     *CommandContext
	client *stubClient
	store  *memStore
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv builds a command environment with canned dependencies.
func newTestEnv(t *testing.T, format output.Format) *testEnv {
	t.Helper()

	cfg := config.Defaults()
	cfg.Home = t.TempDir()
	cfg.Node.RetryDelaySeconds = 0

	env := &testEnv{
		client: newStubClient(),
		store:  newMemStore(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.cc = NewCommandContext(cfg, config.NullLogger(), output.NewFormatter(format, env.stdout)).
		WithClient(env.client).
		WithStore(env.store)
	return env
}

// newTestCommand returns a bare command wired to the environment's buffers.
func (e *testEnv) newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	SetCmdContext(cmd, e.cc)
	return cmd
}

// withConfirm replaces the confirmation prompt for the test's duration.
func withConfirm(t *testing.T, answer bool) {
	t.Helper()
	orig := promptConfirmFn
	t.Cleanup(func() { promptConfirmFn = orig })
	promptConfirmFn = func(_ string) bool { return answer }
}

// withSeedPrompt replaces the seed phrase prompt for the test's duration.
func withSeedPrompt(t *testing.T, phrase string) {
	t.Helper()
	orig := promptSeedFn
	t.Cleanup(func() { promptSeedFn = orig })
	promptSeedFn = func(_ *cobra.Command) (string, error) { return phrase, nil }
}
