package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/boltzap/boltzap/internal/keychain"
	"github.com/boltzap/boltzap/internal/node"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

// fakeClient is a scriptable node.Client. Zero value behaves as a healthy
// node with empty balances; tests override the func fields they care about.
type fakeClient struct {
	mu sync.Mutex

	connectErr    error
	connectCalls  int
	connectFailN  int // fail the first N connect attempts
	disconnects   int
	balance       node.Balance
	balanceErr    error
	balanceCalls  int
	payments      []node.PaymentRecord
	paymentsErr   error
	paymentsCalls int

	parseFn      func(raw string) (node.Destination, error)
	listeners    map[node.SubscriptionID]node.EventListener
	nextSubID    int
	subscribeErr error
	unsubs       []node.SubscriptionID

	prepareSendFn    func(dest string, amt *uint64) (node.PrepareResponse, error)
	prepareSendCalls int
	sendErr          error
	sendCalls        int

	prepareLnurlCalls int
	prepareLnurlErr   error
	lnurlCalls        int

	onchainLimits        node.Limits
	onchainLimitsErr     error
	lightningLimits      node.Limits
	lightningLimitsErr   error
	prepareOnchainCalls  int
	prepareOnchainErr    error
	onchainSendCalls     int
	onchainSendErr       error
	lastOnchainSendAddr  string
	prepareReceiveFn     func(method node.ReceiveMethod, amt *uint64) (node.PrepareResponse, error)
	prepareReceiveCalls  int
	receiveResp          node.ReceiveResponse
	receiveErr           error
	receiveCalls         int
	lastPreparedReceived node.PreparedHandle
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		onchainLimits:   node.Limits{MinSat: 1000, MaxSat: 100000},
		lightningLimits: node.Limits{MinSat: 100, MaxSat: 50000},
		receiveResp:     node.ReceiveResponse{DestinationString: "lnbc1fakeinvoice"},
		listeners:       make(map[node.SubscriptionID]node.EventListener),
	}
}

func (f *fakeClient) Connect(_ context.Context, _ string, _ node.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectCalls++
	if f.connectErr != nil {
		return f.connectErr
	}
	if f.connectCalls <= f.connectFailN {
		return walleterr.ErrRetryable
	}
	return nil
}

func (f *fakeClient) Disconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	return nil
}

func (f *fakeClient) GetBalance(context.Context) (node.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	return f.balance, f.balanceErr
}

func (f *fakeClient) ListPayments(_ context.Context, _ node.ListPaymentsFilter) ([]node.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentsCalls++
	return f.payments, f.paymentsErr
}

func (f *fakeClient) ParseInput(_ context.Context, raw string) (node.Destination, error) {
	f.mu.Lock()
	fn := f.parseFn
	f.mu.Unlock()
	if fn != nil {
		return fn(raw)
	}
	return node.Unrecognized{Raw: raw}, nil
}

func (f *fakeClient) PrepareReceive(_ context.Context, method node.ReceiveMethod, amt *uint64) (node.PrepareResponse, error) {
	f.mu.Lock()
	f.prepareReceiveCalls++
	fn := f.prepareReceiveFn
	f.mu.Unlock()
	if fn != nil {
		return fn(method, amt)
	}
	return node.PrepareResponse{FeeSat: 21, Handle: "receive-handle"}, nil
}

func (f *fakeClient) Receive(_ context.Context, handle node.PreparedHandle) (node.ReceiveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receiveCalls++
	f.lastPreparedReceived = handle
	return f.receiveResp, f.receiveErr
}

func (f *fakeClient) PrepareSend(_ context.Context, dest string, amt *uint64) (node.PrepareResponse, error) {
	f.mu.Lock()
	f.prepareSendCalls++
	fn := f.prepareSendFn
	f.mu.Unlock()
	if fn != nil {
		return fn(dest, amt)
	}
	return node.PrepareResponse{FeeSat: 5, Handle: "send-handle"}, nil
}

func (f *fakeClient) Send(context.Context, node.PreparedHandle) (node.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if f.sendErr != nil {
		return node.Receipt{}, f.sendErr
	}
	return node.Receipt{PaymentID: "pay-1"}, nil
}

func (f *fakeClient) PrepareLnurlPay(_ context.Context, _ string, _ uint64) (node.PrepareResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepareLnurlCalls++
	if f.prepareLnurlErr != nil {
		return node.PrepareResponse{}, f.prepareLnurlErr
	}
	return node.PrepareResponse{FeeSat: 3, Handle: "lnurl-handle"}, nil
}

func (f *fakeClient) LnurlPay(context.Context, node.PreparedHandle) (node.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lnurlCalls++
	return node.Receipt{PaymentID: "pay-lnurl"}, nil
}

func (f *fakeClient) PrepareOnchainSend(_ context.Context, _ uint64) (node.PrepareResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepareOnchainCalls++
	if f.prepareOnchainErr != nil {
		return node.PrepareResponse{}, f.prepareOnchainErr
	}
	return node.PrepareResponse{FeeSat: 150, Handle: "onchain-handle"}, nil
}

func (f *fakeClient) OnchainSend(_ context.Context, address string, _ node.PreparedHandle) (node.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onchainSendCalls++
	f.lastOnchainSendAddr = address
	if f.onchainSendErr != nil {
		return node.Receipt{}, f.onchainSendErr
	}
	return node.Receipt{PaymentID: "pay-onchain"}, nil
}

func (f *fakeClient) FetchOnchainLimits(context.Context) (node.Limits, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.onchainLimits, f.onchainLimitsErr
}

func (f *fakeClient) FetchLightningLimits(context.Context) (node.Limits, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lightningLimits, f.lightningLimitsErr
}

func (f *fakeClient) SubscribeEvents(listener node.EventListener) (node.SubscriptionID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return "", f.subscribeErr
	}
	f.nextSubID++
	id := node.SubscriptionID(fmt.Sprintf("sub-%d", f.nextSubID))
	f.listeners[id] = listener
	return id, nil
}

func (f *fakeClient) Unsubscribe(id node.SubscriptionID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listeners, id)
	f.unsubs = append(f.unsubs, id)
	return nil
}

// emit delivers an event to every active listener.
func (f *fakeClient) emit(ev node.Event) {
	f.mu.Lock()
	listeners := make([]node.EventListener, 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()
	for _, l := range listeners {
		l(ev)
	}
}

func (f *fakeClient) counts() (connect, balance, payments int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connectCalls, f.balanceCalls, f.paymentsCalls
}

// memStore is an in-memory keychain.Store.
type memStore struct {
	mu      sync.Mutex
	secrets map[string]string
	setErr  error
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{secrets: make(map[string]string)}
}

func (s *memStore) Get(service string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	secret, ok := s.secrets[service]
	if !ok {
		return "", keychain.ErrSecretNotFound
	}
	return secret, nil
}

func (s *memStore) Set(service, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.secrets[service] = secret
	return nil
}

func (s *memStore) Delete(service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, service)
	return nil
}
