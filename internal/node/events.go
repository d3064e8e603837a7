package node

// Event is one entry on the node's asynchronous event stream.
type Event interface {
	isEvent()
}

// EventPaymentPending fires when a payment enters the pending state.
type EventPaymentPending struct {
	Payment PaymentRecord
}

// EventPaymentWaitingConfirmation fires when a payment awaits chain
// confirmation. Treated like pending by the reconciler.
type EventPaymentWaitingConfirmation struct {
	Payment PaymentRecord
}

// EventPaymentSucceeded fires when a payment settles.
type EventPaymentSucceeded struct {
	Payment PaymentRecord
}

// EventPaymentFailed fires when a payment definitively fails.
type EventPaymentFailed struct {
	Payment PaymentRecord
}

// EventSynced fires when the node finishes a background sync pass.
type EventSynced struct{}

func (EventPaymentPending) isEvent()             {}
func (EventPaymentWaitingConfirmation) isEvent() {}
func (EventPaymentSucceeded) isEvent()           {}
func (EventPaymentFailed) isEvent()              {}
func (EventSynced) isEvent()                     {}

// EventListener consumes node events. Listeners must not block; the node
// delivers events sequentially per subscription.
type EventListener func(Event)
