package node

// Destination is the typed result of parsing a raw destination string.
// It is a sealed union; immutable once produced.
type Destination interface {
	isDestination()
}

// Bolt11 is a Lightning invoice. AmountSat is the invoice-embedded amount,
// zero when the invoice does not embed one.
type Bolt11 struct {
	Invoice   string
	AmountSat uint64
}

// Bolt12Offer is a reusable Lightning offer.
type Bolt12Offer struct {
	Offer string
}

// LnurlPay is a payable LNURL entry with its sendable range.
type LnurlPay struct {
	Data           string
	MinSendableSat uint64
	MaxSendableSat uint64
}

// LnurlWithdraw is an LNURL withdraw request. Not payable by this wallet.
type LnurlWithdraw struct {
	Data string
}

// LnurlAuth is an LNURL authentication request. Not payable.
type LnurlAuth struct {
	Data string
}

// BitcoinAddress is a base-layer on-chain destination.
type BitcoinAddress struct {
	Address string
}

// LiquidAddress is a layer-2 sidechain destination.
type LiquidAddress struct {
	Address string
}

// NodeID is a bare node public key. Not payable.
type NodeID struct {
	Pubkey string
}

// URL is a plain web link. Not payable.
type URL struct {
	URL string
}

// Unrecognized is the total-function fallback for anything the node's
// parser rejects.
type Unrecognized struct {
	Raw string
}

func (Bolt11) isDestination()         {}
func (Bolt12Offer) isDestination()    {}
func (LnurlPay) isDestination()       {}
func (LnurlWithdraw) isDestination()  {}
func (LnurlAuth) isDestination()      {}
func (BitcoinAddress) isDestination() {}
func (LiquidAddress) isDestination()  {}
func (NodeID) isDestination()         {}
func (URL) isDestination()            {}
func (Unrecognized) isDestination()   {}
