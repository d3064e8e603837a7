package node

import (
	"sync"

	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

var (
	factoryMu sync.RWMutex
	factory   func() (Client, error)
)

// RegisterFactory installs the concrete Client constructor. The settlement
// SDK binding calls this from its init; the wallet core stays free of the
// binding's build constraints (cgo, platform libraries).
func RegisterFactory(fn func() (Client, error)) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factory = fn
}

// NewClient builds a Client from the registered factory.
func NewClient() (Client, error) {
	factoryMu.RLock()
	fn := factory
	factoryMu.RUnlock()

	if fn == nil {
		return nil, walleterr.WithSuggestion(
			walleterr.New("NO_NODE_BINDING", "no settlement node binding is linked into this build"),
			"rebuild with a node binding package imported for its side effects",
		)
	}
	return fn()
}
