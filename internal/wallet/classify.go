package wallet

import (
	"context"
	"strings"

	"github.com/boltzap/boltzap/internal/node"
)

// Classify resolves a raw destination string into a typed destination.
// It is total: parser failures and nil results both map to Unrecognized,
// never to an error, so callers always get something they can switch on.
func Classify(ctx context.Context, client node.Client, raw string) node.Destination {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return node.Unrecognized{Raw: raw}
	}

	dest, err := client.ParseInput(ctx, trimmed)
	if err != nil || dest == nil {
		return node.Unrecognized{Raw: trimmed}
	}
	return dest
}
