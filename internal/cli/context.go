package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/config"
	"github.com/boltzap/boltzap/internal/keychain"
	"github.com/boltzap/boltzap/internal/node"
	"github.com/boltzap/boltzap/internal/output"
)

// CommandContext holds dependencies for CLI commands. Tests inject fakes
// through it instead of touching the package globals.
type CommandContext struct {
	Cfg    *config.Config
	Log    *config.Logger
	Fmt    *output.Formatter
	Client node.Client
	Store  keychain.Store
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(cfg *config.Config, log *config.Logger, fmtr *output.Formatter) *CommandContext {
	return &CommandContext{
		Cfg: cfg,
		Log: log,
		Fmt: fmtr,
	}
}

// WithClient sets the settlement node client.
func (c *CommandContext) WithClient(client node.Client) *CommandContext {
	c.Client = client
	return c
}

// WithStore sets the seed credential store.
func (c *CommandContext) WithStore(store keychain.Store) *CommandContext {
	c.Store = store
	return c
}

type cmdContextKey struct{}

// SetCmdContext attaches a CommandContext to the command.
func SetCmdContext(cmd *cobra.Command, cc *CommandContext) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	cmd.SetContext(context.WithValue(base, cmdContextKey{}, cc))
}

// GetCmdContext retrieves the CommandContext, building one from the package
// globals when none was injected.
func GetCmdContext(cmd *cobra.Command) *CommandContext {
	if ctx := cmd.Context(); ctx != nil {
		if cc, ok := ctx.Value(cmdContextKey{}).(*CommandContext); ok {
			return cc
		}
	}
	return NewCommandContext(cfg, logger, formatter)
}

// contextWithTimeout returns a timeout context rooted in the command context.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, d)
}
