package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/config"
	"github.com/boltzap/boltzap/internal/keychain"
	"github.com/boltzap/boltzap/internal/node"
	"github.com/boltzap/boltzap/internal/output"
	"github.com/boltzap/boltzap/internal/wallet"
)

// sessionTimeout bounds one CLI wallet session including node start retries.
const sessionTimeout = 5 * time.Minute

// out writes formatted text, ignoring write errors on purpose (stderr/stdout).
func out(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// outln writes a line of text.
func outln(w io.Writer, args ...interface{}) {
	_, _ = fmt.Fprintln(w, args...)
}

// openWallet builds a connected wallet session for one CLI invocation. The
// returned cleanup disconnects the node and must run before process exit.
func openWallet(cmd *cobra.Command, cc *CommandContext) (*wallet.Manager, context.Context, func(), error) {
	client := cc.Client
	if client == nil {
		var err error
		client, err = node.NewClient()
		if err != nil {
			return nil, nil, nil, err
		}
	}

	store := cc.Store
	if store == nil {
		store = keychain.Select(fileFallbackStore(cc))
	}

	ctx, cancel := contextWithTimeout(cmd, sessionTimeout)

	mgr := wallet.NewManager(client, store, cc.Cfg, cc.Log)
	if err := mgr.Initialize(ctx); err != nil {
		cancel()
		return nil, nil, nil, err
	}

	if mgr.State().Snapshot().SeedNewlyCreated {
		output.Notice(cmd.ErrOrStderr(), "A new wallet seed was generated and stored in your credential store.")
		outln(cmd.ErrOrStderr(), "Run 'boltzap seed show' and write the words down before receiving funds.")
	}

	cleanup := func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer disconnectCancel()
		if err := mgr.Disconnect(disconnectCtx); err != nil {
			cc.Log.Error("disconnecting wallet session: %v", err)
		}
		cancel()
	}
	return mgr, ctx, cleanup, nil
}

// fileFallbackStore builds the encrypted-file store used when no OS keyring
// is reachable (headless hosts, CI). Requires BOLTZAP_SEED_PASSPHRASE; with
// neither keyring nor passphrase the session fails with a typed error.
func fileFallbackStore(cc *CommandContext) keychain.Store {
	if cc.Cfg == nil {
		return nil
	}
	passphrase := os.Getenv(config.EnvSeedPassphrase)
	if passphrase == "" {
		return nil
	}
	return keychain.NewFileStore(cc.Cfg.GetKeychainFallbackDir(), passphrase)
}
