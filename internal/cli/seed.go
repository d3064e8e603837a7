package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/config"
	"github.com/boltzap/boltzap/internal/keychain"
	"github.com/boltzap/boltzap/internal/output"
	"github.com/boltzap/boltzap/internal/wallet"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// seedShowYes skips the display confirmation.
	seedShowYes bool
	// seedRestoreMnemonic supplies the phrase non-interactively.
	seedRestoreMnemonic string
	// seedRestoreYes skips the replace confirmation.
	seedRestoreYes bool
)

// seedCmd is the parent command for seed operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Manage the wallet seed phrase",
	Long: `Manage the 12-word seed phrase backing the wallet.

The seed lives in the OS credential store (or an encrypted file fallback)
and is the only way to recover funds. Anyone holding the words holds the
wallet.`,
}

// seedShowCmd prints the stored seed phrase.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the seed phrase",
	Long: `Display the stored seed phrase.

Write the words down on paper and keep them offline. Never share them,
never paste them into a website.`,
	Example: `  boltzap seed show
  boltzap seed show --yes`,
	RunE: runSeedShow,
}

// seedRestoreCmd replaces the wallet seed with a user-supplied phrase.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a wallet from a seed phrase",
	Long: `Replace the current wallet seed with an existing 12-word phrase.

The phrase is validated before anything is touched: an invalid phrase
leaves the current wallet exactly as it was. On success the node
reconnects under the restored seed and the previous seed is gone.`,
	Example: `  boltzap seed restore
  boltzap seed restore --mnemonic "abandon abandon ... about" --yes`,
	RunE: runSeedRestore,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedShowCmd)
	seedCmd.AddCommand(seedRestoreCmd)

	seedShowCmd.Flags().BoolVarP(&seedShowYes, "yes", "y", false, "skip the display confirmation")

	seedRestoreCmd.Flags().StringVar(&seedRestoreMnemonic, "mnemonic", "", "seed phrase (prompted when omitted)")
	seedRestoreCmd.Flags().BoolVarP(&seedRestoreYes, "yes", "y", false, "skip the replace confirmation")
}

func runSeedShow(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	if !seedShowYes {
		output.Caution(cmd.ErrOrStderr(), "The seed phrase is about to be printed to this terminal.")
		outln(cmd.ErrOrStderr(), "Make sure nobody is watching and nothing is recording the screen.")
		if !promptConfirmFn("Show the seed phrase? [y/N]: ") {
			outln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
	}

	store := cc.Store
	if store == nil {
		store = keychain.Select(fileFallbackStore(cc))
	}

	mnemonic, err := store.Get(seedService(cc.Cfg))
	if err != nil {
		return walleterr.WithSuggestion(
			walleterr.Wrap(err, "reading the wallet seed"),
			"run any wallet command once to generate a seed",
		)
	}

	w := cmd.OutOrStdout()
	for i, word := range strings.Fields(mnemonic) {
		out(w, "%2d. %s\n", i+1, word)
	}
	return nil
}

func runSeedRestore(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	mnemonic := seedRestoreMnemonic
	if mnemonic == "" {
		var err error
		mnemonic, err = promptSeedFn(cmd)
		if err != nil {
			return err
		}
	}
	mnemonic = wallet.NormalizeMnemonicInput(mnemonic)

	// Validate here so typo hints reach the user before the destructive
	// confirmation, not after it.
	if err := wallet.ValidateMnemonic(mnemonic); err != nil {
		return err
	}

	if !seedRestoreYes {
		output.Caution(cmd.ErrOrStderr(), "This REPLACES the current wallet seed. Funds on the current")
		outln(cmd.ErrOrStderr(), "seed become unreachable unless you have its words backed up.")
		if !promptConfirmFn("Replace the wallet seed? [y/N]: ") {
			outln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
	}

	mgr, ctx, cleanup, err := openWallet(cmd, cc)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := mgr.ReplaceSeed(ctx, mnemonic, true); err != nil {
		return err
	}

	return outputSuccess(cc, cmd, "Wallet restored. The node is now running under the restored seed.")
}

// seedService resolves the credential store entry name for the seed.
func seedService(cfg *config.Config) string {
	if cfg != nil && cfg.Keychain.Service != "" {
		return cfg.Keychain.Service
	}
	return config.KeychainService
}
