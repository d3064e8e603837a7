package cli

import (
	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/output"
	"github.com/boltzap/boltzap/internal/wallet"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// sendAmountSat is the explicit amount; 0 means use the destination's
	// embedded amount where one exists.
	sendAmountSat uint64
	// sendYes skips the fee confirmation prompt.
	sendYes bool
)

// sendCmd pays a destination.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sendCmd = &cobra.Command{
	Use:   "send <destination>",
	Short: "Pay an invoice, offer, LNURL entry or address",
	Long: `Pay a Lightning invoice (BOLT11), a reusable offer (BOLT12), an
LNURL-pay entry or Lightning address, an on-chain Bitcoin address, or a
Liquid address.

The fee is quoted before anything moves. Without --yes the quote is shown
and the payment waits for confirmation. Invoices and offers with an
embedded amount need no --amount; every other destination requires one.`,
	Example: `  boltzap send lnbc20u1p3...
  boltzap send user@domain.com --amount 5000
  boltzap send bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh --amount 100000
  boltzap send lno1pg257enxv4... --amount 2500 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

// SendResponse is the send command output.
type SendResponse struct {
	PaymentID string  `json:"payment_id"`
	Kind      string  `json:"kind"`
	AmountSat *uint64 `json:"amount_sat,omitempty"`
	FeeSat    uint64  `json:"fee_sat"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().Uint64Var(&sendAmountSat, "amount", 0, "amount in satoshis")
	sendCmd.Flags().BoolVarP(&sendYes, "yes", "y", false, "skip the fee confirmation prompt")
}

func runSend(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	destination := args[0]

	var amount *uint64
	if sendAmountSat > 0 {
		amount = &sendAmountSat
	}

	// JSON output has no interactive prompt; require --yes up front so the
	// node is never contacted for a payment that cannot proceed.
	if cc.Fmt.IsJSON() && !sendYes {
		return walleterr.WithSuggestion(
			walleterr.ErrInvalidInput,
			"JSON output is non-interactive; pass --yes to confirm the payment",
		)
	}

	mgr, ctx, cleanup, err := openWallet(cmd, cc)
	if err != nil {
		return err
	}
	defer cleanup()

	prepared, err := mgr.Estimate(ctx, destination, amount)
	if err != nil {
		return err
	}

	if !sendYes {
		showQuote(cmd, prepared)
		if !promptConfirmFn("Proceed with this payment? [y/N]: ") {
			outln(cmd.ErrOrStderr(), "Payment canceled.")
			return nil
		}
	}

	receipt, err := mgr.Execute(ctx, prepared)
	if err != nil {
		return err
	}

	resp := SendResponse{
		PaymentID: receipt.PaymentID,
		Kind:      string(prepared.Kind),
		AmountSat: prepared.AmountSat,
		FeeSat:    prepared.FeeSat,
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	w := cmd.OutOrStdout()
	outln(w, "Payment sent.")
	out(w, "  ID:  %s\n", resp.PaymentID)
	if resp.AmountSat != nil {
		out(w, "  Amount: %s\n", output.FormatSats(*resp.AmountSat))
	}
	out(w, "  Fee: %s\n", output.FormatSats(resp.FeeSat))
	return nil
}

// showQuote prints the fee quote to stderr so it never pollutes piped output.
func showQuote(cmd *cobra.Command, prepared *wallet.PreparedPayment) {
	w := cmd.ErrOrStderr()

	outln(w)
	out(w, "  Kind: %s\n", prepared.Kind)
	if prepared.AmountSat != nil {
		out(w, "  Amount: %s\n", output.FormatSats(*prepared.AmountSat))
	} else {
		outln(w, "  Amount: embedded in destination")
	}
	out(w, "  Fee:  %s\n", output.FormatSats(prepared.FeeSat))
	outln(w)
}
