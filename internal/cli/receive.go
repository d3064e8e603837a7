package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/node"
	"github.com/boltzap/boltzap/internal/output"
	"github.com/boltzap/boltzap/internal/wallet"
	walleterr "github.com/boltzap/boltzap/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// receiveMethod selects lightning or onchain.
	receiveMethod string
	// receiveAmountSat is the requested amount; 0 means amountless, which
	// only on-chain supports.
	receiveAmountSat uint64
	// receiveNoQR suppresses the terminal QR code.
	receiveNoQR bool
)

// receiveCmd creates a receive offer.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Create an invoice or address to receive funds",
	Long: `Create a receive offer: a Lightning invoice (bounded by the node's
invoice limits, amount required) or an on-chain Bitcoin address (amount
optional, but an explicit amount must clear the dust limit).

When stdout is a terminal the destination is also rendered as a QR code.`,
	Example: `  boltzap receive --amount 5000
  boltzap receive --method onchain
  boltzap receive --method onchain --amount 100000
  boltzap receive --amount 5000 -o json`,
	RunE: runReceive,
}

// ReceiveResponse is the receive command output.
type ReceiveResponse struct {
	Method      string  `json:"method"`
	Destination string  `json:"destination"`
	AmountSat   *uint64 `json:"amount_sat,omitempty"`
	FeeSat      uint64  `json:"fee_sat"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(receiveCmd)

	receiveCmd.Flags().StringVarP(&receiveMethod, "method", "m", "lightning", "receive method: lightning, onchain")
	receiveCmd.Flags().Uint64Var(&receiveAmountSat, "amount", 0, "amount in satoshis")
	receiveCmd.Flags().BoolVar(&receiveNoQR, "no-qr", false, "skip the terminal QR code")
}

func runReceive(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	var method node.ReceiveMethod
	switch receiveMethod {
	case "lightning", "ln":
		method = node.ReceiveLightning
	case "onchain", "bitcoin":
		method = node.ReceiveOnchain
	default:
		return walleterr.WithSuggestion(
			walleterr.ErrInvalidInput,
			fmt.Sprintf("unknown receive method %q (use lightning or onchain)", receiveMethod),
		)
	}

	mgr, ctx, cleanup, err := openWallet(cmd, cc)
	if err != nil {
		return err
	}
	defer cleanup()

	mgr.SetReceiveMethod(method)

	var offer *wallet.ReceiveOffer
	if method == node.ReceiveLightning {
		offer, err = mgr.CreateLightningOffer(ctx, receiveAmountSat)
	} else {
		var amount *uint64
		if receiveAmountSat > 0 {
			amount = &receiveAmountSat
		}
		offer, err = mgr.CreateOnchainOffer(ctx, amount)
	}
	if err != nil {
		return err
	}

	resp := ReceiveResponse{
		Method:      string(offer.Method),
		Destination: offer.DestinationString,
		AmountSat:   offer.RequestedAmountSat,
		FeeSat:      offer.FeeSat,
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	w := cmd.OutOrStdout()
	out(w, "Method: %s\n", resp.Method)
	if resp.AmountSat != nil {
		out(w, "Amount: %s\n", output.FormatSats(*resp.AmountSat))
	}
	if resp.FeeSat > 0 {
		out(w, "Fee:    %s\n", output.FormatSats(resp.FeeSat))
	}
	outln(w)
	outln(w, resp.Destination)

	if !receiveNoQR {
		outln(w)
		// No-op when stdout is not a terminal.
		if err := output.RenderQR(w, resp.Destination, output.DefaultQRConfig()); err != nil {
			cc.Log.Error("rendering QR code: %v", err)
		}
	}
	return nil
}
