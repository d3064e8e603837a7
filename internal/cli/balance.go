package cli

import (
	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/output"
)

// balanceCmd shows the wallet balance.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet balance",
	Long: `Show the wallet balance as reported by the settlement node.

The spendable total is confirmed funds plus inbound funds still in
flight. Pending amounts settle on their own; no action is needed.`,
	Example: `  boltzap balance
  boltzap balance -o json`,
	RunE: runBalance,
}

// BalanceResponse is the balance command output.
type BalanceResponse struct {
	ConfirmedSat      uint64 `json:"confirmed_sat"`
	PendingReceiveSat uint64 `json:"pending_receive_sat"`
	PendingSendSat    uint64 `json:"pending_send_sat"`
	SpendableSat      uint64 `json:"spendable_sat"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	mgr, ctx, cleanup, err := openWallet(cmd, cc)
	if err != nil {
		return err
	}
	defer cleanup()

	bal, err := mgr.RefreshBalance(ctx)
	if err != nil {
		return err
	}

	resp := BalanceResponse{
		ConfirmedSat:      bal.ConfirmedSat,
		PendingReceiveSat: bal.PendingReceiveSat,
		PendingSendSat:    bal.PendingSendSat,
		SpendableSat:      bal.SpendableTotalSat(),
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	w := cmd.OutOrStdout()
	out(w, "Balance: %s\n", output.FormatSats(resp.SpendableSat))
	if resp.PendingReceiveSat > 0 {
		out(w, "  incoming: %s\n", output.FormatSats(resp.PendingReceiveSat))
	}
	if resp.PendingSendSat > 0 {
		out(w, "  outgoing: %s\n", output.FormatSats(resp.PendingSendSat))
	}
	return nil
}
