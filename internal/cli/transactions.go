package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/node"
	"github.com/boltzap/boltzap/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// txLimit caps the number of listed payments; 0 uses the configured default.
	txLimit int
)

// txCmd lists payment history.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "List payment history",
	Long: `List payments known to the settlement node, newest first.

History is fetched fresh from the node on every call.`,
	Example: `  boltzap transactions
  boltzap tx --limit 10
  boltzap tx -o json`,
	RunE: runTransactions,
}

// TransactionEntry is one payment in the transactions command output.
type TransactionEntry struct {
	ID        string `json:"id"`
	Direction string `json:"direction"`
	AmountSat uint64 `json:"amount_sat"`
	FeeSat    uint64 `json:"fee_sat"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TransactionsResponse is the full transactions command output.
type TransactionsResponse struct {
	Payments []TransactionEntry `json:"payments"`
	Count    int                `json:"count"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(txCmd)

	txCmd.Flags().IntVar(&txLimit, "limit", 0, "maximum payments to list (default: configured payment limit)")
}

func runTransactions(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	if txLimit > 0 {
		cc.Cfg.Node.PaymentLimit = txLimit
	}

	mgr, ctx, cleanup, err := openWallet(cmd, cc)
	if err != nil {
		return err
	}
	defer cleanup()

	payments, err := mgr.FetchPayments(ctx)
	if err != nil {
		return err
	}

	resp := TransactionsResponse{
		Payments: make([]TransactionEntry, 0, len(payments)),
		Count:    len(payments),
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, TransactionEntry{
			ID:        p.ID,
			Direction: string(p.Direction),
			AmountSat: p.AmountSat,
			FeeSat:    p.FeeSat,
			Status:    string(p.Status),
			Timestamp: p.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	w := cmd.OutOrStdout()
	if len(payments) == 0 {
		outln(w, "No payments yet.")
		return nil
	}

	table := output.NewTable("ID", "DIRECTION", "AMOUNT", "FEE", "STATUS", "TIME")
	for _, p := range payments {
		table.AddRow(
			shortID(p.ID),
			directionArrow(p.Direction)+" "+string(p.Direction),
			output.FormatSats(p.AmountSat),
			output.FormatSats(p.FeeSat),
			string(p.Status),
			p.Timestamp.Local().Format("2006-01-02 15:04"),
		)
	}
	return table.Render(w)
}

// shortID truncates long payment hashes for table display.
func shortID(id string) string {
	const max = 16
	if len(id) <= max {
		return id
	}
	return id[:max-1] + "…"
}

func directionArrow(d node.PaymentDirection) string {
	if d == node.DirectionReceive {
		return "+"
	}
	return "-"
}
