package cli

import (
	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/output"
)

// nodeCmd is the parent command for settlement node operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Inspect the settlement node",
}

// nodeStatusCmd connects and reports node status.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var nodeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Connect to the node and report its status",
	Long: `Start the embedded settlement node, report its connection state,
network and balance, then shut it down.

Useful as a health check: a clean exit means seed provisioning, the
credential store and the node start path all work.`,
	Example: `  boltzap node status
  boltzap node status -o json`,
	RunE: runNodeStatus,
}

// NodeStatusResponse is the node status command output.
type NodeStatusResponse struct {
	Connection   string `json:"connection"`
	Network      string `json:"network"`
	SpendableSat uint64 `json:"spendable_sat"`
	Payments     int    `json:"payments"`
	SeedCreated  bool   `json:"seed_newly_created,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(nodeCmd)
	nodeCmd.AddCommand(nodeStatusCmd)
}

func runNodeStatus(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	mgr, _, cleanup, err := openWallet(cmd, cc)
	if err != nil {
		return err
	}
	defer cleanup()

	snap := mgr.State().Snapshot()

	network := cc.Cfg.Node.Network
	if network == "" {
		network = "bitcoin"
	}

	resp := NodeStatusResponse{
		Connection:   snap.Connection.String(),
		Network:      network,
		SpendableSat: snap.Balance.SpendableTotalSat(),
		Payments:     len(snap.Payments),
		SeedCreated:  snap.SeedNewlyCreated,
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	w := cmd.OutOrStdout()
	out(w, "Connection: %s\n", resp.Connection)
	out(w, "Network:    %s\n", resp.Network)
	out(w, "Balance:    %s\n", output.FormatSats(resp.SpendableSat))
	out(w, "Payments:   %d\n", resp.Payments)
	return nil
}
