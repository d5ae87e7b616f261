package cmd

import (
	"github.com/spf13/cobra"

	"ordergateway/internal/bootstrap"
)

// gatewayCmd represents the gateway command
var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the order gateway HTTP service",
	Long: `The gateway serves the orders API: placement and query requests are
authorized, validated and dispatched to the configured broker adapters,
with read results cached per (broker, user) pair.`,
	Run: bootstrap.StartGateway,
}

func init() {
	rootCmd.AddCommand(gatewayCmd)
}
