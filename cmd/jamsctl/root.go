package main

import (
	"github.com/spf13/cobra"
)

// buildRootCmd assembles the jamsctl command tree, mirroring the teacher's
// testctl buildRootCmdWith's persistent-flags-plus-subcommand-groups shape.
func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jamsctl",
		Short:         "Operator CLI for jamsd",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var addr string
	root.PersistentFlags().StringVar(&addr, "addr", "localhost:8080", "jamsd HTTP address")

	root.AddCommand(newPollNowCmd())
	root.AddCommand(newModelsCmd(&addr))
	root.AddCommand(newPredictCmd(&addr))
	root.AddCommand(newAddModelCmd(&addr))
	root.AddCommand(newUpdateModelCmd(&addr))
	root.AddCommand(newDeleteModelCmd(&addr))

	return root
}
