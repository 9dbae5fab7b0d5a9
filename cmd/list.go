package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List namespaces and mutation counts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			return newWorkflow(cmd, cancel).Estimate(ctx, estimateArgs(args))
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
