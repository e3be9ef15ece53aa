package worker

import "github.com/spf13/cobra"

// NewWorkerCmd returns the parent "worker" command.
func NewWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background consumer workers",
	}
	// attach subcommands
	cmd.AddCommand(rewardCmd)
	cmd.AddCommand(journeySyncCmd)
	cmd.AddCommand(userSyncCmd)
	cmd.AddCommand(analyticsCmd)

	return cmd
}
