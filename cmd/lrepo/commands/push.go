package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push [archives...]",
		Short: "Publish package archives into the configured repository",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			report, err := c.app.Push(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "pushed %d package(s)\n", len(report.Pushed))
			for _, name := range report.Skipped {
				_, _ = fmt.Fprintf(out, "skipped %s\n", name)
			}
			return nil
		},
	}
}
