package commands

import (
	"github.com/Wtada233/lrepo/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newGenDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gendeps [dir]",
		Short: "Regenerate package dependency files from ELF metadata",
		Long: "Scans every package archive in the directory, builds the provider index " +
			"from declared SONAMEs, resolves each package's NEEDED entries against it " +
			"and rewrites the archives with fresh deps.txt files.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			jobs, _ := cmd.Flags().GetInt("jobs")

			_, err := c.app.GenDeps(cmd.Context(), dir, app.GenDepsOptions{Jobs: jobs})
			return err
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Worker-pool size per phase (0 uses the configured default)")
	return cmd
}
