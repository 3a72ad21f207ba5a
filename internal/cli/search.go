package cli

import (
	"github.com/spf13/cobra"

	"recipecards/internal/client"
)

// newSearchCommand creates the "search" subcommand.
func newSearchCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search recipe cards across all sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(opts.APIBase)
			if err != nil {
				return err
			}
			hits, err := c.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"hits": hits})
		},
	}
}
