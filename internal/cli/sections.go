package cli

import (
	"github.com/spf13/cobra"

	"recipecards/internal/client"
)

// newSectionsCommand groups section management subcommands.
func newSectionsCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Manage recipe sections on a running server",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List registered sections",
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				sections, err := c.Sections(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"sections": sections})
			},
		},
		&cobra.Command{
			Use:   "create <section>",
			Short: "Create a section",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				if err := c.CreateSection(cmd.Context(), args[0]); err != nil {
					return err
				}
				LoggerFromContext(cmd.Context()).Info("section created", "section", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <section>",
			Short: "Remove a section and its records",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				if err := c.RemoveSection(cmd.Context(), args[0]); err != nil {
					return err
				}
				LoggerFromContext(cmd.Context()).Info("section removed", "section", args[0])
				return nil
			},
		},
	)

	return cmd
}
