package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"recipecards/internal/client"
	"recipecards/pkg/domain"
)

// newRecipesCommand groups record subcommands. Record payloads are read as
// JSON documents from a file or stdin ("-").
func newRecipesCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage recipe cards on a running server",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <section>",
			Short: "List a section's recipe cards",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				recipes, err := c.ListRecipes(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"recipes": recipes})
			},
		},
		&cobra.Command{
			Use:   "get <section> <id>",
			Short: "Fetch one recipe card",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				recipe, err := c.GetRecipe(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), recipe)
			},
		},
		newRecipeWriteCommand(opts, "add <section> <payload>", "Add a recipe card from a JSON document",
			func(cmd *cobra.Command, c *client.Client, args []string, doc domain.Document) (domain.Document, error) {
				return c.AddRecipe(cmd.Context(), args[0], doc)
			}, 2),
		newRecipeWriteCommand(opts, "update <section> <id> <payload>", "Replace a recipe card wholesale",
			func(cmd *cobra.Command, c *client.Client, args []string, doc domain.Document) (domain.Document, error) {
				return c.UpdateRecipe(cmd.Context(), args[0], args[1], doc)
			}, 3),
		&cobra.Command{
			Use:   "merge <section> <id> <payload>",
			Short: "Apply a partial update to a recipe card",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				raw, err := readPayload(args[2], cmd.InOrStdin())
				if err != nil {
					return err
				}
				var patch domain.RecipePatch
				if err := json.Unmarshal(raw, &patch); err != nil {
					return fmt.Errorf("parse patch payload: %w", err)
				}
				merged, err := c.MergeRecipe(cmd.Context(), args[0], args[1], patch)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), merged)
			},
		},
		&cobra.Command{
			Use:   "delete <section> <id>",
			Short: "Delete a recipe card",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				if err := c.DeleteRecipe(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				LoggerFromContext(cmd.Context()).Info("recipe deleted", "section", args[0], "id", args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "export <section>",
			Short: "Export a section's recipe cards as CSV",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := client.New(opts.APIBase)
				if err != nil {
					return err
				}
				data, err := c.ExportCSV(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)

	return cmd
}

type recipeWriteFunc func(cmd *cobra.Command, c *client.Client, args []string, doc domain.Document) (domain.Document, error)

func newRecipeWriteCommand(opts *Options, use, short string, write recipeWriteFunc, nargs int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(opts.APIBase)
			if err != nil {
				return err
			}
			raw, err := readPayload(args[nargs-1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			var doc domain.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("parse recipe payload: %w", err)
			}
			stored, err := write(cmd, c, args, doc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stored)
		},
	}
}

// readPayload loads a JSON payload from a file path, or stdin when the
// argument is "-".
func readPayload(arg string, stdin io.Reader) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read payload %q: %w", arg, err)
	}
	return raw, nil
}

func printJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
