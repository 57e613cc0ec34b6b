package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/token"
)

// parseValue turns command-line text into a token value. Text that reads as
// a JSON number becomes a number unless asString is set.
func parseValue(s string, asString bool) token.Value {
	if !asString {
		if v, err := token.ParseNumber(s); err == nil {
			return v
		}
	}
	return token.String(s)
}

// categoryOf returns the category whose definition of name wins, skipping
// custom tokens. It fails when no editable category defines name.
func categoryOf(set token.Set, name string) (string, error) {
	found := ""
	for _, cat := range set.Categories() {
		if cat.Name == token.Custom {
			continue
		}
		for _, t := range cat.Tokens {
			if t.Name == name {
				found = cat.Name
				break
			}
		}
	}
	if found == "" {
		return "", apperrors.New(apperrors.ErrCodeTokenNotFound, "token %q not found", name)
	}
	return found, nil
}

// splitTarget reads "[category] name" from the front of args.
func splitTarget(set token.Set, args []string, n int) (category, name string, rest []string, err error) {
	if len(args) == n+1 {
		return args[0], args[1], args[2:], nil
	}
	category, err = categoryOf(set, args[0])
	return category, args[0], args[1:], err
}

// warnDangling warns when v references a token that does not exist.
func warnDangling(set token.Set, v token.Value) {
	ref, ok := v.Reference()
	if !ok {
		return
	}
	if _, ok := token.Index(set.All())[ref]; !ok {
		printWarning("{%s} does not resolve to any token", ref)
	}
}

// overrideCommand creates the override command.
func (c *CLI) overrideCommand() *cobra.Command {
	var asString bool

	cmd := &cobra.Command{
		Use:   "override [category] <name> <value>",
		Short: "Replace a token's value",
		Long: `Replace the value of a loaded token and save the change as a snapshot.

Without a category, the category whose definition wins (the last one to
define the name) is edited. Values may be references such as {color.primary}.
Text that reads as a number is stored as a number unless --string is given.`,
		Example: `  tokeneditor override color.primary '#0055ff'
  tokeneditor override button button.radius 8
  tokeneditor override common color.accent '{color.primary}'`,
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: c.completeTokenNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject()
			if err != nil {
				return err
			}
			set, latest, err := c.edited(ctx, p)
			if err != nil {
				return err
			}
			category, name, rest, err := splitTarget(set, args, 2)
			if err != nil {
				return err
			}
			v := parseValue(rest[0], asString)

			next, err := set.Override(category, name, v)
			if err != nil {
				return err
			}
			warnDangling(next, v)
			return c.commit(ctx, p, latest, next, fmt.Sprintf("Override %s/%s = %s", category, name, v))
		},
	}

	cmd.Flags().BoolVar(&asString, "string", false, "store the value as a string even if it looks like a number")
	return cmd
}

// resetCommand creates the reset command.
func (c *CLI) resetCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [category] <name>",
		Short: "Restore a token's loaded value",
		Long: `Drop the override of a token so its value from the token file applies again.
With --all, drop every override. Custom tokens are not affected.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		ValidArgsFunction: c.completeTokenNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject()
			if err != nil {
				return err
			}
			set, latest, err := c.edited(ctx, p)
			if err != nil {
				return err
			}

			if all {
				n := set.Overrides().Len()
				return c.commit(ctx, p, latest, set.WithOverrides(token.Overrides{}), fmt.Sprintf("Reset %d override(s)", n))
			}

			category, name, _, err := splitTarget(set, args, 1)
			if err != nil {
				return err
			}
			next, err := set.Reset(category, name)
			if err != nil {
				return err
			}
			return c.commit(ctx, p, latest, next, fmt.Sprintf("Reset %s/%s", category, name))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "reset every override")
	return cmd
}

// customCommand creates the custom command group.
func (c *CLI) customCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Manage user-defined tokens",
		Long: `Custom tokens are resolved after every other category, so a custom token
with the same name as a loaded one wins.`,
	}

	cmd.AddCommand(c.customAddCommand())
	cmd.AddCommand(c.customSetCommand())
	cmd.AddCommand(c.customRemoveCommand())
	cmd.AddCommand(c.customListCommand())

	return cmd
}

// customAddCommand creates the "custom add" subcommand.
func (c *CLI) customAddCommand() *cobra.Command {
	var (
		typ         string
		description string
		asString    bool
	)

	cmd := &cobra.Command{
		Use:   "add <name> <value>",
		Short: "Add a custom token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject()
			if err != nil {
				return err
			}
			set, latest, err := c.edited(ctx, p)
			if err != nil {
				return err
			}
			v := parseValue(args[1], asString)
			next, err := set.AddCustom(token.Token{
				Name:        args[0],
				Value:       v,
				Type:        typ,
				Description: description,
			})
			if err != nil {
				return err
			}
			warnDangling(next, v)
			return c.commit(ctx, p, latest, next, fmt.Sprintf("Add custom %s = %s", args[0], v))
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", "", "token type (e.g. color, spacing)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "token description")
	cmd.Flags().BoolVar(&asString, "string", false, "store the value as a string even if it looks like a number")
	return cmd
}

// customSetCommand creates the "custom set" subcommand.
func (c *CLI) customSetCommand() *cobra.Command {
	var asString bool

	cmd := &cobra.Command{
		Use:               "set <name> <value>",
		Short:             "Change a custom token's value",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeCustomNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject()
			if err != nil {
				return err
			}
			set, latest, err := c.edited(ctx, p)
			if err != nil {
				return err
			}
			v := parseValue(args[1], asString)
			next, err := set.SetCustom(args[0], v)
			if err != nil {
				return err
			}
			warnDangling(next, v)
			return c.commit(ctx, p, latest, next, fmt.Sprintf("Set custom %s = %s", args[0], v))
		},
	}

	cmd.Flags().BoolVar(&asString, "string", false, "store the value as a string even if it looks like a number")
	return cmd
}

// customRemoveCommand creates the "custom rm" subcommand.
func (c *CLI) customRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <name>",
		Aliases:           []string{"remove"},
		Short:             "Remove a custom token",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeCustomNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject()
			if err != nil {
				return err
			}
			set, latest, err := c.edited(ctx, p)
			if err != nil {
				return err
			}
			next, err := set.RemoveCustom(args[0])
			if err != nil {
				return err
			}
			return c.commit(ctx, p, latest, next, "Remove custom "+args[0])
		},
	}
}

// customListCommand creates the "custom list" subcommand.
func (c *CLI) customListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			rows, err := c.tokenRows(cmd.Context(), p)
			if err != nil {
				return err
			}
			rows = filterCategory(rows, token.Custom)
			if len(rows) == 0 {
				printInfo("No custom tokens")
				printNextStep("Add one", appName+" custom add <name> <value>")
				return nil
			}
			fmt.Println(rowsTable(rows).Render())
			return nil
		},
	}
}

func filterCategory(rows []tokenRow, category string) []tokenRow {
	var out []tokenRow
	for _, r := range rows {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
