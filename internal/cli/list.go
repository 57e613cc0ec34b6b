package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/pipeline"
	"github.com/draad/tokeneditor/pkg/token"
)

// maxValueWidth caps value columns in tables.
const maxValueWidth = 40

// tokenRow is one token as shown by list and browse.
type tokenRow struct {
	Category string
	Token    token.Token
	Resolved token.Value
}

// tokenRows loads the edited set and pairs every token with its resolved value.
func (c *CLI) tokenRows(ctx context.Context, p *project) ([]tokenRow, error) {
	set, _, err := c.edited(ctx, p)
	if err != nil {
		return nil, err
	}
	resolved, err := pipeline.NewRunner(nil, nil, c.Logger).Resolve(ctx, set)
	if err != nil {
		return nil, err
	}

	// Resolved.Tokens is the concatenation of Categories() in order.
	rows := make([]tokenRow, 0, len(resolved.Tokens))
	i := 0
	for _, cat := range set.Categories() {
		for _, t := range cat.Tokens {
			rows = append(rows, tokenRow{Category: cat.Name, Token: t, Resolved: resolved.Tokens[i].Value})
			i++
		}
	}
	return rows, nil
}

// searchRows returns the rows whose name fuzzy-matches query, best match
// first. An empty query returns rows unchanged.
func searchRows(rows []tokenRow, query string) []tokenRow {
	if query == "" {
		return rows
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Token.Name
	}
	matches := fuzzy.Find(query, names)
	out := make([]tokenRow, len(matches))
	for i, m := range matches {
		out[i] = rows[m.Index]
	}
	return out
}

// listFilter narrows rows by exact attributes.
type listFilter struct {
	category   string
	typ        string
	overridden bool
}

func (f listFilter) keep(r tokenRow) bool {
	if f.category != "" && r.Category != f.category {
		return false
	}
	if f.typ != "" && r.Token.Type != f.typ {
		return false
	}
	if f.overridden && !r.Token.Overridden {
		return false
	}
	return true
}

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var (
		filter listFilter
		byType bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List tokens with their resolved values",
		Long: `List every token of the project with its category, type, value and
resolved value. Edited tokens are marked with *.

A query fuzzy-matches token names ("clrpri" finds "color.primary") and sorts
the best matches first.`,
		Example: `  tokeneditor list
  tokeneditor list primary
  tokeneditor list --category button --by-type`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			rows, err := c.tokenRows(cmd.Context(), p)
			if err != nil {
				return err
			}

			var kept []tokenRow
			for _, r := range rows {
				if filter.keep(r) {
					kept = append(kept, r)
				}
			}
			if len(args) == 1 {
				kept = searchRows(kept, args[0])
			}
			if len(kept) == 0 {
				printInfo("No tokens found")
				return nil
			}
			total := len(kept)
			if limit > 0 && len(kept) > limit {
				kept = kept[:limit]
			}

			if byType {
				printRowsByType(kept)
			} else {
				fmt.Println(rowsTable(kept).Render())
			}
			if total > len(kept) {
				printDetail("showing %d of %d tokens", len(kept), total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.category, "category", "C", "", "only tokens of this category")
	cmd.Flags().StringVarP(&filter.typ, "type", "t", "", "only tokens of this type")
	cmd.Flags().BoolVar(&filter.overridden, "overridden", false, "only edited tokens")
	cmd.Flags().BoolVar(&byType, "by-type", false, "group tokens by type")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n tokens")
	_ = cmd.RegisterFlagCompletionFunc("category", c.completeCategories)

	return cmd
}

// rowsTable renders rows as a table.
func rowsTable(rows []tokenRow) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		name := r.Token.Name
		if r.Token.Overridden {
			name = styleOverridden.Render(name + " *")
		}
		value := truncate(r.Token.Value.String(), maxValueWidth)
		resolved := ""
		if r.Token.IsReference() {
			value = StyleReference.Render(value)
			resolved = truncate(r.Resolved.String(), maxValueWidth)
		}
		data[i] = []string{r.Category, name, r.Token.Type, value, resolved}
	}
	return newTable([]string{"Category", "Name", "Type", "Value", "Resolved"}, data, 0)
}

// printRowsByType prints one table per type, in first-seen type order.
func printRowsByType(rows []tokenRow) {
	toks := make([]token.Token, len(rows))
	for i, r := range rows {
		toks[i] = r.Token
	}

	order, groups := token.GroupByType(toks)
	for i, typ := range order {
		if i > 0 {
			printNewline()
		}
		fmt.Println(StyleTitle.Render(typ) + " " + StyleDim.Render(fmt.Sprintf("(%d)", len(groups[typ]))))
		var group []tokenRow
		for _, r := range rows {
			if groupOf(r.Token) == typ {
				group = append(group, r)
			}
		}
		fmt.Println(rowsTable(group).Render())
	}
}

// groupOf returns the display group of t.
func groupOf(t token.Token) string {
	if t.Type == "" {
		return token.UntypedGroup
	}
	return t.Type
}
