package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/flatten"
	tokenio "github.com/draad/tokeneditor/pkg/io"
	"github.com/draad/tokeneditor/pkg/render/css"
	"github.com/draad/tokeneditor/pkg/resolve"
	"github.com/draad/tokeneditor/pkg/token"
)

// flattenCommand creates the flatten command, which works on a single file
// outside of any project.
func (c *CLI) flattenCommand() *cobra.Command {
	var (
		resolveRefs bool
		asCSS       bool
		selector    string
	)

	cmd := &cobra.Command{
		Use:   "flatten <file>",
		Short: "Flatten one token file into a list of records",
		Long: `Read a nested token document (JSON, or YAML by extension; "-" reads JSON
from stdin) and print one {name, value, type} record per leaf.

Leaves whose value is not a string or number are skipped and logged.
With --resolve, references are substituted using only this file's tokens.`,
		Example: `  tokeneditor flatten tokens/brand.json
  tokeneditor flatten tokens/common.json --resolve --css`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			for _, name := range flatten.Skipped(doc) {
				c.Logger.Warn("skipped token with unsupported value", "token", name)
			}

			tokens := flatten.Flatten(doc)
			if resolveRefs {
				var rep resolve.Report
				tokens, rep = resolve.ResolveWithReport(tokens)
				for _, iss := range rep.Dangling {
					c.Logger.Warn("dangling reference", "token", iss.Name, "ref", iss.Reference)
				}
				for _, iss := range rep.Cyclic {
					c.Logger.Warn("cyclic reference", "token", iss.Name, "ref", iss.Reference)
				}
			}

			if asCSS {
				_, err := fmt.Fprint(os.Stdout, css.Generate(tokens, selector))
				return err
			}
			if tokens == nil {
				tokens = []token.Token{}
			}
			return tokenio.WriteJSON(tokens, os.Stdout)
		},
	}

	cmd.Flags().BoolVarP(&resolveRefs, "resolve", "r", false, "substitute references within the file")
	cmd.Flags().BoolVar(&asCSS, "css", false, "print CSS custom properties instead of JSON")
	cmd.Flags().StringVar(&selector, "selector", css.RootSelector, "CSS selector list (with --css)")

	return cmd
}

// readDocument reads a token document from path, or JSON from stdin for "-".
func readDocument(path string) (*token.Object, error) {
	if path == "-" {
		doc, err := tokenio.ReadJSON(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return doc, nil
	}
	return tokenio.ImportFile(path)
}
