package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/draad/tokeneditor/pkg/errors"
	"github.com/draad/tokeneditor/pkg/pipeline"
	"github.com/draad/tokeneditor/pkg/refgraph"
)

// graphCommand creates the graph command for exploring token references.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [token]",
		Short: "Show which tokens reference which",
		Long: `Show the reference graph of the project.

With a token name and no --format, print the chain the token resolves through
and every token that changes when it is overridden.

With --format dot or svg, write the graph (limited to the token's
neighbourhood when a name is given) to --output, or DOT to stdout.`,
		Example: `  tokeneditor graph color.primary
  tokeneditor graph --format svg -o tokens.svg
  tokeneditor graph button.bg --format dot | dot -Tpng > button.png`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeTokenNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			var focus string
			if len(args) == 1 {
				focus = args[0]
			}
			if format == "" && focus != "" {
				return c.runGraphInfo(cmd.Context(), focus)
			}
			if format == "" {
				format = pipeline.FormatDOT
			}
			if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return apperrors.New(apperrors.ErrCodeInvalidFormat, "graph format must be dot or svg, got %q", format)
			}
			if format == pipeline.FormatSVG && output == "" {
				return fmt.Errorf("--format svg needs --output")
			}
			opts := pipeline.Options{
				Formats:  []string{format},
				Focus:    focus,
				Detailed: detailed,
			}
			return c.runGraph(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "graph format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show values in nodes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatDOT, pipeline.FormatSVG}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runGraph renders the reference graph.
func (c *CLI) runGraph(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	p, err := c.openProject()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(p, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	set, _, err := c.edited(ctx, p)
	if err != nil {
		return err
	}
	resolved, err := runner.Resolve(ctx, set)
	if err != nil {
		return err
	}

	format := opts.Formats[0]
	var spinner *Spinner
	if format == pipeline.FormatSVG {
		spinner = newSpinner(ctx, "Rendering reference graph...")
		spinner.Start()
	}
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, resolved, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}

	if output == "" {
		_, err := os.Stdout.Write(artifacts[format])
		return err
	}
	if err := os.WriteFile(output, artifacts[format], 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	g, _ := pipeline.Graph(resolved, opts)
	printSuccess("Graph written")
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), len(g.Dangling()), cacheHit)
	return nil
}

// runGraphInfo prints the reference neighbourhood of one token.
func (c *CLI) runGraphInfo(ctx context.Context, name string) error {
	p, err := c.openProject()
	if err != nil {
		return err
	}
	set, _, err := c.edited(ctx, p)
	if err != nil {
		return err
	}
	resolved, err := pipeline.NewRunner(nil, nil, c.Logger).Resolve(ctx, set)
	if err != nil {
		return err
	}

	g := refgraph.Build(resolved.Source)
	node, ok := g.Node(name)
	if !ok {
		return apperrors.New(apperrors.ErrCodeTokenNotFound, "token %q not found", name)
	}
	printGraphInfo(g, node, resolvedValue(resolved, name))
	return nil
}

// resolvedValue returns the resolved value of the last token called name.
func resolvedValue(resolved pipeline.Resolved, name string) string {
	for i := len(resolved.Tokens) - 1; i >= 0; i-- {
		if resolved.Tokens[i].Name == name {
			return resolved.Tokens[i].Value.String()
		}
	}
	return ""
}

func printGraphInfo(g *refgraph.Graph, node refgraph.Node, resolved string) {
	fmt.Println(StyleTitle.Render(node.Name))
	printKeyValue("type", node.Type)
	printKeyValue("value", node.Value.String())
	if node.Value.IsReference() {
		printKeyValue("resolves to", resolved)
	}
	if g.InCycle(node.Name) {
		printWarning("part of a reference cycle")
	}

	if deps := g.Dependencies(node.Name); len(deps) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Resolves through"))
		fmt.Println("  " + strings.Join(append([]string{node.Name}, deps...), " "+iconArrow+" "))
	}

	direct := g.DirectDependents(node.Name)
	all := g.Dependents(node.Name)
	printNewline()
	if len(all) == 0 {
		printInfo("No token references %s", node.Name)
		return
	}
	fmt.Println(StyleHighlight.Render(fmt.Sprintf("Referenced by (%d direct, %d total)", len(direct), len(all))))
	for _, name := range all {
		printFile(name)
	}
}
