package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/pipeline"
)

// defaultBaseName is the file name (without extension) of exported artifacts.
const defaultBaseName = "tokens"

// exportCommand creates the export command, the main entry point of the pipeline.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		name       string
		stdout     bool
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Resolve all tokens and write CSS, JSON or graph outputs",
		Long: `Load every token file of the project, apply the saved edits, resolve
references and write one file per requested format.

Formats:
  css   custom properties under the configured selector
  json  resolved tokens nested back into a token document
  flat  resolved tokens as a JSON list of {name, value, type} records
  dot   reference graph in Graphviz DOT
  svg   reference graph rendered to SVG

Rendered outputs are cached locally; an unchanged project exports instantly.`,
		Example: `  tokeneditor export
  tokeneditor export -f css,json -o public/theme
  tokeneditor export -f css --selector ':root' --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			base := p.renderOptions()
			opts.Sources = base.Sources
			opts.Formats = parseFormats(formatsStr, base.Formats)
			if opts.Selector == "" {
				opts.Selector = base.Selector
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if stdout && len(opts.Formats) != 1 {
				return fmt.Errorf("--stdout needs exactly one format, got %d", len(opts.Formats))
			}
			if output == "" {
				output = p.cfg.Abs(p.cfg.Output)
			}
			return c.runExport(cmd.Context(), p, opts, exportTarget{dir: output, name: name, stdout: stdout}, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): css, json, flat, dot, svg (comma-separated; default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&name, "name", defaultBaseName, "base file name of the outputs")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the single requested format to stdout")
	cmd.Flags().StringVar(&opts.Selector, "selector", "", "CSS selector list for custom properties (default from config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when a reference is dangling or cyclic")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show values in graph nodes (dot, svg)")
	cmd.Flags().StringVar(&opts.Focus, "focus", "", "limit graphs to one token and its neighbourhood (dot, svg)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached outputs")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("focus", c.completeTokenNames)

	return cmd
}

// exportTarget says where artifacts go.
type exportTarget struct {
	dir    string
	name   string
	stdout bool
}

// path returns the output file for format.
func (t exportTarget) path(format string) string {
	return filepath.Join(t.dir, t.name+pipeline.Extensions[format])
}

// runExport executes the pipeline and writes artifacts.
func (c *CLI) runExport(ctx context.Context, p *project, opts pipeline.Options, target exportTarget, noCache bool) error {
	runner, err := c.newRunner(p, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Snapshot, err = p.store.Latest(ctx)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	var spinner *Spinner
	if slices.Contains(opts.Formats, pipeline.FormatSVG) && !target.stdout {
		spinner = newSpinner(ctx, "Rendering reference graph...")
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if result != nil {
			printUnresolved(result.Resolved.Report)
		}
		return fmt.Errorf("export: %w", err)
	}

	if target.stdout {
		_, err := os.Stdout.Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	if err := os.MkdirAll(target.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var written []string
	for _, format := range opts.Formats {
		path := target.path(format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Exported %d file(s)", len(written)))

	printSuccess("Export complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.TokenCount, result.Stats.ReferenceCount, result.Stats.Unresolved, result.CacheInfo.RenderHit)
	if result.Stats.Unresolved > 0 {
		printNewline()
		printNextStep("Inspect unresolved references", appName+" check")
	}
	return nil
}
