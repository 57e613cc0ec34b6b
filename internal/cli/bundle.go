package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/bundle"
	"github.com/draad/tokeneditor/pkg/pipeline"
)

// bundleCommand creates the bundle command for zip import and export.
func (c *CLI) bundleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Export or import all token files as one zip archive",
		Long: `A bundle holds brand.json, common.json, components/<name>.json and
custom-tokens.json with the current edits applied, plus a manifest of
content hashes that is verified on import.`,
	}

	cmd.AddCommand(c.bundleExportCommand())
	cmd.AddCommand(c.bundleImportCommand())

	return cmd
}

// bundleExportCommand creates the "bundle export" subcommand.
func (c *CLI) bundleExportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export [file.zip]",
		Short: "Write the edited token files to a zip archive",
		Example: `  tokeneditor bundle export
  tokeneditor bundle export release.zip
  tokeneditor bundle export --dir out/tokens`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			set, _, err := c.edited(cmd.Context(), p)
			if err != nil {
				return err
			}

			if dir != "" {
				written, err := bundle.WriteFiles(dir, set)
				if err != nil {
					return err
				}
				printSuccess("Wrote %d token file(s)", len(written))
				for _, path := range written {
					printFile(path)
				}
				return nil
			}

			path := bundle.DefaultArchive
			if len(args) == 1 {
				path = args[0]
			}
			if err := bundle.WriteFile(path, set); err != nil {
				return err
			}
			printSuccess("Bundle written")
			printFile(path)
			printDetail("%d tokens in %d categories", set.Len(), len(set.Categories()))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "write loose files to a directory instead of a zip")
	return cmd
}

// bundleImportCommand creates the "bundle import" subcommand.
func (c *CLI) bundleImportCommand() *cobra.Command {
	var (
		dir        string
		unwrapRoot bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.zip>",
		Short: "Unpack a bundle into token source files",
		Long: `Read a bundle and verify its manifest. Without --dir the token files
replace the project's configured sources and a snapshot is saved that
clears the previous edits, since the bundle already carries them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := bundle.ReadFile(args[0], bundle.ReadOptions{UnwrapRoot: unwrapRoot})
			if err != nil {
				return err
			}

			if dir != "" {
				written, err := bundle.WriteFiles(dir, contents.Set)
				if err != nil {
					return err
				}
				printImported(contents, written)
				return nil
			}

			p, err := c.openProject()
			if err != nil {
				return err
			}
			written, err := bundle.WriteLayout(p.layout(), contents.Set)
			if err != nil {
				return err
			}
			printImported(contents, written)
			for _, comp := range p.unlisted(contents.Set) {
				printWarning("Component %q is not listed in sources.components and will not be loaded", comp)
			}
			return c.resetEdits(cmd.Context(), p, "Import "+filepath.Base(args[0]))
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "write to a directory in bundle layout instead of the project sources")
	cmd.Flags().BoolVar(&unwrapRoot, "unwrap-root", false, "strip a single root key wrapping each file")
	return cmd
}

func printImported(contents *bundle.Contents, written []string) {
	printSuccess("Imported %d tokens", contents.Set.Len())
	for _, path := range written {
		printFile(path)
	}
	if contents.Verified {
		printDetail("Manifest verified")
	} else {
		printWarning("Bundle has no manifest; contents were not verified")
	}
	if len(contents.Skipped) > 0 {
		printWarning("Skipped %d malformed entr%s", len(contents.Skipped), pluralY(len(contents.Skipped)))
		for _, s := range contents.Skipped {
			printDetail("%s", s)
		}
	}
}

// resetEdits saves a snapshot without overrides whose custom tokens are the
// ones now on disk. Projects without snapshots are left alone.
func (c *CLI) resetEdits(ctx context.Context, p *project, message string) error {
	latest, err := p.store.Latest(ctx)
	if err != nil || latest == nil {
		return err
	}
	set, err := pipeline.NewRunner(nil, nil, c.Logger).Load(ctx, p.sources())
	if err != nil {
		return err
	}
	return c.commit(ctx, p, latest, set, message)
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
