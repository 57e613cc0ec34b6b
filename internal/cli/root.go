package cli

import (
	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/buildinfo"
	"github.com/draad/tokeneditor/pkg/config"
	"github.com/draad/tokeneditor/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Edit, resolve and export design tokens",
		Long: `tokeneditor loads design token files (brand, common, one file per component
and a list of custom tokens), resolves {references} between them and exports
the result as CSS custom properties, JSON or a reference graph.

Edits made with 'override', 'reset' and 'custom' are stored as snapshots next
to the project and never modify the source token files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := &logHooks{logger: c.Logger}
			observability.SetPipelineHooks(hooks)
			observability.SetSnapshotHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "project file (default: nearest "+config.FileName+")")

	// Outputs
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.flattenCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.bundleCommand())

	// Inspection
	root.AddCommand(c.listCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.browseCommand())

	// Editing
	root.AddCommand(c.overrideCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.customCommand())
	root.AddCommand(c.snapshotCommand())

	// Housekeeping
	root.AddCommand(c.initCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
