package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/config"
)

// initCommand creates the init command which writes a project file.
func (c *CLI) initCommand() *cobra.Command {
	var (
		force    bool
		scaffold bool
		selector string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a " + config.FileName + " project file",
		Long: `Write a project file with default source paths into dir (default: the
current directory). With --scaffold, empty brand and common token files are
created as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}

			cfg := config.Default()
			if selector != "" {
				cfg.Selector = selector
			}
			path := filepath.Join(dir, config.FileName)
			if err := cfg.Write(path, force); err != nil {
				return err
			}
			printSuccess("Project initialized")
			printFile(path)

			if scaffold {
				cfg.Root = dir
				for _, src := range []string{cfg.Sources.Brand, cfg.Sources.Common} {
					created, err := writeEmptyTokens(cfg.Abs(src))
					if err != nil {
						return err
					}
					if created != "" {
						printFile(created)
					}
				}
				if err := os.MkdirAll(cfg.Abs(cfg.Sources.ComponentsDir), 0o755); err != nil {
					return err
				}
			}

			printNewline()
			printNextStep("List the loaded tokens", appName+" list")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing project file")
	cmd.Flags().BoolVar(&scaffold, "scaffold", false, "create empty token source files")
	cmd.Flags().StringVar(&selector, "selector", "", "CSS selector for exported variables")
	return cmd
}

// writeEmptyTokens creates an empty token document at path unless a file
// exists there. It returns the path when a file was created.
func writeEmptyTokens(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
