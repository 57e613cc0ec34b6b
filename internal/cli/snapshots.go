package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/snapshot"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snapshots"},
		Short:   "Inspect and restore saved edits",
		Long: `Every edit is saved as a numbered snapshot holding all overrides and custom
tokens at that point. The newest snapshot is applied on every run.`,
	}

	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotShowCommand())
	cmd.AddCommand(c.snapshotRestoreCommand())
	cmd.AddCommand(c.snapshotPruneCommand())
	cmd.AddCommand(c.snapshotPathCommand())

	return cmd
}

// snapshotListCommand creates the "snapshot list" subcommand.
func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			snaps, err := p.store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				printInfo("No snapshots yet")
				return nil
			}

			rows := make([][]string, len(snaps))
			for i, s := range snaps {
				rows[i] = []string{
					fmt.Sprintf("v%d", s.Version),
					s.ShortID(),
					formatRelativeTime(s.CreatedAt),
					s.Summary(),
					truncate(s.Message, 50),
				}
			}
			fmt.Println(newTable([]string{"", "ID", "Created", "Content", "Message"}, rows, 1).Render())
			return nil
		},
	}
}

// snapshotShowCommand creates the "snapshot show" subcommand.
func (c *CLI) snapshotShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show the edits in a snapshot (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			var snap *snapshot.Snapshot
			if len(args) == 1 {
				snap, err = p.store.Get(cmd.Context(), args[0])
			} else {
				snap, err = p.store.Latest(cmd.Context())
			}
			if err != nil {
				return err
			}
			if snap == nil {
				printInfo("No snapshots yet")
				return nil
			}
			printSnapshot(snap)
			return nil
		},
	}
}

func printSnapshot(s *snapshot.Snapshot) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Snapshot v%d", s.Version)))
	printKeyValue("id", s.ID)
	if s.Parent != "" {
		printKeyValue("parent", s.Parent)
	}
	printKeyValue("created", s.CreatedAt.Local().Format(time.RFC3339))
	if s.Message != "" {
		printKeyValue("message", s.Message)
	}
	printKeyValue("fingerprint", s.Fingerprint)

	if s.Overrides.Len() > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Overrides"))
		var rows [][]string
		for _, cat := range sortedKeys(s.Overrides) {
			vals := s.Overrides[cat]
			for _, name := range sortedKeys(vals) {
				rows = append(rows, []string{cat, name, truncate(vals[name].String(), maxValueWidth)})
			}
		}
		fmt.Println(newTable([]string{"Category", "Name", "Value"}, rows, 0).Render())
	}
	if len(s.Custom) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Custom tokens"))
		rows := make([][]string, len(s.Custom))
		for i, t := range s.Custom {
			rows[i] = []string{t.Name, t.Type, truncate(t.Value.String(), maxValueWidth)}
		}
		fmt.Println(newTable([]string{"Name", "Type", "Value"}, rows, -1).Render())
	}
	if len(s.Removed) > 0 {
		printNewline()
		fmt.Println(StyleHighlight.Render("Removed custom tokens"))
		for _, name := range s.Removed {
			printDetail("%s", name)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// snapshotRestoreCommand creates the "snapshot restore" subcommand.
func (c *CLI) snapshotRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Make an older snapshot's edits current again",
		Long: `Save a new snapshot with the edits of an older one. History is kept; the
restore itself can be undone by restoring the snapshot before it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject()
			if err != nil {
				return err
			}
			target, err := p.store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			set, latest, err := c.edited(ctx, p)
			if err != nil {
				return err
			}
			// Drop the current custom edits so only the target's remain.
			restored := target.Apply(set.WithCustom(set.LoadedCustom()))
			return c.commit(ctx, p, latest, restored,
				fmt.Sprintf("Restore v%d (%s)", target.Version, target.ShortID()))
		},
	}
}

// snapshotPruneCommand creates the "snapshot prune" subcommand.
func (c *CLI) snapshotPruneCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = p.cfg.Snapshots.Keep
			}
			if keep < 1 {
				return fmt.Errorf("--keep must be at least 1")
			}
			n, err := p.store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			printSuccess("Removed %d snapshot(s)", n)
			printDetail("Directory: %s", p.store.Path())
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 0, "number of snapshots to keep (default from config)")
	return cmd
}

// snapshotPathCommand creates the "snapshot path" subcommand.
func (c *CLI) snapshotPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path [id]",
		Short: "Print the snapshot directory, or one snapshot's file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Println(p.store.Path())
				return nil
			}
			snap, err := p.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(p.store.SnapshotPath(snap.ID))
			return nil
		},
	}
}

// formatRelativeTime renders t relative to now for recent times.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
