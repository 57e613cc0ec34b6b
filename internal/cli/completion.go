package cli

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/pipeline"
	"github.com/draad/tokeneditor/pkg/token"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tokeneditor.

To load completions:

Bash:
  $ source <(tokeneditor completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tokeneditor completion bash > /etc/bash_completion.d/tokeneditor
  # macOS:
  $ tokeneditor completion bash > $(brew --prefix)/etc/bash_completion.d/tokeneditor

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tokeneditor completion zsh > "${fpath[1]}/_tokeneditor"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ tokeneditor completion fish | source

  # To load completions for each session, execute once:
  $ tokeneditor completion fish > ~/.config/fish/completions/tokeneditor.fish

PowerShell:
  PS> tokeneditor completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> tokeneditor completion powershell > tokeneditor.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeFormats completes comma-separated --format values.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		out = append(out, prefix+f)
	}
	slices.Sort(out)
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeTokenNames completes the first positional argument with token names.
func (c *CLI) completeTokenNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	set, ok := c.completionSet(cmd.Context())
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	seen := make(map[string]bool)
	for _, t := range set.All() {
		if !seen[t.Name] && strings.HasPrefix(t.Name, toComplete) {
			seen[t.Name] = true
			names = append(names, t.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeCategories completes category names.
func (c *CLI) completeCategories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	set, ok := c.completionSet(cmd.Context())
	if !ok {
		return []string{token.Brand, token.Common, token.Custom}, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, cat := range set.Categories() {
		if strings.HasPrefix(cat.Name, toComplete) {
			names = append(names, cat.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeCustomNames completes names of custom tokens.
func (c *CLI) completeCustomNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	set, ok := c.completionSet(cmd.Context())
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, t := range set.Custom() {
		if strings.HasPrefix(t.Name, toComplete) {
			names = append(names, t.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completionSet loads the edited set quietly. Completion must never print.
func (c *CLI) completionSet(ctx context.Context) (token.Set, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := c.openProject()
	if err != nil {
		return token.Set{}, false
	}
	set, _, err := c.edited(ctx, p)
	if err != nil {
		return token.Set{}, false
	}
	return set, true
}
