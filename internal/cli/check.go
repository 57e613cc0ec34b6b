package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draad/tokeneditor/pkg/pipeline"
	"github.com/draad/tokeneditor/pkg/refgraph"
	"github.com/draad/tokeneditor/pkg/resolve"
	"github.com/draad/tokeneditor/pkg/token"
)

// ErrCheckFailed is returned when check finds problems. The findings
// themselves are already printed.
var ErrCheckFailed = errors.New("check failed")

// checkReport collects everything check prints.
type checkReport struct {
	missing    []string
	skipped    []string
	stale      []string
	shadowed   []string
	unresolved resolve.Report
	cycles     [][]string
}

// failures counts findings that change output values.
func (r checkReport) failures() int {
	return len(r.unresolved.Dangling) + len(r.cycles) + len(r.intoCycle())
}

// intoCycle returns the cyclic issues of tokens that are not loop members
// themselves but whose chain runs into a loop.
func (r checkReport) intoCycle() []resolve.Issue {
	members := make(map[string]bool)
	for _, cycle := range r.cycles {
		for _, name := range cycle {
			members[name] = true
		}
	}
	var out []resolve.Issue
	for _, iss := range r.unresolved.Cyclic {
		if !members[iss.Name] {
			out = append(out, iss)
		}
	}
	return out
}

// warnings counts findings that only hint at a problem.
func (r checkReport) warnings() int {
	return len(r.missing) + len(r.skipped) + len(r.stale) + len(r.shadowed)
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report dangling and cyclic references and other token problems",
		Long: `Load the project and report:

  - references to tokens that do not exist (kept verbatim in outputs)
  - reference cycles (members keep their own reference text)
  - leaves skipped because their value is not a string or number
  - token files that are configured but missing
  - saved overrides whose token no longer exists
  - names defined in more than one category (the later one wins)

Exits non-zero when dangling or cyclic references are found, or on any
finding with --strict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.openProject()
			if err != nil {
				return err
			}
			report, err := c.runCheck(cmd.Context(), p)
			if err != nil {
				return err
			}
			printCheckReport(report)
			if report.failures() > 0 || (strict && report.warnings() > 0) {
				return ErrCheckFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

// runCheck loads and resolves the project and gathers findings.
func (c *CLI) runCheck(ctx context.Context, p *project) (checkReport, error) {
	runner := pipeline.NewRunner(nil, nil, c.Logger)

	set, load, err := runner.LoadWithReport(ctx, p.sources())
	if err != nil {
		return checkReport{}, err
	}
	latest, err := p.store.Latest(ctx)
	if err != nil {
		return checkReport{}, err
	}
	set, err = runner.Apply(set, latest)
	if err != nil {
		return checkReport{}, err
	}
	resolved, err := runner.Resolve(ctx, set)
	if err != nil {
		return checkReport{}, err
	}

	return checkReport{
		missing:    load.Missing,
		skipped:    load.Skipped,
		stale:      set.StaleOverrides(),
		shadowed:   shadowedNames(set),
		unresolved: resolved.Report,
		cycles:     refgraph.Build(resolved.Source).Cycles(),
	}, nil
}

// shadowedNames lists "name (a, b)" for every token name defined in more
// than one category, in first-definition order.
func shadowedNames(set token.Set) []string {
	var order []string
	cats := make(map[string][]string)
	for _, cat := range set.Categories() {
		for _, t := range cat.Tokens {
			prev, seen := cats[t.Name]
			if !seen {
				order = append(order, t.Name)
			}
			if len(prev) == 0 || prev[len(prev)-1] != cat.Name {
				cats[t.Name] = append(prev, cat.Name)
			}
		}
	}
	var out []string
	for _, name := range order {
		if len(cats[name]) > 1 {
			out = append(out, fmt.Sprintf("%s (%s)", name, strings.Join(cats[name], ", ")))
		}
	}
	return out
}

func printCheckReport(r checkReport) {
	for _, path := range r.missing {
		printWarning("missing token file, loaded as empty: %s", path)
	}
	for _, s := range r.skipped {
		printWarning("skipped leaf with unsupported value: %s", s)
	}
	for _, name := range r.stale {
		printWarning("override targets a missing token: %s", name)
	}
	for _, s := range r.shadowed {
		printWarning("defined in more than one category, last wins: %s", s)
	}
	for _, iss := range r.unresolved.Dangling {
		printError("%s %s {%s} %s", iss.Name, iconArrow, iss.Reference, StyleDim.Render("(not found)"))
	}
	for _, cycle := range r.cycles {
		printError("cycle: %s", strings.Join(slices.Concat(cycle, cycle[:1]), " "+iconArrow+" "))
	}
	for _, iss := range r.intoCycle() {
		printError("%s %s {%s} %s", iss.Name, iconArrow, iss.Reference, StyleDim.Render("(reaches a cycle)"))
	}

	if r.failures() == 0 && r.warnings() == 0 {
		printSuccess("All references resolve")
		return
	}
	printNewline()
	summary := fmt.Sprintf("%d error(s), %d warning(s)", r.failures(), r.warnings())
	if r.failures() > 0 {
		fmt.Println(StyleError.Render(summary))
	} else {
		fmt.Println(StyleWarning.Render(summary))
	}
}

// printUnresolved lists the references a strict export rejected.
func printUnresolved(rep resolve.Report) {
	for _, iss := range rep.Dangling {
		printError("%s %s {%s} %s", iss.Name, iconArrow, iss.Reference, StyleDim.Render("(not found)"))
	}
	for _, iss := range rep.Cyclic {
		printError("%s %s {%s} %s", iss.Name, iconArrow, iss.Reference, StyleDim.Render("(cycle)"))
	}
}
