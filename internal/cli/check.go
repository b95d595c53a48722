package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargo-neat/pkg/analysis"
	"github.com/matzehuels/cargo-neat/pkg/errors"
	pkgio "github.com/matzehuels/cargo-neat/pkg/io"
)

// Report formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// checkOpts holds the flag values of the root command.
type checkOpts struct {
	mandatory    bool
	policy       string
	lenientGlobs bool
	membersOnly  bool
	format       string
	output       string
	jobs         int
}

// checkCommand creates the root command, which analyzes a manifest tree.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{policy: string(analysis.PolicyName), format: formatText}

	cmd := &cobra.Command{
		Use:   appName + " [path]",
		Short: "Find unused and non-workspace dependencies in a Cargo workspace",
		Long: `cargo-neat analyzes every Cargo.toml under path (default: the current
directory) and reports dependencies that no source file references, both in
member crates and in the shared [workspace.dependencies] table.

With --mandatory-workspace-dependencies it also reports dependencies that a
member crate declares itself instead of inheriting with workspace = true.

Dependencies that are only linked, or only enable features of another crate,
can be listed under [package.metadata.cargo-neat] ignored (or
[workspace.metadata.cargo-neat]) to silence them.

Exit status is 0 when nothing was found, 1 when there are findings and 2 when
the tree could not be analyzed.`,
		Example: `  # Check the workspace in the current directory
  cargo neat

  # Enforce inheritance of shared dependencies
  cargo neat -m

  # Only flag duplicates whose version matches the shared entry
  cargo-neat ./my-workspace -m --policy version

  # Machine-readable report
  cargo-neat --format json > report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return c.runCheck(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.mandatory, "mandatory-workspace-dependencies", "m", false, "report dependencies that do not inherit an existing shared workspace entry")
	cmd.Flags().StringVar(&opts.policy, "policy", opts.policy, "policy rule with -m: name, version or registry")
	cmd.Flags().BoolVar(&opts.lenientGlobs, "lenient-globs", false, "warn instead of failing when a workspace member pattern matches nothing")
	cmd.Flags().BoolVar(&opts.membersOnly, "include-members-only", false, "skip crates that belong to no workspace")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "report format: text or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write the JSON report to this file")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "crates analyzed in parallel (default: number of CPUs)")

	rules := make([]string, len(analysis.PolicyRules))
	for i, r := range analysis.PolicyRules {
		rules[i] = string(r)
	}
	_ = cmd.RegisterFlagCompletionFunc("policy", cobra.FixedCompletions(rules, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatText, formatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// toOptions validates the flags and converts them into analysis options.
func (o checkOpts) toOptions() (analysis.Options, error) {
	if o.format != formatText && o.format != formatJSON {
		return analysis.Options{}, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (available: %s, %s)", o.format, formatText, formatJSON)
	}
	rule, err := analysis.ParsePolicyRule(o.policy)
	if err != nil {
		return analysis.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --policy")
	}
	if o.jobs < 0 {
		return analysis.Options{}, errors.New(errors.ErrCodeInvalidInput, "--jobs must not be negative, got %d", o.jobs)
	}
	return analysis.Options{
		Policy:       o.mandatory,
		Rule:         rule,
		LenientGlobs: o.lenientGlobs,
		MembersOnly:  o.membersOnly,
		Workers:      o.jobs,
	}, nil
}

func (c *CLI) runCheck(cmd *cobra.Command, root string, opts checkOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	analysisOpts, err := opts.toOptions()
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	report, err := analysis.NewRunner(logger).Run(ctx, root, analysisOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d crates", report.Crates))

	for _, issue := range report.Issues {
		logger.Warn(issue.Message, "code", issue.Code)
	}

	if opts.output != "" {
		if err := pkgio.ExportReport(report, opts.output); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write report").WithPath(opts.output)
		}
		logger.Info("Wrote report", "path", opts.output)
	}

	switch opts.format {
	case formatJSON:
		if err := pkgio.WriteReport(report, c.Out); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write report")
		}
	default:
		renderReport(c.Out, report)
	}

	if report.HasFindings() {
		return ErrFindings
	}
	return nil
}
