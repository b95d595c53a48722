// Package cli implements the cargo-neat command-line interface.
//
// The root command analyzes the Cargo manifest tree under a path and prints
// unused dependencies, and with -m, dependencies that bypass the workspace's
// shared table. It also runs as a cargo subcommand: `cargo neat` invokes the
// binary with "neat" as its first argument, which [CargoArgs] drops.
//
// # Logging
//
// Progress goes to stderr through charmbracelet/log. --verbose (-v) or
// CARGO_NEAT_LOG=debug switches to debug level, which adds per-crate stats.
// The logger is attached to the command context and retrieved with
// loggerFromContext.
//
// # Exit Codes
//
// [ExitCode] maps the result of the root command to the process status:
// 0 clean, 1 findings, 2 processing error, 130 interrupted.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargo-neat/pkg/buildinfo"
	"github.com/matzehuels/cargo-neat/pkg/errors"
	"github.com/matzehuels/cargo-neat/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the binary name; cargo finds subcommands by the cargo- prefix.
	appName = "cargo-neat"

	// subcommandName is the first argument cargo passes to external subcommands.
	subcommandName = "neat"
)

// LogInfo is the starting log level for main.go; --verbose and
// CARGO_NEAT_LOG adjust it per run.
const LogInfo = log.InfoLevel

// Process exit codes.
const (
	ExitOK          = 0
	ExitFindings    = 1
	ExitError       = 2
	ExitInterrupted = 130
)

// ErrFindings is returned by the root command when the report lists unused
// dependencies or policy violations. It carries no message for the user; the
// report has already been printed.
var ErrFindings = stderrors.New("dependency findings reported")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // report output
	Getenv func(string) string
}

// New creates a CLI that writes reports to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		Out:    out,
		Getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := c.checkCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetOut(c.Out)
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		c.SetLogLevel(logLevel(verbose, c.Getenv))
		observability.SetAnalysisHooks(&logHooks{logger: c.Logger})
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	root.AddCommand(c.completionCommand())
	return root
}

// =============================================================================
// Process Helpers
// =============================================================================

// CargoArgs strips the subcommand name cargo inserts when the binary is run
// as `cargo neat`.
func CargoArgs(args []string) []string {
	if len(args) > 0 && args[0] == subcommandName {
		return args[1:]
	}
	return args
}

// ExitCode maps the error returned by the root command to a process status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, ErrFindings):
		return ExitFindings
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitError
	}
}

// ErrorMessage formats a fatal error for stderr, without the code prefix.
func ErrorMessage(err error) string {
	return "error: " + errors.UserMessage(err)
}
