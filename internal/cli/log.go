package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargo-neat/pkg/observability"
)

// envLogLevel names the environment variable that sets the log level when
// --verbose is not given (debug, info, warn, error).
const envLogLevel = "CARGO_NEAT_LOG"

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel picks the level from --verbose, then $CARGO_NEAT_LOG, then info.
// Unknown values of the variable are ignored.
func logLevel(verbose bool, getenv func(string) string) log.Level {
	if verbose {
		return log.DebugLevel
	}
	if v := strings.TrimSpace(getenv(envLogLevel)); v != "" {
		if level, err := log.ParseLevel(v); err == nil {
			return level
		}
	}
	return log.InfoLevel
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Analyzed 4 crates (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports engine events through the CLI logger. charmbracelet/log
// serializes writes, so it is safe for the concurrent crate callbacks.
type logHooks struct {
	logger *log.Logger
}

var _ observability.AnalysisHooks = (*logHooks)(nil)

func (h *logHooks) OnLocateComplete(_ context.Context, root string, stats observability.LocateStats, err error) {
	if err != nil {
		return
	}
	h.logger.Infof("Found %d crates in %d workspaces under %s", stats.Crates, stats.Workspaces, root)
}

func (h *logHooks) OnCrateComplete(_ context.Context, manifestPath string, stats observability.CrateStats, err error) {
	if err != nil {
		h.logger.Debug("skipped crate", "manifest", manifestPath, "err", err)
		return
	}
	h.logger.Debug("analyzed crate",
		"manifest", manifestPath,
		"files", stats.Files,
		"identifiers", stats.Identifiers,
		"dependencies", stats.Dependencies,
		"unused", stats.Unused,
		"violations", stats.Violations,
		"duration", stats.Duration.Round(time.Microsecond))
}

func (h *logHooks) OnRunComplete(_ context.Context, root string, _ observability.RunStats, err error) {
	if err != nil {
		h.logger.Debug("analysis aborted", "root", root, "err", err)
	}
}
