package obs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type runContextKey struct{}

// RunInfo carries per-run correlation identifiers.
type RunInfo struct {
	RunID    string
	Verifier string
	Scenario string
}

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger
)

// Init configures the global structured logger.
func Init() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger != nil {
		return
	}
	logger = newLogger(os.Stderr)
	slog.SetDefault(logger)
}

// SetOutputForTests overrides the global logger output for tests.
func SetOutputForTests(w io.Writer) func() {
	loggerMu.Lock()
	prev := logger
	logger = newLogger(w)
	slog.SetDefault(logger)
	loggerMu.Unlock()

	return func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if prev != nil {
			logger = prev
		} else {
			logger = newLogger(os.Stderr)
		}
		slog.SetDefault(logger)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				t, ok := attr.Value.Any().(time.Time)
				if ok {
					return slog.String(slog.TimeKey, t.UTC().Format(time.RFC3339Nano))
				}
			}
			return attr
		},
	})
	return slog.New(handler)
}

func globalLogger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init()
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Pkg returns a logger tagged with package name.
func Pkg(pkg string) *slog.Logger {
	return globalLogger().With("pkg", pkg)
}

// From returns a logger with run fields from context.
func From(ctx context.Context) *slog.Logger {
	l := globalLogger()
	attrs := runAttrs(RunFromContext(ctx))
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

// StartRun stores a fresh run ID and the verifier name in context.
func StartRun(ctx context.Context, verifier string) context.Context {
	return WithRun(ctx, RunInfo{
		RunID:    NewRunID(),
		Verifier: strings.TrimSpace(verifier),
	})
}

// WithScenario stores the current scenario name in context.
func WithScenario(ctx context.Context, scenario string) context.Context {
	return WithRun(ctx, RunInfo{Scenario: strings.TrimSpace(scenario)})
}

// WithRun merges non-empty run fields into context.
func WithRun(ctx context.Context, info RunInfo) context.Context {
	existing := RunFromContext(ctx)
	if info.RunID != "" {
		existing.RunID = info.RunID
	}
	if info.Verifier != "" {
		existing.Verifier = info.Verifier
	}
	if info.Scenario != "" {
		existing.Scenario = info.Scenario
	}
	return context.WithValue(ctx, runContextKey{}, existing)
}

// RunFromContext returns run fields from context.
func RunFromContext(ctx context.Context) RunInfo {
	if ctx == nil {
		return RunInfo{}
	}
	info, ok := ctx.Value(runContextKey{}).(RunInfo)
	if !ok {
		return RunInfo{}
	}
	return info
}

// RunIDFromContext returns run_id from context, or "unknown".
func RunIDFromContext(ctx context.Context) string {
	info := RunFromContext(ctx)
	if info.RunID == "" {
		return "unknown"
	}
	return info.RunID
}

// NewRunID returns a random run identifier.
func NewRunID() string {
	return "run-" + uuid.NewString()
}

func runAttrs(info RunInfo) []any {
	attrs := make([]any, 0, 6)
	if info.RunID != "" {
		attrs = append(attrs, "run_id", info.RunID)
	}
	if info.Verifier != "" {
		attrs = append(attrs, "verifier", info.Verifier)
	}
	if info.Scenario != "" {
		attrs = append(attrs, "scenario", info.Scenario)
	}
	return attrs
}
