package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/draad/tokeneditor/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Exported 3 files (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports pipeline and snapshot events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.SnapshotHooks = (*logHooks)(nil)
)

func (h *logHooks) OnLoadStart(_ context.Context, files int) {
	h.logger.Debug("loading token files", "files", files)
}

func (h *logHooks) OnLoadComplete(_ context.Context, tokens int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("load complete", "tokens", tokens, "duration", d)
}

func (h *logHooks) OnResolveStart(_ context.Context, tokens int) {
	h.logger.Debug("resolving", "tokens", tokens)
}

func (h *logHooks) OnResolveComplete(_ context.Context, tokens, unresolved int, d time.Duration) {
	h.logger.Debug("resolve complete", "tokens", tokens, "unresolved", unresolved, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", formats)
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *logHooks) OnSnapshotSave(_ context.Context, id string, version int) {
	h.logger.Debug("saved snapshot", "id", id, "version", version)
}

func (h *logHooks) OnSnapshotLoad(_ context.Context, id string, found bool) {
	h.logger.Debug("loaded snapshot", "id", id, "found", found)
}

func (h *logHooks) OnSnapshotPrune(_ context.Context, removed int) {
	h.logger.Debug("pruned snapshots", "removed", removed)
}
