package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
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
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded design.toml (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks forwards cell and library events to a logger.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnViewAdded(cell, kind string, replaced bool) {
	if replaced {
		h.logger.Warn("view replaced", "cell", cell, "kind", kind)
		return
	}
	h.logger.Debug("view added", "cell", cell, "kind", kind)
}

func (h logHooks) OnAccessFailure(subject string, err error) {
	h.logger.Error("shared access failed", "subject", subject, "err", err)
}

func (h logHooks) OnCellAdded(library, cell string) {
	h.logger.Debug("cell added", "library", library, "cell", cell)
}

func (h logHooks) OnInstanceAdded(parent, instance, child string) {
	h.logger.Debug("instance placed", "parent", parent, "instance", instance, "cell", child)
}

func (h logHooks) OnCycleRejected(parent, child string) {
	h.logger.Warn("instance refused, hierarchy would be cyclic", "parent", parent, "cell", child)
}
