package pipeline

import (
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/alvesvaren/snapchat-memories-downloader/internal/logging"
)

// Sink receives per-item completion events. Implementations must tolerate
// concurrent ItemDone calls.
type Sink interface {
	Start(total int)
	ItemDone(name string, err error)
	Finish()
}

// NopSink ignores all events.
type NopSink struct{}

func (NopSink) Start(int) {}

func (NopSink) ItemDone(string, error) {}

func (NopSink) Finish() {}

// BarSink renders an interactive progress bar. Intended for TTY sessions.
type BarSink struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func NewBarSink(out io.Writer) *BarSink {
	return &BarSink{out: out}
}

func (s *BarSink) Start(total int) {
	s.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSetDescription("downloading & tagging"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (s *BarSink) ItemDone(string, error) {
	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

func (s *BarSink) Finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
	}
}

// LogSink reports progress through the logger, for non-interactive runs
// where a redrawn bar would just smear the output.
type LogSink struct {
	logger *slog.Logger
	total  int
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logging.NewComponentLogger(logger, "progress")}
}

func (s *LogSink) Start(total int) {
	s.total = total
	s.logger.Info("run started", logging.Int("items", total))
}

func (s *LogSink) ItemDone(name string, err error) {
	if err != nil {
		return // failures already get their own log line
	}
	s.logger.Debug("item complete", logging.String(logging.FieldFile, name))
}

func (s *LogSink) Finish() {
	s.logger.Info("run finished", logging.Int("items", s.total))
}
