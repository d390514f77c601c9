package diagnostics

import (
	"sync"

	"go.uber.org/zap"

	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
	"github.com/custodia-labs/recall/internal/logger"
)

// Ensure sinks implement the interface.
var (
	_ driven.Diagnostics = (*LoggerSink)(nil)
	_ driven.Diagnostics = (*ZapSink)(nil)
	_ driven.Diagnostics = (*Collector)(nil)
	_ driven.Diagnostics = Nop{}
)

// LoggerSink writes events as verbose warnings.
type LoggerSink struct{}

// NewLoggerSink creates a sink backed by the verbose logger.
func NewLoggerSink() *LoggerSink {
	return &LoggerSink{}
}

// Report writes the event if verbose logging is enabled.
func (s *LoggerSink) Report(event domain.DiagnosticEvent) {
	switch {
	case event.Kind == domain.DiagLineSkipped:
		logger.Warn("skipped %s:%d: %s", event.Path, event.Line, event.Reason)
	case event.Err != nil:
		logger.Warn("%s %s: %v", event.Kind, event.Path, event.Err)
	default:
		logger.Warn("%s %s: %s", event.Kind, event.Path, event.Reason)
	}
}

// ZapSink writes events as structured zap entries.
// Skipped lines are logged at debug level, everything else at warn.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink backed by a zap logger. A nil logger discards events.
func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{logger: l}
}

// Report writes the event.
func (s *ZapSink) Report(event domain.DiagnosticEvent) {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("path", event.Path),
	}
	if event.Line > 0 {
		fields = append(fields, zap.Int("line", event.Line))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
	}

	if event.Kind == domain.DiagLineSkipped {
		s.logger.Debug("transcript line skipped", fields...)
		return
	}
	s.logger.Warn("transcript diagnostic", fields...)
}

// Collector keeps every reported event. It is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []domain.DiagnosticEvent
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report records the event.
func (c *Collector) Report(event domain.DiagnosticEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the recorded events in report order.
func (c *Collector) Events() []domain.DiagnosticEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.DiagnosticEvent, len(c.events))
	copy(out, c.events)
	return out
}

// ByPath groups recorded events by path.
func (c *Collector) ByPath() map[string][]domain.DiagnosticEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]domain.DiagnosticEvent)
	for _, e := range c.events {
		out[e.Path] = append(out[e.Path], e)
	}
	return out
}

// Count returns the number of recorded events of a kind.
func (c *Collector) Count(kind domain.DiagnosticKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards recorded events.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// Nop discards every event.
type Nop struct{}

// Report does nothing.
func (Nop) Report(domain.DiagnosticEvent) {}

// Tee reports every event to each sink in order. Nil sinks are skipped.
type Tee []driven.Diagnostics

// Report forwards the event.
func (t Tee) Report(event domain.DiagnosticEvent) {
	for _, s := range t {
		if s != nil {
			s.Report(event)
		}
	}
}
