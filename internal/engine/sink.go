package engine

import (
	"sync"

	"go.uber.org/zap"
)

// Severity classifies a campaign event line for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Sink receives human-readable campaign event lines, tagged with severity so
// a display layer does not have to parse the text.
type Sink interface {
	Emit(sev Severity, line string)
}

// ZapSink forwards campaign events to a zap logger.
type ZapSink struct {
	Log *zap.Logger
}

func (s *ZapSink) Emit(sev Severity, line string) {
	switch sev {
	case SeverityError:
		s.Log.Error(line)
	case SeverityWarn:
		s.Log.Warn(line)
	default:
		s.Log.Info(line)
	}
}

// Buffer keeps the most recent event lines in memory for display.
type Buffer struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = 200
	}
	return &Buffer{max: max}
}

func (b *Buffer) Emit(sev Severity, line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = append(b.lines, "["+string(sev)+"] "+line)
	if len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := make([]string, len(b.lines))
	copy(cp, b.lines)
	return cp
}

type multiSink []Sink

// MultiSink fans events out to every sink in order.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Emit(sev Severity, line string) {
	for _, s := range m {
		s.Emit(sev, line)
	}
}
