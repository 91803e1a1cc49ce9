// Package events carries the leveled event stream and progress signal that the
// swap pipeline emits for whatever presentation layer is attached.
package events

import (
	"fmt"
	"time"
)

// Level is the severity/kind of an event
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelLoading Level = "loading"
	LevelStep    Level = "step"
)

// Event is one log line of the stream
type Event struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  map[string]any
}

// Sink consumes events and progress updates
type Sink interface {
	Handle(ev Event)
	Progress(completed, total int)
}

// Logger fans events out to a set of sinks. A Logger is cheap to derive
// with With; derived loggers share sinks.
type Logger struct {
	sinks  []Sink
	fields map[string]any
	now    func() time.Time
}

// New creates a logger writing to the given sinks
func New(sinks ...Sink) *Logger {
	return &Logger{
		sinks: sinks,
		now:   time.Now,
	}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return New()
}

// With returns a logger that attaches key=value to every event
func (l *Logger) With(key string, value any) *Logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		sinks:  l.sinks,
		fields: fields,
		now:    l.now,
	}
}

func (l *Logger) emit(level Level, format string, args ...any) {
	if l == nil || len(l.sinks) == 0 {
		return
	}
	ev := Event{
		Time:    l.now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		Fields:  l.fields,
	}
	for _, s := range l.sinks {
		s.Handle(ev)
	}
}

func (l *Logger) Info(format string, args ...any)    { l.emit(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...any)    { l.emit(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...any)   { l.emit(LevelError, format, args...) }
func (l *Logger) Success(format string, args ...any) { l.emit(LevelSuccess, format, args...) }
func (l *Logger) Loading(format string, args ...any) { l.emit(LevelLoading, format, args...) }
func (l *Logger) Step(format string, args ...any)    { l.emit(LevelStep, format, args...) }

// Progress reports the number of attempts finished so far
func (l *Logger) Progress(completed, total int) {
	if l == nil {
		return
	}
	for _, s := range l.sinks {
		s.Progress(completed, total)
	}
}
