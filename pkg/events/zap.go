package events

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap writes events as structured log entries
type Zap struct {
	log *zap.Logger
}

// NewZap wraps a zap logger as a Sink
func NewZap(log *zap.Logger) *Zap {
	return &Zap{log: log}
}

// NewZapFile builds a production (JSON) zap logger writing to path
func NewZapFile(path string) (*Zap, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZap(log), nil
}

// NewZapDevelopment builds a human readable zap logger on stderr
func NewZapDevelopment() (*Zap, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return NewZap(log), nil
}

// Handle implements Sink
func (z *Zap) Handle(ev Event) {
	fields := make([]zap.Field, 0, len(ev.Fields)+1)
	fields = append(fields, zap.String("event", string(ev.Level)))
	for k, v := range ev.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	switch ev.Level {
	case LevelWarn:
		z.log.Warn(ev.Message, fields...)
	case LevelError:
		z.log.Error(ev.Message, fields...)
	default:
		z.log.Info(ev.Message, fields...)
	}
}

// Progress implements Sink
func (z *Zap) Progress(completed, total int) {
	z.log.Info("progress", zap.Int("completed", completed), zap.Int("total", total))
}

// Sync flushes buffered entries
func (z *Zap) Sync() error {
	return z.log.Sync()
}
