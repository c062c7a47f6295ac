package logging

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap.SugaredLogger to Logger.
type ZapLogger struct {
	l *zap.SugaredLogger
}

// NewZapLogger wraps l. Caller annotations point at the code calling the
// adapter rather than at the adapter itself.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// New builds a zap-backed Logger. In dev mode it uses zap's development
// console encoder; otherwise JSON with ISO8601 timestamps on stderr.
// An empty level means debug in dev mode and info otherwise.
func New(level string, dev bool) (*ZapLogger, error) {
	lvl := levelFromString(level)
	if dev && strings.TrimSpace(level) == "" {
		lvl = zapcore.DebugLevel
	}

	if dev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(lvl)
		l, err := c.Build()
		if err != nil {
			return nil, err
		}
		return NewZapLogger(l), nil
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stderr), lvl)

	return NewZapLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))), nil
}

// Nop returns a Logger that discards everything.
func Nop() *ZapLogger {
	return NewZapLogger(zap.NewNop())
}

func levelFromString(l string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *ZapLogger) Debug(_ context.Context, msg string, args ...any) {
	z.l.Debugw(msg, args...)
}

func (z *ZapLogger) Info(_ context.Context, msg string, args ...any) {
	z.l.Infow(msg, args...)
}

func (z *ZapLogger) Warn(_ context.Context, msg string, args ...any) {
	z.l.Warnw(msg, args...)
}

func (z *ZapLogger) Error(_ context.Context, msg string, args ...any) {
	z.l.Errorw(msg, args...)
}

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{l: z.l.With(args...)}
}

// Enabled reports whether entries at lvl are written.
func (z *ZapLogger) Enabled(lvl zapcore.Level) bool {
	return z.l.Desugar().Core().Enabled(lvl)
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.l.Sync()
}
