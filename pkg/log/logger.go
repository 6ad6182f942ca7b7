package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SetupLogger installs a JSON slog handler on os.Stderr as the slog default
// and makes the default provider follow it.
func SetupLogger(loglevel string) error {
	return SetupLoggerTo(os.Stderr, loglevel)
}

// SetupLoggerTo is SetupLogger with an explicit destination.
func SetupLoggerTo(w io.Writer, loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	ops := slog.HandlerOptions{
		AddSource: level == slog.LevelDebug,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr.Key = "severity"
			case slog.MessageKey:
				attr.Key = "message"
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
	return nil
}

// ToLogLevel parses one of "debug", "info", "warn" or "error".
func ToLogLevel(level string) (slog.Level, error) {
	switch level {
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", level)
	}
}

var (
	providerMu sync.RWMutex
	provider   LoggerProvider = &slogProvider{}
)

// SetProvider replaces the process-wide logger provider.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

// ResetProvider restores the default provider, which writes through
// slog.Default().
func ResetProvider() {
	SetProvider(&slogProvider{})
}

// GetLogger returns a logger from the process-wide provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// slogProvider resolves slog.Default() lazily so SetupLogger affects loggers
// handed out before it ran.
type slogProvider struct {
	mu       sync.Mutex
	minLevel *Level
}

func (p *slogProvider) GetLogger() Logger {
	return &slogLogger{provider: p}
}

func (p *slogProvider) GetLoggerWithName(name string) Logger {
	return &slogLogger{provider: p, fields: []any{ComponentKey, name}}
}

func (p *slogProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minLevel = &level
}

func (p *slogProvider) allows(level Level) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.minLevel == nil || level >= *p.minLevel
}

type slogLogger struct {
	provider *slogProvider
	fields   []any
}

func (l *slogLogger) log(level Level, msg string, fields []any) {
	if !l.provider.allows(level) {
		return
	}
	args := make([]any, 0, len(l.fields)+len(fields)+1)
	args = append(args, l.fields...)
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			args = append(args, ErrAttr(err))
			fields = fields[1:]
		}
	}
	args = append(args, fields...)
	slog.Default().Log(context.Background(), slog.Level(level), msg, args...)
}

func (l *slogLogger) Debug(msg string, fields ...any) { l.log(LevelDebug, msg, fields) }
func (l *slogLogger) Info(msg string, fields ...any)  { l.log(LevelInfo, msg, fields) }
func (l *slogLogger) Warn(msg string, fields ...any)  { l.log(LevelWarn, msg, fields) }
func (l *slogLogger) Error(msg string, fields ...any) { l.log(LevelError, msg, fields) }

func (l *slogLogger) With(fields ...any) Logger {
	merged := make([]any, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &slogLogger{provider: l.provider, fields: merged}
}

func (l *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return l.provider.allows(level) && slog.Default().Enabled(ctx, slog.Level(level))
}
