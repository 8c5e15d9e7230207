package utilities

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
)

type logger struct {
	*log.Logger
	config struct {
		Level Level
	}
}

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

// NewLogger creates a logger that writes to stdout unless an io.Writer is
// provided as a parameter.
func NewLogger(parameters ...any) interface {
	internal.Configurer
	Logger
} {
	var w io.Writer = os.Stdout
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case io.Writer:
			w = p
		}
	}
	l := &logger{
		Logger: log.New(w, "", log.Ltime|log.Ldate|log.Lmsgprefix),
	}
	l.config.Level = Error
	return l
}

func (l *logger) Configure(envs map[string]string) error {
	l.config.Level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.Level = atoLogLevel(logLevel)
	}
	return nil
}

func (l *logger) printf(ctx context.Context, level Level, format string, v ...any) {
	if l.config.Level < level {
		return
	}
	prefix := fmt.Sprintf("[%s] ", level)
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		prefix = fmt.Sprintf("[%s] (%s) ", level, correlationId)
	}
	l.Printf(prefix+format, v...)
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	l.printf(ctx, Error, format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	l.printf(ctx, Info, format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	l.printf(ctx, Debug, format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	l.printf(ctx, Trace, format, v...)
}

// nopLogger is used by components that weren't given a logger
type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Trace(context.Context, string, ...any) {}
