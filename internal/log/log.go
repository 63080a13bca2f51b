// Package log is a rtlog application logger
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stderr
	app              = "rtlog"
	level            = zerolog.InfoLevel
	logger           = build()
)

// build creates logger from current settings, mu must be held.
func build() zerolog.Logger {
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", app).Logger()
}

// SetLevel sets logging level: debug, info, warn, error. Unknown levels fall back to info.
func SetLevel(l string) {
	mu.Lock()
	defer mu.Unlock()

	unknown := false
	switch strings.ToLower(l) {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
		unknown = true
	}
	logger = build()

	if unknown {
		logger.Warn().Msgf("unknown log level '%s', fallback to 'info'", l)
	}
}

// SetApplication sets application name attached to every record.
func SetApplication(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	app = name
	logger = build()
}

// SetOutput redirects log records to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	logger = build()
}

func emit(l zerolog.Level, msg string) {
	mu.RLock()
	defer mu.RUnlock()
	logger.WithLevel(l).Msg(msg)
}

// Debug prints message with DEBUG severity
func Debug(msg string) { emit(zerolog.DebugLevel, msg) }

// Debugf prints formatted message with DEBUG severity
func Debugf(format string, v ...any) { emit(zerolog.DebugLevel, fmt.Sprintf(format, v...)) }

// Debugln concatenates arguments and prints them with DEBUG severity
func Debugln(v ...any) { emit(zerolog.DebugLevel, fmt.Sprint(v...)) }

// Info prints message with INFO severity
func Info(msg string) { emit(zerolog.InfoLevel, msg) }

// Infof prints formatted message with INFO severity
func Infof(format string, v ...any) { emit(zerolog.InfoLevel, fmt.Sprintf(format, v...)) }

// Infoln concatenates arguments and prints them with INFO severity
func Infoln(v ...any) { emit(zerolog.InfoLevel, fmt.Sprint(v...)) }

// Warn prints message with WARNING severity
func Warn(msg string) { emit(zerolog.WarnLevel, msg) }

// Warnf prints formatted message with WARNING severity
func Warnf(format string, v ...any) { emit(zerolog.WarnLevel, fmt.Sprintf(format, v...)) }

// Warnln concatenates arguments and prints them with WARNING severity
func Warnln(v ...any) { emit(zerolog.WarnLevel, fmt.Sprint(v...)) }

// Error prints message with ERROR severity
func Error(msg string) { emit(zerolog.ErrorLevel, msg) }

// Errorf prints formatted message with ERROR severity
func Errorf(format string, v ...any) { emit(zerolog.ErrorLevel, fmt.Sprintf(format, v...)) }

// Errorln concatenates arguments and prints them with ERROR severity
func Errorln(v ...any) { emit(zerolog.ErrorLevel, fmt.Sprint(v...)) }
