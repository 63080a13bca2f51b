package dispatch

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Handler receives rendered messages. Handle is called synchronously on the emitting goroutine.
type Handler interface {
	Handle(message string, level Severity)
}

// Callback is a host-supplied function receiving rendered messages.
type Callback func(message string, level Severity)

// CallbackFunc is an adapter to allow the use of ordinary functions as Handler.
type CallbackFunc func(message string, level Severity)

// Handle calls f(message, level).
func (f CallbackFunc) Handle(message string, level Severity) { f(message, level) }

// WriterHandler writes every message as a single newline-terminated line.
type WriterHandler struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterHandler returns handler writing to w.
func NewWriterHandler(w io.Writer) *WriterHandler {
	return &WriterHandler{w: w}
}

// Handle writes message followed by newline. Write errors are dropped, there is nobody to report them to.
func (h *WriterHandler) Handle(message string, _ Severity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = writeLine(h.w, message)
}

// FileHandler appends messages to a file, one line per message.
type FileHandler struct {
	*WriterHandler
	file *os.File
}

// OpenFile opens (or creates) file for appending and returns handler writing to it.
func OpenFile(path string) (*FileHandler, error) {
	f, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640) // #nosec G302 G304
	if err != nil {
		return nil, err
	}
	return &FileHandler{WriterHandler: NewWriterHandler(f), file: f}, nil
}

// Name returns path of the underlying file.
func (h *FileHandler) Name() string {
	return h.file.Name()
}

// Close closes the underlying file.
func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file.Close()
}

// ZerologHandler forwards messages to zerolog logger using matching zerolog level.
type ZerologHandler struct {
	logger zerolog.Logger
}

// NewZerologHandler returns handler writing to logger.
func NewZerologHandler(logger zerolog.Logger) *ZerologHandler {
	return &ZerologHandler{logger: logger}
}

// NewConsoleHandler returns zerolog handler with human-friendly console output to w.
func NewConsoleHandler(w io.Writer) *ZerologHandler {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	return NewZerologHandler(zerolog.New(out).Level(zerolog.TraceLevel).With().Timestamp().Logger())
}

// Handle implements Handler.
func (h *ZerologHandler) Handle(message string, level Severity) {
	h.logger.WithLevel(ZerologLevel(level)).Msg(message)
}

// ZerologLevel maps severity to zerolog level.
func ZerologLevel(level Severity) zerolog.Level {
	switch level {
	case Trace:
		return zerolog.TraceLevel
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	}
	return zerolog.NoLevel
}

// MultiHandler passes every message to each of its handlers in order.
type MultiHandler []Handler

// Handle implements Handler.
func (m MultiHandler) Handle(message string, level Severity) {
	for _, h := range m {
		if h != nil {
			h.Handle(message, level)
		}
	}
}

func writeLine(w io.Writer, message string) error {
	buf := make([]byte, 0, len(message)+1)
	buf = append(buf, message...)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}
