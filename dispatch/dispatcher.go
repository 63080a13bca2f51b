// Package dispatch renders severity-tagged messages from '{}' templates and routes them to a registered
// handler, or to standard output when no handler is registered.
//
// Dispatcher is safe for concurrent use. Handler and threshold may be changed at any time, changes take effect
// for subsequent emissions. Handlers are invoked synchronously on the emitting goroutine.
package dispatch

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

type handlerRef struct {
	h Handler
}

type errorHook struct {
	fn func(error)
}

// Dispatcher renders and delivers messages. The zero value is ready to use and writes to standard output.
type Dispatcher struct {
	handler   atomic.Pointer[handlerRef]
	threshold atomic.Int32
	onError   atomic.Pointer[errorHook]

	mu    sync.Mutex // guards out and owned
	out   io.Writer
	owned io.Closer // handler resource opened by dispatcher itself
}

// New creates dispatcher writing to standard output, with Trace threshold and no handler.
func New() *Dispatcher {
	return &Dispatcher{out: os.Stdout}
}

// SetCallback replaces current handler with callback. Nil callback restores standard output delivery.
func (d *Dispatcher) SetCallback(callback Callback) {
	if callback == nil {
		d.SetHandler(nil)
		return
	}
	d.SetHandler(CallbackFunc(callback))
}

// SetHandler replaces current handler. Nil handler restores standard output delivery.
func (d *Dispatcher) SetHandler(h Handler) {
	d.replace(h, nil)
}

// SetConsoleLogger installs human-friendly console handler writing to standard output.
func (d *Dispatcher) SetConsoleLogger() {
	d.replace(NewConsoleHandler(os.Stdout), nil)
}

// SetFileLogger installs handler appending messages to file. The file is closed when handler is replaced or
// dispatcher is closed. A message being written to the file while it is replaced or closed can be lost.
func (d *Dispatcher) SetFileLogger(filename string) error {
	fh, err := OpenFile(filename)
	if err != nil {
		return err
	}
	d.replace(fh, fh)
	return nil
}

func (d *Dispatcher) replace(h Handler, owned io.Closer) {
	var ref *handlerRef
	if h != nil {
		ref = &handlerRef{h: h}
	}

	d.mu.Lock()
	prev := d.owned
	d.owned = owned
	d.handler.Store(ref)
	d.mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
}

// Handler returns currently registered handler, or nil.
func (d *Dispatcher) Handler() Handler {
	if ref := d.handler.Load(); ref != nil {
		return ref.h
	}
	return nil
}

// SetOutput replaces writer used when no handler is registered. Nil restores standard output.
func (d *Dispatcher) SetOutput(w io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out = w
}

// SetErrorHook sets function receiving rendering errors of EmitAt and severity-named methods.
func (d *Dispatcher) SetErrorHook(fn func(error)) {
	if fn == nil {
		d.onError.Store(nil)
		return
	}
	d.onError.Store(&errorHook{fn: fn})
}

// SetSeverityThreshold sets minimal severity of delivered messages. Off suppresses everything.
func (d *Dispatcher) SetSeverityThreshold(level Severity) {
	d.threshold.Store(int32(level))
}

// SeverityThreshold returns current threshold.
func (d *Dispatcher) SeverityThreshold() Severity {
	return Severity(d.threshold.Load())
}

// Enabled reports whether messages with level would be delivered.
func (d *Dispatcher) Enabled(level Severity) bool {
	return level >= Trace && level < Off && level >= d.SeverityThreshold()
}

// Emit renders template with args and delivers the message. Messages below threshold are dropped without
// rendering.
func (d *Dispatcher) Emit(level Severity, template string, args ...any) error {
	if !d.Enabled(level) {
		return nil
	}

	msg, err := Render(template, args...)
	if err != nil {
		return err
	}

	d.deliver(level, msg)
	return nil
}

// EmitAt is like Emit, but rendering errors go to error hook instead of caller.
func (d *Dispatcher) EmitAt(level Severity, template string, args ...any) {
	if err := d.Emit(level, template, args...); err != nil {
		if hook := d.onError.Load(); hook != nil {
			hook.fn(err)
		}
	}
}

// Deliver routes already rendered message, threshold is applied.
func (d *Dispatcher) Deliver(level Severity, message string) {
	if !d.Enabled(level) {
		return
	}
	d.deliver(level, message)
}

func (d *Dispatcher) deliver(level Severity, message string) {
	if ref := d.handler.Load(); ref != nil {
		ref.h.Handle(message, level)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.out
	if out == nil {
		out = os.Stdout
	}
	_ = writeLine(out, message)
}

// Trace emits message with Trace severity.
func (d *Dispatcher) Trace(template string, args ...any) { d.EmitAt(Trace, template, args...) }

// Debug emits message with Debug severity.
func (d *Dispatcher) Debug(template string, args ...any) { d.EmitAt(Debug, template, args...) }

// Info emits message with Info severity.
func (d *Dispatcher) Info(template string, args ...any) { d.EmitAt(Info, template, args...) }

// Warn emits message with Warn severity.
func (d *Dispatcher) Warn(template string, args ...any) { d.EmitAt(Warn, template, args...) }

// Error emits message with Error severity.
func (d *Dispatcher) Error(template string, args ...any) { d.EmitAt(Error, template, args...) }

// Close releases file opened by SetFileLogger and restores standard output delivery.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	owned := d.owned
	d.owned = nil
	if owned != nil {
		d.handler.Store(nil)
	}
	d.mu.Unlock()

	if owned != nil {
		return owned.Close()
	}
	return nil
}
