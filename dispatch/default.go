package dispatch

import "sync"

var (
	defaultOnce       sync.Once
	defaultDispatcher *Dispatcher
)

// Default returns process-wide dispatcher, created on first use.
func Default() *Dispatcher {
	defaultOnce.Do(func() {
		defaultDispatcher = New()
	})
	return defaultDispatcher
}

// SetCallback replaces handler of default dispatcher.
func SetCallback(callback Callback) { Default().SetCallback(callback) }

// SetSeverityThreshold sets threshold of default dispatcher.
func SetSeverityThreshold(level Severity) { Default().SetSeverityThreshold(level) }

// EmitAt emits message on default dispatcher.
func EmitAt(level Severity, template string, args ...any) {
	Default().EmitAt(level, template, args...)
}

// Tracef emits message with Trace severity on default dispatcher.
func Tracef(template string, args ...any) { Default().EmitAt(Trace, template, args...) }

// Debugf emits message with Debug severity on default dispatcher.
func Debugf(template string, args ...any) { Default().EmitAt(Debug, template, args...) }

// Infof emits message with Info severity on default dispatcher.
func Infof(template string, args ...any) { Default().EmitAt(Info, template, args...) }

// Warnf emits message with Warn severity on default dispatcher.
func Warnf(template string, args ...any) { Default().EmitAt(Warn, template, args...) }

// Errorf emits message with Error severity on default dispatcher.
func Errorf(template string, args ...any) { Default().EmitAt(Error, template, args...) }
