package dispatch

import (
	"fmt"
	"strings"
)

// Severity classifies a message's importance. Values are ordered, Trace is the least important.
type Severity int32

const (
	// Trace is the most verbose severity.
	Trace Severity = iota
	// Debug is used for diagnostic messages.
	Debug
	// Info is used for regular operational messages.
	Info
	// Warn is used for unexpected but recoverable conditions.
	Warn
	// Error is used for failures.
	Error
	// Off is only meaningful as a threshold, it suppresses all messages.
	Off
)

var severityNames = [...]string{
	Trace: "trace",
	Debug: "debug",
	Info:  "info",
	Warn:  "warn",
	Error: "error",
	Off:   "off",
}

// String returns lower-case severity name.
func (s Severity) String() string {
	if s < Trace || s > Off {
		return fmt.Sprintf("severity(%d)", int32(s))
	}
	return severityNames[s]
}

// ParseSeverity parses severity name, case-insensitive. "warning" is accepted as alias of "warn", "none" as alias
// of "off".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	case "off", "none":
		return Off, nil
	}
	return Off, fmt.Errorf("unknown severity '%s'", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
