package dispatch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	message string
	level   Severity
}

type recorder struct {
	mu      sync.Mutex
	records []record
}

func (r *recorder) callback(message string, level Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record{message: message, level: level})
}

func newTestDispatcher() (*Dispatcher, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	d := New()
	d.SetOutput(buf)
	return d, buf
}

func TestDispatcher_Callback(t *testing.T) {
	d, stdout := newTestDispatcher()
	rec := &recorder{}
	d.SetCallback(rec.callback)

	d.Info("x={}", 5)

	assert.Equal(t, []record{{message: "x=5", level: Info}}, rec.records)
	assert.Empty(t, stdout.String())
}

func TestDispatcher_Fallback(t *testing.T) {
	d, stdout := newTestDispatcher()

	d.Warn("disk at {}%", 90)
	assert.Equal(t, "disk at 90%\n", stdout.String())

	d.Info("hello")
	assert.Equal(t, "disk at 90%\nhello\n", stdout.String())
}

func TestDispatcher_ReplaceCallback(t *testing.T) {
	d, stdout := newTestDispatcher()
	first, second := &recorder{}, &recorder{}

	d.SetCallback(first.callback)
	d.Info("one")
	d.SetCallback(second.callback)
	d.Error("two {}", 2)

	assert.Equal(t, []record{{message: "one", level: Info}}, first.records)
	assert.Equal(t, []record{{message: "two 2", level: Error}}, second.records)

	// nil callback restores standard output
	d.SetCallback(nil)
	d.Debug("three")
	assert.Nil(t, d.Handler())
	assert.Equal(t, "three\n", stdout.String())
	assert.Len(t, second.records, 1)
}

func TestDispatcher_SeverityMethods(t *testing.T) {
	d, _ := newTestDispatcher()
	rec := &recorder{}
	d.SetCallback(rec.callback)

	d.Trace("t")
	d.Debug("d")
	d.Info("i")
	d.Warn("w")
	d.Error("e")
	d.EmitAt(Warn, "custom {}", 1)

	assert.Equal(t, []record{
		{message: "t", level: Trace},
		{message: "d", level: Debug},
		{message: "i", level: Info},
		{message: "w", level: Warn},
		{message: "e", level: Error},
		{message: "custom 1", level: Warn},
	}, rec.records)
}

func TestDispatcher_Threshold(t *testing.T) {
	testCases := []struct {
		threshold Severity
		want      []string
	}{
		{threshold: Trace, want: []string{"trace", "debug", "info", "warn", "error"}},
		{threshold: Info, want: []string{"info", "warn", "error"}},
		{threshold: Error, want: []string{"error"}},
		{threshold: Off, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.threshold.String(), func(t *testing.T) {
			d, stdout := newTestDispatcher()
			d.SetSeverityThreshold(tc.threshold)
			assert.Equal(t, tc.threshold, d.SeverityThreshold())

			for _, s := range []Severity{Trace, Debug, Info, Warn, Error} {
				d.EmitAt(s, s.String())
			}

			var got []string
			if out := strings.TrimSuffix(stdout.String(), "\n"); out != "" {
				got = strings.Split(out, "\n")
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDispatcher_Errors(t *testing.T) {
	d, stdout := newTestDispatcher()

	var hooked []error
	d.SetErrorHook(func(err error) { hooked = append(hooked, err) })

	d.Info("{} {}", 1)
	d.Info("{}", "text")

	require.Len(t, hooked, 2)
	assert.ErrorIs(t, hooked[0], ErrArgCount)
	assert.ErrorIs(t, hooked[1], ErrArgType)
	assert.Empty(t, stdout.String())

	err := d.Emit(Info, "{}", 1.0)
	assert.ErrorIs(t, err, ErrArgType)

	// filtered messages are not rendered, so no error
	d.SetSeverityThreshold(Error)
	assert.NoError(t, d.Emit(Info, "{}"))

	// without hook errors are dropped
	d.SetErrorHook(nil)
	d.Error("{}")
	assert.Len(t, hooked, 2)
}

func TestDispatcher_Deliver(t *testing.T) {
	d, stdout := newTestDispatcher()
	d.SetSeverityThreshold(Info)

	d.Deliver(Info, "raw {} 100%")
	d.Deliver(Debug, "hidden")

	assert.Equal(t, "raw {} 100%\n", stdout.String())
}

func TestDispatcher_SetFileLogger(t *testing.T) {
	d, stdout := newTestDispatcher()
	path := filepath.Join(t.TempDir(), "rt.log")

	require.NoError(t, d.SetFileLogger(path))
	d.Info("first {}", 1)
	d.Error("second")

	// replacing handler closes file
	rec := &recorder{}
	d.SetCallback(rec.callback)
	d.Info("third")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first 1\nsecond\n", string(content))
	assert.Len(t, rec.records, 1)
	assert.Empty(t, stdout.String())

	// append on reopen
	require.NoError(t, d.SetFileLogger(path))
	d.Info("fourth")
	require.NoError(t, d.Close())
	assert.Nil(t, d.Handler())

	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first 1\nsecond\nfourth\n", string(content))

	assert.Error(t, d.SetFileLogger(filepath.Join(t.TempDir(), "missing", "rt.log")))
}

func TestDispatcher_Zerolog(t *testing.T) {
	d, stdout := newTestDispatcher()
	buf := &bytes.Buffer{}
	d.SetHandler(NewZerologHandler(zerolog.New(buf)))

	d.Warn("queue size {}", 10)

	assert.JSONEq(t, `{"level":"warn","message":"queue size 10"}`, buf.String())
	assert.Empty(t, stdout.String())
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ZerologLevel(Trace))
	assert.Equal(t, zerolog.DebugLevel, ZerologLevel(Debug))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(Info))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel(Warn))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(Error))
	assert.Equal(t, zerolog.NoLevel, ZerologLevel(Off))
}

func TestConsoleHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleHandler(buf).Handle("console message", Info)
	assert.Contains(t, buf.String(), "console message")
}

func TestMultiHandler(t *testing.T) {
	first, second := &recorder{}, &recorder{}
	buf := &bytes.Buffer{}

	m := MultiHandler{CallbackFunc(first.callback), nil, NewWriterHandler(buf), CallbackFunc(second.callback)}
	m.Handle("fan out", Debug)

	assert.Equal(t, []record{{message: "fan out", level: Debug}}, first.records)
	assert.Equal(t, []record{{message: "fan out", level: Debug}}, second.records)
	assert.Equal(t, "fan out\n", buf.String())
}

func TestDispatcher_Concurrent(t *testing.T) {
	d, _ := newTestDispatcher()
	rec := &recorder{}
	d.SetCallback(rec.callback)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				d.Info("worker {} message {}", i, j)
				if j%10 == 0 {
					d.SetSeverityThreshold(Trace)
				}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, rec.records, 800)
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Same(t, d, Default())

	rec := &recorder{}
	SetCallback(rec.callback)
	defer SetCallback(nil)
	SetSeverityThreshold(Debug)
	defer SetSeverityThreshold(Trace)

	Tracef("skipped")
	Debugf("d {}", 1)
	Infof("i")
	Warnf("w")
	Errorf("e")
	EmitAt(Info, "at {}", 2)

	assert.Equal(t, []record{
		{message: "d 1", level: Debug},
		{message: "i", level: Info},
		{message: "w", level: Warn},
		{message: "e", level: Error},
		{message: "at 2", level: Info},
	}, rec.records)
}

func redirectStdout(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = f
	t.Cleanup(func() {
		os.Stdout = orig
		_ = f.Close()
	})
	return f
}

func TestDispatcher_ZeroValue(t *testing.T) {
	f := redirectStdout(t)

	var d Dispatcher
	assert.NotPanics(t, func() { d.Info("zero {}", 1) })

	buf := &bytes.Buffer{}
	d.SetOutput(buf)
	d.Info("buffered")
	assert.Equal(t, "buffered\n", buf.String())

	// nil output restores standard output
	d.SetOutput(nil)
	assert.NotPanics(t, func() { d.Warn("restored") })

	content, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "zero 1\nrestored\n", string(content))
}

func TestDispatcher_ConsoleTrace(t *testing.T) {
	d, stdout := newTestDispatcher()
	buf := &bytes.Buffer{}
	d.SetHandler(NewConsoleHandler(buf))

	d.Trace("trace message")

	assert.Contains(t, buf.String(), "TRC")
	assert.Contains(t, buf.String(), "trace message")
	assert.Empty(t, stdout.String())
}

func TestDispatcher_ReplacedFileHandler(t *testing.T) {
	d, _ := newTestDispatcher()
	path := filepath.Join(t.TempDir(), "rt.log")

	require.NoError(t, d.SetFileLogger(path))
	d.Info("kept")
	old := d.Handler()
	require.NotNil(t, old)

	d.SetCallback((&recorder{}).callback)

	// write racing the replacement reaches closed file and is lost
	assert.NotPanics(t, func() { old.Handle("late", Info) })

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kept\n", string(content))
}
