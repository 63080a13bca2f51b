// Package relay passes lines of text from a reader or a followed file to a dispatcher
package relay

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/cherts/rtlog/dispatch"
	"github.com/cherts/rtlog/internal/log"
	"github.com/nxadm/tail"
)

// Config defines relay settings.
type Config struct {
	Level  dispatch.Severity // severity assigned to every relayed line
	Follow string            // file to follow, Input is used when empty
	Poll   bool              // poll followed file instead of using inotify
	Input  io.Reader
}

// Run relays lines until input is exhausted, context is cancelled or read fails. Followed files are never
// exhausted, so in follow mode Run returns only on cancel or error.
func Run(ctx context.Context, cfg Config, d *dispatch.Dispatcher) error {
	if cfg.Follow != "" {
		return follow(ctx, cfg, d)
	}
	if cfg.Input == nil {
		return errors.New("no input specified")
	}
	return read(ctx, cfg, d)
}

func read(ctx context.Context, cfg Config, d *dispatch.Dispatcher) error {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cfg.Input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	var n int
	for {
		select {
		case <-ctx.Done():
			log.Debugf("relay cancelled after %d lines", n)
			return nil
		case line, ok := <-lines:
			if !ok {
				log.Debugf("relay input exhausted after %d lines", n)
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			if relayLine(d, cfg.Level, line) {
				n++
			}
		}
	}
}

func follow(ctx context.Context, cfg Config, d *dispatch.Dispatcher) error {
	t, err := tail.TailFile(cfg.Follow, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      cfg.Poll,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()

	log.Infof("following %s", cfg.Follow)

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				_ = t.Stop()
				return line.Err
			}
			relayLine(d, cfg.Level, line.Text)
		}
	}
}

// relayLine delivers non-empty line as is, without template rendering.
func relayLine(d *dispatch.Dispatcher, level dispatch.Severity, line string) bool {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return false
	}
	d.Deliver(level, line)
	return true
}
