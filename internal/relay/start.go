package relay

import (
	"context"
	"sync"

	"github.com/cherts/rtlog/dispatch"
	"github.com/cherts/rtlog/internal/config"
	"github.com/cherts/rtlog/internal/http"
	"github.com/cherts/rtlog/internal/log"
	"github.com/cherts/rtlog/internal/metrics"
)

// Start runs relay with dispatcher configured from config. When listen address is configured, delivered
// messages are counted and exposed on '/metrics' while relay is running.
func Start(ctx context.Context, cfg *config.Config, rc Config) error {
	log.Debug("start relay")

	d := dispatch.New()
	d.SetErrorHook(func(err error) { log.Warnln("render message failed: ", err) })

	if cfg.ListenAddress == "" {
		if err := cfg.Apply(d); err != nil {
			return err
		}
		defer closeDispatcher(d)
		return Run(ctx, rc, d)
	}

	d.SetSeverityThreshold(cfg.Severity())
	output, err := cfg.NewHandler()
	if err != nil {
		return err
	}
	if fh, ok := output.(*dispatch.FileHandler); ok {
		defer func() { _ = fh.Close() }()
	}

	reg := metrics.NewRegistry()
	counter, err := metrics.NewCountingHandler(output, reg)
	if err != nil {
		return err
	}
	d.SetHandler(counter)

	srv := http.NewServer(http.ServerConfig{Addr: cfg.ListenAddress, AuthConfig: cfg.AuthConfig}, reg.Handler())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(); err != nil {
			errCh <- err
		}
		cancel()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := Run(ctx, rc, d); err != nil {
			errCh <- err
		}
		cancel()
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnln("shutdown metrics listener failed: ", err)
	}

	wg.Wait()
	close(errCh)

	return <-errCh
}

func closeDispatcher(d *dispatch.Dispatcher) {
	if err := d.Close(); err != nil {
		log.Errorln("close output failed: ", err)
	}
}
