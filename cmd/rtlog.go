// Package main is a rtlog main package
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cherts/rtlog/dispatch"
	"github.com/cherts/rtlog/internal/config"
	"github.com/cherts/rtlog/internal/log"
	"github.com/cherts/rtlog/internal/relay"
)

var (
	appName, gitTag, gitCommit, gitBranch string
)

var severities = []string{"trace", "debug", "info", "warn", "error"}

func main() {
	app := kingpin.New("rtlog", "Severity-tagged message dispatcher.")
	app.Version(fmt.Sprintf("%s %s %s-%s", appName, gitTag, gitCommit, gitBranch))
	var (
		logLevel   = app.Flag("log-level", "set log level: debug, info, warn, error").Default("info").Envar("LOG_LEVEL").String()
		configFile = app.Flag("config-file", "path to config file").Default("").Envar("RTLOG_CONFIG_FILE").String()

		emitCmd      = app.Command("emit", "render template with arguments and deliver it")
		emitLevel    = emitCmd.Flag("level", "message severity").Default("info").Enum(severities...)
		emitTemplate = emitCmd.Arg("template", "message template, '{}' marks a placeholder").Required().String()
		emitArgs     = emitCmd.Arg("args", "placeholder values").Strings()

		relayCmd    = app.Command("relay", "deliver lines read from stdin or a followed file")
		relayLevel  = relayCmd.Flag("level", "severity of relayed lines").Default("info").Enum(severities...)
		relayFollow = relayCmd.Flag("follow", "follow file instead of reading stdin").String()
		relayPoll   = relayCmd.Flag("poll", "poll followed file for changes instead of inotify").Bool()
	)
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetLevel(*logLevel)
	log.SetApplication(appName)

	cfg, err := config.NewConfig(*configFile)
	if err != nil {
		log.Errorln("create config failed: ", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Errorln("validate config failed: ", err)
		os.Exit(1)
	}
	log.Debugf("configuration: %s", cfg)

	switch command {
	case emitCmd.FullCommand():
		if err := emit(dispatch.Default(), cfg, mustSeverity(*emitLevel), *emitTemplate, *emitArgs); err != nil {
			log.Errorln("emit failed: ", err)
			os.Exit(1)
		}
	case relayCmd.FullCommand():
		log.Infoln("starting ", appName, " ", gitTag, " ", gitCommit, "-", gitBranch)

		ctx, cancel := context.WithCancel(context.Background())

		var doExit = make(chan error, 2)
		go func() {
			doExit <- listenSignals()
			cancel()
		}()

		go func() {
			doExit <- relay.Start(ctx, cfg, relay.Config{
				Level:  mustSeverity(*relayLevel),
				Follow: *relayFollow,
				Poll:   *relayPoll,
				Input:  os.Stdin,
			})
			cancel()
		}()

		if err := <-doExit; err != nil {
			log.Warnf("relay stopped: '%s'", err)
		}
	}
}

// emit delivers single message using dispatcher configured from cfg.
func emit(d *dispatch.Dispatcher, cfg *config.Config, level dispatch.Severity, template string, args []string) error {
	if err := cfg.Apply(d); err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	return d.Emit(level, template, parseArgs(args)...)
}

// parseArgs converts integer-looking arguments to int64, other arguments are kept as strings.
func parseArgs(args []string) []any {
	values := make([]any, len(args))
	for i, a := range args {
		if n, err := strconv.ParseInt(a, 10, 64); err == nil {
			values[i] = n
			continue
		}
		if n, err := strconv.ParseUint(a, 10, 64); err == nil {
			values[i] = n
			continue
		}
		values[i] = a
	}
	return values
}

func mustSeverity(s string) dispatch.Severity {
	level, err := dispatch.ParseSeverity(s)
	if err != nil {
		panic(err)
	}
	return level
}

func listenSignals() error {
	c := make(chan os.Signal, 1)
	defer signal.Stop(c)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	return fmt.Errorf("%s", <-c)
}
