// Package config is a rtlog configuration helper
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cherts/rtlog/dispatch"
	"github.com/cherts/rtlog/internal/http"
	"github.com/cherts/rtlog/internal/log"
	"github.com/cherts/rtlog/internal/validators"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	defaultThreshold       = "trace"
	defaultOutput          = validators.OutputStdout
	defaultShutdownTimeout = 5 * time.Second

	envPrefix = "RTLOG_"
)

// Config defines application's configuration.
type Config struct {
	// Minimal severity of delivered messages
	Threshold string `yaml:"threshold" validate:"severity"`
	// Where messages go: stdout, console or file
	Output string `yaml:"output" validate:"output"`
	// Log file path for 'file' output
	File string `yaml:"file" validate:"required_if=Output file,omitempty,file_path"`
	// Metrics listener address, empty disables listener
	ListenAddress string `yaml:"listen_address" validate:"omitempty,hostname_port"`
	// Graceful shutdown timeout of metrics listener
	ShutdownTimeout string `yaml:"shutdown_timeout" validate:"timeout"`
	// TLS and Basic auth configuration
	AuthConfig http.AuthConfig `yaml:"authentication"`
}

// NewConfig creates new config based on config file or return default config if config file is not specified.
// Environment variables override values from file.
func NewConfig(configFilePath string) (*Config, error) {
	config := &Config{}
	if configFilePath != "" {
		configRealPath, err := RealPath(configFilePath)
		if err != nil {
			return nil, err
		}
		log.Infoln("read configuration from ", configRealPath)
		content, err := os.ReadFile(filepath.Clean(configRealPath))
		if err != nil {
			return nil, err
		}
		err = yaml.Unmarshal(content, config)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", configRealPath, err)
		}
	}

	config.mergeEnv(os.Environ())
	return config, nil
}

// RealPath resolves symlinks of config file path.
func RealPath(filePath string) (string, error) {
	fileInfo, err := os.Lstat(filepath.Clean(filePath))
	if err != nil {
		return filePath, err
	}

	switch {
	case fileInfo.Mode()&fs.ModeSymlink != 0:
		log.Debugln("is symlink")
		link, err := filepath.EvalSymlinks(filePath)
		if err != nil {
			return filePath, err
		}
		log.Debugln("resolved symlink to ", link)
		return link, nil
	case fileInfo.Mode().IsDir():
		return filePath, fmt.Errorf("%s is a directory", filePath)
	}

	return filePath, nil
}

// mergeEnv overrides config values with RTLOG_* environment variables.
func (c *Config) mergeEnv(environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}

		key, value, _ := strings.Cut(env, "=")

		switch key {
		case "RTLOG_THRESHOLD":
			c.Threshold = value
		case "RTLOG_OUTPUT":
			c.Output = value
		case "RTLOG_FILE":
			c.File = value
		case "RTLOG_LISTEN_ADDRESS":
			c.ListenAddress = value
		case "RTLOG_SHUTDOWN_TIMEOUT":
			c.ShutdownTimeout = value
		case "RTLOG_AUTH_USERNAME":
			c.AuthConfig.Username = value
		case "RTLOG_AUTH_PASSWORD":
			c.AuthConfig.Password = value
		case "RTLOG_AUTH_KEYFILE":
			c.AuthConfig.Keyfile = value
		case "RTLOG_AUTH_CERTFILE":
			c.AuthConfig.Certfile = value
		}
	}
}

// Validate checks configuration for stupid values and set defaults
func (c *Config) Validate() error {
	if c.Threshold == "" {
		c.Threshold = defaultThreshold
	}
	if c.Output == "" {
		c.Output = defaultOutput
	}

	v := validator.New()
	validators.Register(v)
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Validate authentication settings.
	enableAuth, enableTLS, err := c.AuthConfig.Validate()
	if err != nil {
		return err
	}
	c.AuthConfig.EnableAuth = enableAuth
	c.AuthConfig.EnableTLS = enableTLS

	return nil
}

// Severity returns configured threshold.
func (c *Config) Severity() dispatch.Severity {
	s, err := dispatch.ParseSeverity(c.Threshold)
	if err != nil {
		return dispatch.Trace
	}
	return s
}

// Timeout returns metrics listener shutdown timeout.
func (c *Config) Timeout() time.Duration {
	if d, err := time.ParseDuration(c.ShutdownTimeout); err == nil && d > 0 {
		return d
	}
	return defaultShutdownTimeout
}

// Apply configures dispatcher threshold and output.
func (c *Config) Apply(d *dispatch.Dispatcher) error {
	d.SetSeverityThreshold(c.Severity())

	switch c.Output {
	case validators.OutputConsole:
		d.SetConsoleLogger()
	case validators.OutputFile:
		if err := d.SetFileLogger(c.File); err != nil {
			return err
		}
		log.Infof("messages go to %s", c.File)
	default:
		d.SetHandler(nil)
	}

	return nil
}

// NewHandler creates handler for configured output. Nil handler means standard output. File handler must be
// closed by caller.
func (c *Config) NewHandler() (dispatch.Handler, error) {
	switch c.Output {
	case validators.OutputConsole:
		return dispatch.NewConsoleHandler(os.Stdout), nil
	case validators.OutputFile:
		fh, err := dispatch.OpenFile(c.File)
		if err != nil {
			return nil, err
		}
		return fh, nil
	}
	return nil, nil
}

// String returns short description of the configuration, without credentials.
func (c *Config) String() string {
	ret := fmt.Sprintf("threshold: %s, output: %s", c.Threshold, c.Output)
	if c.File != "" {
		ret += fmt.Sprintf(", file: %s", c.File)
	}
	if c.ListenAddress != "" {
		ret += fmt.Sprintf(", listen: %s", c.ListenAddress)
	}
	return ret
}
