// Package http is a rtlog http helper
package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cherts/rtlog/internal/log"
)

// Status code
const (
	// Code 200
	StatusOK = http.StatusOK
	// Code 401
	StatusUnauthorized = http.StatusUnauthorized
)

// AuthConfig defines configuration settings for authentication.
type AuthConfig struct {
	EnableAuth bool   `yaml:"-"`        // flag tells about authentication should be enabled
	Username   string `yaml:"username"` // username used for basic authentication
	Password   string `yaml:"password"` // password used for basic authentication
	EnableTLS  bool   `yaml:"-"`        // flag tells about TLS should be enabled
	Keyfile    string `yaml:"keyfile"`  // path to key file
	Certfile   string `yaml:"certfile"` // path to certificate file
}

// Validate check authentication options of AuthConfig and returns toggle flags.
func (cfg AuthConfig) Validate() (bool, bool, error) {
	var enableAuth, enableTLS bool

	if (cfg.Username == "" && cfg.Password != "") || (cfg.Username != "" && cfg.Password == "") {
		return false, false, fmt.Errorf("authentication settings invalid")
	}

	if (cfg.Keyfile == "" && cfg.Certfile != "") || (cfg.Keyfile != "" && cfg.Certfile == "") {
		return false, false, fmt.Errorf("TLS settings invalid")
	}

	if cfg.Username != "" && cfg.Password != "" {
		enableAuth = true
	}

	if cfg.Keyfile != "" && cfg.Certfile != "" {
		enableTLS = true
	}

	return enableAuth, enableTLS, nil
}

// ServerConfig defines HTTP server configuration.
type ServerConfig struct {
	Addr string
	AuthConfig
}

// Server defines HTTP server.
type Server struct {
	config ServerConfig
	server *http.Server
}

// NewServer creates new HTTP server instance serving metrics on '/metrics'.
func NewServer(cfg ServerConfig, handlerMetrics http.Handler) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot())
	if cfg.EnableAuth {
		mux.Handle("/metrics", basicAuth(cfg.AuthConfig, handlerMetrics))
	} else {
		mux.Handle("/metrics", handlerMetrics)
	}

	return &Server{
		config: cfg,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           mux,
			IdleTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
	}
}

// Handler returns root handler of the server.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Serve method starts listening and serving requests. Returns nil after Shutdown.
func (s *Server) Serve() error {
	var err error
	if s.config.EnableTLS {
		log.Infof("listen on https://%s", s.server.Addr)
		err = s.server.ListenAndServeTLS(s.config.Certfile, s.config.Keyfile)
	} else {
		log.Infof("listen on http://%s", s.server.Addr)
		err = s.server.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleRoot defines handler for '/' endpoint.
func handleRoot() http.HandlerFunc {
	const htmlTemplate = `<html>
<head><title>rtlog / log relay</title></head>
<body>
rtlog / log relay
<p><a href="/metrics">Metrics</a></p>
</body>
</html>
`

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, err := w.Write([]byte(htmlTemplate))
		if err != nil {
			log.Warnln("response write failed: ", err)
		}
	})
}

func basicAuth(cfg AuthConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok {
			userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
			if userMatch && passMatch {
				next.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		http.Error(w, "Unauthorized", StatusUnauthorized)
	})
}
