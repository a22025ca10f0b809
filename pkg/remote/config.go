package remote

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/telemetry"
)

// Config configures a Hub.
type Config struct {
	// Title is the title of the served page.
	Title string

	// RuntimeOptions are applied to every session runtime.
	RuntimeOptions []reactive.Option

	// Metrics and Tracer are shared by all session runtimes and patchers.
	// Optional.
	Metrics *telemetry.Metrics
	Tracer  *telemetry.Tracer

	// Registry registers the hub's own collectors. Optional.
	Registry prometheus.Registerer

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger

	// CheckOrigin validates websocket upgrade requests.
	// Default: same host only.
	CheckOrigin func(r *http.Request) bool

	ReadBufferSize  int
	WriteBufferSize int

	// WriteTimeout bounds a single websocket write. Default: 10s.
	WriteTimeout time.Duration

	// PingInterval is the websocket heartbeat period. Default: 30s.
	PingInterval time.Duration

	// MaxMessageSize bounds client frames. Default: 64KB.
	MaxMessageSize int64

	// SendBuffer is the number of frames queued per session before the
	// session is considered stuck and closed. Default: 64.
	SendBuffer int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:           "trellis",
		Logger:          slog.Default(),
		CheckOrigin:     SameOrigin,
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  64 * 1024,
		SendBuffer:      64,
	}
}

// fillDefaults sets every unset field from DefaultConfig.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PingInterval == 0 {
		c.PingInterval = d.PingInterval
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendBuffer == 0 {
		c.SendBuffer = d.SendBuffer
	}
}

// SameOrigin accepts requests without an Origin header and requests whose
// Origin host matches the Host header.
func SameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := parseOrigin(origin)
	if err != nil {
		return false
	}
	return u == r.Host
}

// AllowOrigins returns a CheckOrigin func accepting the same origin plus
// the listed hosts.
func AllowOrigins(hosts ...string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		allowed[h] = true
	}
	return func(r *http.Request) bool {
		if SameOrigin(r) {
			return true
		}
		host, err := parseOrigin(r.Header.Get("Origin"))
		return err == nil && allowed[host]
	}
}
