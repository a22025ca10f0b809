package remote

import (
	"context"
	_ "embed"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/trellis/pkg/component"
	"github.com/vango-dev/trellis/pkg/protocol"
)

//go:embed client.js
var clientJS []byte

type hubMetrics struct {
	sessions prometheus.Gauge
	events   prometheus.Counter
	patches  prometheus.Counter
	bytes    prometheus.Counter
}

func newHubMetrics(reg prometheus.Registerer) *hubMetrics {
	f := promauto.With(reg)
	return &hubMetrics{
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "trellis",
			Subsystem: "remote",
			Name:      "sessions",
			Help:      "Number of connected sessions.",
		}),
		events: f.NewCounter(prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "remote",
			Name:      "events_total",
			Help:      "Client events dispatched to listeners.",
		}),
		patches: f.NewCounter(prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "remote",
			Name:      "patches_total",
			Help:      "Patches sent to clients.",
		}),
		bytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "trellis",
			Subsystem: "remote",
			Name:      "sent_bytes_total",
			Help:      "Bytes written to client connections.",
		}),
	}
}

// Hub owns the sessions of one app.
type Hub struct {
	app      *component.Options
	config   *Config
	upgrader websocket.Upgrader
	metrics  *hubMetrics

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub creates a Hub serving app. A nil config uses DefaultConfig.
func NewHub(app *component.Options, config *Config) *Hub {
	if config == nil {
		config = DefaultConfig()
	}
	config.fillDefaults()

	return &Hub{
		app:    app,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		metrics:  newHubMetrics(config.Registry),
		sessions: make(map[string]*Session),
	}
}

// Routes returns a router serving the page, the client script and the
// websocket endpoint.
func (h *Hub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.servePage)
	r.Get("/client.js", serveClient)
	r.Get("/ws", h.ServeWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func serveClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(clientJS)
}

// ServeWS upgrades the request and serves a new session until the client
// disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.config.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s, err := newSession(h, uuid.NewString())
	if err != nil {
		h.config.Logger.Error("session start failed", "error", err)
		em := &protocol.ErrorMessage{Code: protocol.ErrServerError, Message: "session start failed", Fatal: true}
		conn.WriteMessage(websocket.BinaryMessage, em.Frame().Encode())
		conn.Close()
		return
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	h.metrics.sessions.Inc()
	s.logger.Info("session opened", "remote", r.RemoteAddr)

	s.serve(conn)
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.id]
	delete(h.sessions, s.id)
	h.mu.Unlock()
	if ok {
		h.metrics.sessions.Dec()
	}
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Each calls fn for every live session.
func (h *Hub) Each(fn func(s *Session)) {
	for _, s := range h.snapshot() {
		fn(s)
	}
}

func (h *Hub) snapshot() []*Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		list = append(list, s)
	}
	return list
}

// Update runs fn on the root instance of every session, concurrently, and
// returns the first error. Sessions closing meanwhile are skipped.
func (h *Hub) Update(ctx context.Context, fn func(root *component.Instance)) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range h.snapshot() {
		g.Go(func() error {
			err := s.Do(ctx, fn)
			select {
			case <-s.Done():
				return nil
			default:
				return err
			}
		})
	}
	return g.Wait()
}

// Close closes every session.
func (h *Hub) Close() {
	var wg sync.WaitGroup
	for _, s := range h.snapshot() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Close()
		}()
	}
	wg.Wait()
}
