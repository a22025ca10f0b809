package remote

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/trellis/pkg/component"
	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/patch"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/protocol"
	"github.com/vango-dev/trellis/pkg/reactive"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// destroyTimeout bounds how long Close waits for the root to be destroyed.
const destroyTimeout = time.Second

// Session is one connected client. All component state of the session is
// owned by its loop goroutine.
type Session struct {
	id     string
	hub    *Hub
	logger *slog.Logger

	doc       *memdom.Document
	rt        *reactive.Runtime
	loop      *reactive.Loop
	renderer  *component.Renderer
	container *memdom.Node
	root      *component.Instance

	// Loop goroutine only.
	pending   []protocol.Patch
	listeners map[uint32]*memdom.Node
	seq       uint64
	enc       *protocol.Encoder
	totals    memdom.Counts

	send chan []byte
	conn *websocket.Conn

	done   chan struct{}
	closed atomic.Bool
}

// newSession mounts app into a fresh document and queues the hello frame
// followed by the initial patches.
func newSession(h *Hub, id string) (*Session, error) {
	cfg := h.config
	s := &Session{
		id:        id,
		hub:       h,
		logger:    cfg.Logger.With("session", id),
		doc:       memdom.NewDocument(),
		listeners: make(map[uint32]*memdom.Node),
		enc:       protocol.NewEncoder(),
		send:      make(chan []byte, cfg.SendBuffer),
		done:      make(chan struct{}),
	}

	opts := append([]reactive.Option{}, cfg.RuntimeOptions...)
	opts = append(opts,
		reactive.WithLogger(s.logger),
		reactive.WithMetrics(cfg.Metrics),
		reactive.WithTracer(cfg.Tracer),
	)
	s.rt = reactive.NewRuntime(opts...)
	s.loop = reactive.NewLoop(s.rt)

	p := patch.New(s.doc, s.doc,
		patch.WithPredicates(platform.HTML{}),
		patch.WithWarnHandler(s.rt.Warn),
		patch.WithRecorder(s.record),
		patch.WithMetrics(cfg.Metrics),
		patch.WithTracer(cfg.Tracer),
	)
	s.renderer = component.NewRenderer(s.rt, p, component.WithLogger(s.logger))

	s.container = s.doc.Build(vdom.Div(vdom.ID("app")))
	s.doc.Attach(s.doc.Body(), s.container)
	mount := s.doc.Build(vdom.Empty())
	s.doc.Attach(s.container, mount)

	hello := &protocol.ServerHello{
		Version:   protocol.CurrentVersion,
		SessionID: id,
		Root:      nodeID(s.container),
		Mount:     nodeID(mount),
	}
	s.enqueue(protocol.NewFrame(protocol.FrameHello, protocol.EncodeServerHello(hello)).Encode())

	go func() {
		if err := s.loop.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Debug("loop stopped", "error", err)
		}
	}()

	err := s.run(context.Background(), func() {
		s.root = s.renderer.Mount(h.app, mount, false)
	})
	if err != nil {
		s.loop.Close()
		return nil, err
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Do runs fn with the root instance on the session loop and sends the
// resulting patches.
func (s *Session) Do(ctx context.Context, fn func(root *component.Instance)) error {
	return s.run(ctx, func() { fn(s.root) })
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// HTML renders the current document of the session.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.loop.Do(ctx, func() {
		html = memdom.RenderString(s.container)
	})
	return html, err
}

func (s *Session) run(ctx context.Context, fn func()) error {
	return s.loop.Do(ctx, func() {
		defer s.flush()
		defer s.rt.Tick()
		fn()
	})
}

// record converts an applied operation and keeps the listener index
// current.
func (s *Session) record(op patch.Op) {
	p, ok := toPatch(op)
	if !ok {
		return
	}
	s.pending = append(s.pending, p)

	node := asNode(op.Node)
	switch op.Kind {
	case patch.OpAddListener:
		s.listeners[p.Node] = node
	case patch.OpRemoveListener:
		if len(node.Listeners) == 0 {
			delete(s.listeners, p.Node)
		}
	case patch.OpInsert, patch.OpMove:
		s.index(node)
	case patch.OpRemove:
		s.unindex(node)
	}
}

func (s *Session) index(n *memdom.Node) {
	if len(n.Listeners) > 0 {
		s.listeners[nodeID(n)] = n
	}
	for _, c := range n.Children {
		s.index(c)
	}
}

func (s *Session) unindex(n *memdom.Node) {
	delete(s.listeners, nodeID(n))
	for _, c := range n.Children {
		s.unindex(c)
	}
}

// flush sends the pending patches as one frame.
func (s *Session) flush() {
	if len(s.pending) == 0 {
		return
	}
	s.seq++
	s.enc.Reset()
	protocol.EncodePatchesTo(s.enc, &protocol.PatchesFrame{Seq: s.seq, Patches: s.pending})
	payload := append([]byte(nil), s.enc.Bytes()...)
	s.hub.metrics.patches.Add(float64(len(s.pending)))
	s.pending = s.pending[:0]
	c := s.doc.Counts()
	s.totals.Creates += c.Creates
	s.totals.Inserts += c.Inserts
	s.totals.Moves += c.Moves
	s.totals.Removes += c.Removes
	s.doc.ResetLog()

	s.enqueue(protocol.NewFrame(protocol.FramePatches, payload).Encode())
}

func (s *Session) enqueue(frame []byte) {
	select {
	case <-s.done:
	case s.send <- frame:
	default:
		s.logger.Warn("send buffer full, closing session")
		go s.Close()
	}
}

// dispatch invokes the listener the client addressed.
func (s *Session) dispatch(ev *protocol.Event) error {
	var handled bool
	err := s.run(context.Background(), func() {
		node, ok := s.listeners[ev.Node]
		if !ok {
			return
		}
		handled = node.Dispatch(ev.Name, ev.Value)
	})
	if err != nil {
		return err
	}
	s.hub.metrics.events.Inc()
	if !handled {
		s.sendError(protocol.ErrHandlerNotFound, "no handler for "+ev.Name, false)
	}
	return nil
}

func (s *Session) sendError(code protocol.ErrorCode, message string, fatal bool) {
	em := &protocol.ErrorMessage{Code: code, Message: message, Fatal: fatal}
	s.enqueue(em.Frame().Encode())
}

// serve attaches conn and blocks until the session is closed.
func (s *Session) serve(conn *websocket.Conn) {
	s.conn = conn
	go s.writePump()
	s.readPump()
}

func (s *Session) readPump() {
	defer s.Close()

	cfg := s.hub.config
	s.conn.SetReadLimit(cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(2 * cfg.PingInterval))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(2 * cfg.PingInterval))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			s.sendError(protocol.ErrInvalidFrame, err.Error(), false)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			ev, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				s.logger.Error("event decode error", "error", err)
				s.sendError(protocol.ErrInvalidEvent, "invalid event format", false)
				continue
			}
			if err := s.dispatch(ev); err != nil {
				return
			}
		default:
			s.logger.Warn("unknown frame type", "type", frame.Type)
		}
	}
}

func (s *Session) writePump() {
	cfg := s.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				s.logger.Debug("write error", "error", err)
				go s.Close()
				return
			}
			s.hub.metrics.bytes.Add(float64(len(msg)))
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				go s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// Close destroys the root instance, stops the loop and closes the
// connection. It must not be called from the session loop.
func (s *Session) Close() {
	if s.closed.Swap(true) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), destroyTimeout)
	defer cancel()
	if err := s.loop.Do(ctx, func() {
		if s.root != nil {
			s.root.Destroy()
		}
	}); err != nil {
		s.logger.Warn("destroy failed", "error", err)
	}
	s.loop.Close()
	close(s.done)

	if s.conn != nil {
		deadline := time.Now().Add(s.hub.config.WriteTimeout)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, deadline)
		s.conn.Close()
	}
	s.hub.remove(s)

	// The loop is stopped, totals are no longer written.
	s.logger.Info("session closed",
		"frames", s.seq,
		"creates", s.totals.Creates,
		"inserts", s.totals.Inserts,
		"moves", s.totals.Moves,
		"removes", s.totals.Removes)
}
