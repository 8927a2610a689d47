// Package server exposes the tracer to scene editors and renderers: editors
// mutate the scene over a WebSocket, and every mutation triggers a re-trace
// whose segments and solved flag are pushed back to all connected clients.
// No physics lives here.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/prismbox/go-prism-tracer/pkg/scene"
	"github.com/prismbox/go-prism-tracer/pkg/tracer"
	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// Server handles web requests for the beam tracer
type Server struct {
	cfg    *Config
	log    *zap.Logger
	scene  *scene.Scene
	driver *tracer.Driver

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client is one WebSocket connection with serialized writes
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// NewServer creates a server around an existing scene
func NewServer(cfg *Config, s *scene.Scene, log *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		log:    log,
		scene:  s,
		driver: tracer.NewDriver(s),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// EditMessage is a scene mutation sent by an editor client
type EditMessage struct {
	Type     string             `json:"type"` // add, move, rotate, remove, reset, scene
	ID       string             `json:"id,omitempty"`
	Kind     string             `json:"kind,omitempty"`
	Position *scene.PointConfig `json:"position,omitempty"`
	Rotation float64            `json:"rotation,omitempty"`
	Size     float64            `json:"size,omitempty"`
}

// TraceMessage is the frame pushed to renderers after every scene change
type TraceMessage struct {
	Type        string                 `json:"type"` // always "trace"
	Solved      bool                   `json:"solved"`
	Fingerprint uint64                 `json:"fingerprint"`
	Segments    []tracer.SegmentRecord `json:"segments"`
}

// SceneMessage carries the full scene, sent in reply to a "scene" request
type SceneMessage struct {
	Type  string        `json:"type"` // always "scene"
	Scene *scene.Config `json:"scene"`
}

// ErrorMessage reports a rejected edit
type ErrorMessage struct {
	Type  string `json:"type"` // always "error"
	Error string `json:"error"`
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scene", s.handleScene)
	mux.HandleFunc("/api/trace", s.handleTrace)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Start runs the server until the listener fails
func (s *Server) Start() error {
	s.log.Info("starting beam tracer server", zap.String("addr", s.cfg.Addr))
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(scene.Export(s.scene, ""))
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	result, _ := s.driver.Result()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.traceMessage(result))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		_ = conn.Close()
		s.log.Info("client disconnected", zap.String("remote", conn.RemoteAddr().String()))
	}()

	// New clients get the current trace immediately
	result, _ := s.driver.Result()
	if err := c.send(s.traceMessage(result)); err != nil {
		return
	}

	for {
		var msg EditMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		if msg.Type == "scene" {
			if err := c.send(SceneMessage{Type: "scene", Scene: scene.Export(s.scene, "")}); err != nil {
				return
			}
			continue
		}

		if err := s.applyEdit(msg); err != nil {
			s.log.Debug("edit rejected", zap.String("type", msg.Type), zap.Error(err))
			if err := c.send(ErrorMessage{Type: "error", Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		s.broadcastTrace()
	}
}

// applyEdit performs one scene mutation
func (s *Server) applyEdit(msg EditMessage) error {
	switch msg.Type {
	case "add":
		kind, err := scene.ParseKind(msg.Kind)
		if err != nil {
			return err
		}
		if msg.Size <= 0 {
			return fmt.Errorf("size must be positive")
		}
		var pos vec.Vec2
		if msg.Position != nil {
			pos = vec.NewVec2(msg.Position.X, msg.Position.Y)
		}
		if msg.ID == "" {
			s.scene.Add(kind, pos, msg.Rotation, msg.Size)
			return nil
		}
		return s.scene.Insert(scene.Obstacle{
			ID: msg.ID, Kind: kind, Position: pos, Rotation: msg.Rotation, Size: msg.Size,
		})
	case "move":
		if msg.Position == nil {
			return fmt.Errorf("move requires a position")
		}
		if !s.scene.Move(msg.ID, vec.NewVec2(msg.Position.X, msg.Position.Y)) {
			return fmt.Errorf("no obstacle %q", msg.ID)
		}
		return nil
	case "rotate":
		if !s.scene.Rotate(msg.ID, msg.Rotation) {
			return fmt.Errorf("no obstacle %q", msg.ID)
		}
		return nil
	case "remove":
		if !s.scene.Remove(msg.ID) {
			return fmt.Errorf("no obstacle %q", msg.ID)
		}
		return nil
	case "reset":
		s.scene.Reset()
		return nil
	}
	return fmt.Errorf("unknown message type %q", msg.Type)
}

// broadcastTrace re-traces if needed and pushes the result to every client
func (s *Server) broadcastTrace() {
	result, retraced := s.driver.Result()
	msg := s.traceMessage(result)

	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			s.log.Debug("broadcast failed", zap.Error(err))
		}
	}
	if retraced {
		s.log.Debug("scene re-traced",
			zap.Int("segments", len(result.Segments)),
			zap.Bool("solved", result.Solved))
	}
}

func (s *Server) traceMessage(result *tracer.Result) TraceMessage {
	segments := make([]tracer.SegmentRecord, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, tracer.NewSegmentRecord(seg))
	}
	return TraceMessage{
		Type:        "trace",
		Solved:      result.Solved,
		Fingerprint: s.scene.Fingerprint(),
		Segments:    segments,
	}
}
