// Package uplink exposes a running Universe/Session as a websocket
// endpoint: one authoritative simulation per process, reached by
// websocket clients who receive periodic rendered frames and a
// feedback excerpt, and send command-language lines that are enqueued
// and dispatched at the next tick boundary. Every connection may send
// commands; none is read-only.
// This is a transport, not a second copy of simulation state — there
// is no per-connection divergence, only a per-connection view.
package uplink

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/voidreach/simcore/internal/observability"
	"github.com/voidreach/simcore/internal/session"
	"github.com/voidreach/simcore/internal/ship"
	"github.com/voidreach/simcore/internal/universe"
)

// DefaultFrameWidth and DefaultFrameHeight size the charmap rendered
// for a connection that doesn't negotiate a size of its own. A
// terminal UI client is out of scope for this module; these simply
// give a websocket frame a reasonable shape.
const (
	DefaultFrameWidth  = 80
	DefaultFrameHeight = 40

	// frameInterval is how often a connection's view is redrawn and
	// pushed, independent of the simulation's own tick rate.
	frameInterval = 100 * time.Millisecond

	// sessionFPS is the rate at which Serve runs the process-wide
	// Session, which drains its command queue and advances the shared
	// Universe.
	sessionFPS = 20

	maxQueueSize   = 100
	rewindCapacity = 30
)

// ConnectionHandler binds one websocket Connection to the shared
// Universe: a per-connection Cockpit (camera + label state) renders
// frames, while a shared Session paces ticks and dispatches queued
// command lines against the Universe's Controller.
type ConnectionHandler struct {
	conn    *Connection
	cockpit *ship.Cockpit
	session *session.Session
	uni     *universe.Universe
	done    chan struct{}
	log     logr.Logger
}

// NewConnectionHandler builds a handler for conn, following the
// player's flagship by default.
func NewConnectionHandler(conn *Connection, uni *universe.Universe, sess *session.Session, log logr.Logger) *ConnectionHandler {
	cockpit := ship.NewCockpit(uni.Player().Flagship, uni)

	return &ConnectionHandler{
		conn:    conn,
		cockpit: cockpit,
		session: sess,
		uni:     uni,
		done:    make(chan struct{}),
		log:     log,
	}
}

// HandleCommand enqueues msg's line against the shared session's
// command queue.
func (h *ConnectionHandler) HandleCommand(msg *CommandMessage) error {
	if !h.session.EnqueueCommand(msg.Seq, msg.Line) {
		return fmt.Errorf("failed to enqueue command with seq %d", msg.Seq)
	}
	return nil
}

// Start launches the frame-broadcast loop. The shared Session's tick
// loop is driven once per process by the server, not per connection.
func (h *ConnectionHandler) Start() {
	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()

		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				h.broadcastFrame()
			}
		}
	}()
}

func (h *ConnectionHandler) broadcastFrame() {
	view, err, ok := h.cockpit.GetCharmap(h.uni, h.uni.Tick(), DefaultFrameWidth, DefaultFrameHeight)
	if err != nil {
		view = err.Error()
		ok = true
	}
	if !ok {
		return
	}

	frame := FrameMessage{
		Type:     "frame",
		Tick:     h.uni.Tick(),
		View:     view,
		Feedback: h.uni.Feedback(),
	}
	_ = h.conn.WriteJSON(frame)
}

// Stop ends the frame-broadcast loop.
func (h *ConnectionHandler) Stop() { close(h.done) }

// server is the single process-wide Universe/Session pair every
// websocket connection is routed against.
var server struct {
	uni *universe.Universe
	sess *session.Session
	log  logr.Logger
}

// Serve installs the process-wide Universe and Session that
// WebSocketHandler routes connections against, and starts its tick
// loop. Must be called once before the HTTP server starts accepting
// connections.
func Serve(uni *universe.Universe, sess *session.Session, log logr.Logger) {
	server.uni = uni
	server.sess = sess
	server.log = log

	go func() {
		ticker := time.NewTicker(time.Second / sessionFPS)
		defer ticker.Stop()
		for range ticker.C {
			if err := sess.Run(10); err != nil {
				log.Error(err, "session tick loop failed")
			}
		}
	}()
}

// WebSocketHandler upgrades the request to a WebSocket connection,
// routes it against the process-wide Universe/Session, and serves it
// until the client disconnects or a read error occurs.
func WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	logger := server.log.WithValues("component", "uplink", "handler", "websocket")
	connectionID := fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano())
	connLogger := logger.WithValues("connection_id", connectionID)

	conn, err := UpgradeConnection(w, r)
	if err != nil {
		connLogger.Error(err, "websocket upgrade failed", "message_type", "upgrade_error")
		if counter := observability.GetConnectionEventsCounter(); counter != nil {
			counter.WithLabelValues("error").Inc()
		}
		return
	}

	wsConn := NewConnection(conn)
	startTime := wsConn.GetStartTime()

	defer func() {
		duration := time.Since(startTime).Seconds()
		if counter := observability.GetConnectionEventsCounter(); counter != nil {
			counter.WithLabelValues("disconnect").Inc()
		}
		if gauge := observability.GetActiveConnectionsGauge(); gauge != nil {
			gauge.Dec()
		}
		if hist := observability.GetConnectionDurationHistogram(); hist != nil {
			hist.Observe(duration)
		}
		connLogger.Info("websocket connection closed", "message_type", "disconnect", "duration_seconds", duration)
		if err := wsConn.Close(); err != nil {
			connLogger.Error(err, "error closing websocket connection", "message_type", "close_error")
		}
	}()

	if counter := observability.GetConnectionEventsCounter(); counter != nil {
		counter.WithLabelValues("connect").Inc()
	}
	if gauge := observability.GetActiveConnectionsGauge(); gauge != nil {
		gauge.Inc()
	}

	handler := NewConnectionHandler(wsConn, server.uni, server.sess, connLogger.WithValues("component", "uplink-connection"))
	connLogger.Info("websocket connection established", "message_type", "connect", "remote_addr", r.RemoteAddr)

	handler.Start()
	defer handler.Stop()

	for {
		data, err := wsConn.ReadMessage()
		if err != nil {
			break
		}

		msg, err := ParseMessage(data)
		if err != nil {
			if counter := observability.GetConnectionEventsCounter(); counter != nil {
				counter.WithLabelValues("error").Inc()
			}
			connLogger.Error(err, "failed to parse message", "message_type", "parse_error")
			if writeErr := wsConn.WriteMessage(NewErrorMessage(err)); writeErr != nil {
				break
			}
			continue
		}

		if err := handler.HandleCommand(msg); err != nil {
			if counter := observability.GetConnectionEventsCounter(); counter != nil {
				counter.WithLabelValues("error").Inc()
			}
			connLogger.Error(err, "failed to handle command", "message_type", "command_error")
			if writeErr := wsConn.WriteMessage(NewErrorMessage(err)); writeErr != nil {
				break
			}
		}
	}
}

// HealthzHandler reports process health as JSON: status, uptime, and
// an observability metrics summary.
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	logger := server.log.WithValues("component", "uplink", "handler", "healthz")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	health := observability.GetHealthMetrics()
	response := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": health.UptimeSeconds,
		"metrics": map[string]interface{}{
			"active_connections": health.ActiveConnections,
			"queue_depth":        health.QueueDepth,
			"tick_time": map[string]interface{}{
				"average_ms": health.TickTime.AverageMs,
				"count":      health.TickTime.Count,
			},
			"gc_pause": map[string]interface{}{
				"average_ms": health.GCPause.AverageMs,
				"count":      health.GCPause.Count,
			},
		},
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error(err, "error encoding healthz response", "message_type", "encode_error")
	}
}

// MetricsHandler serves Prometheus-formatted metrics at /metrics.
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	observability.MetricsHandler(w, r)
}
