package uplink

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voidreach/simcore/internal/observability"
)

const (
	// ReadDeadline is a read deadline value for WebSocket connections;
	// Connection arms its read deadline from PongWait, not from this.
	ReadDeadline = 60 * time.Second
	// WriteDeadline is the write deadline for WebSocket connections.
	WriteDeadline = 10 * time.Second
	// PongWait is the time to wait for a pong response, and the read
	// deadline each connection arms and each pong extends.
	PongWait = 60 * time.Second
	// PingPeriod is how often to send ping messages; must be less than
	// PongWait.
	PingPeriod = (PongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Connection manages a single WebSocket connection's lifecycle: one
// reader goroutine (the caller's) and one internal write pump so only
// one goroutine ever writes to the underlying conn.
type Connection struct {
	conn      *websocket.Conn
	done      chan struct{}
	writeChan chan []byte
	startTime time.Time
}

// NewConnection wraps conn, arming its pong handler and starting the
// write pump.
func NewConnection(conn *websocket.Conn) *Connection {
	c := &Connection{
		conn:      conn,
		done:      make(chan struct{}),
		writeChan: make(chan []byte, 256),
		startTime: time.Now(),
	}

	conn.SetReadDeadline(time.Now().Add(PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	go c.writePump()

	return c
}

// GetStartTime returns when the connection was established.
func (c *Connection) GetStartTime() time.Time { return c.startTime }

// UpgradeConnection upgrades an HTTP request to a WebSocket connection.
func UpgradeConnection(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// ReadMessage reads one JSON text message, recording byte/message
// metrics on success.
func (c *Connection) ReadMessage() ([]byte, error) {
	messageType, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if messageType != websocket.TextMessage {
		return nil, websocket.ErrBadHandshake
	}

	if len(data) > 0 {
		if counter := observability.GetConnectionBytesCounter(); counter != nil {
			counter.WithLabelValues("in").Add(float64(len(data)))
		}
		if counter := observability.GetMessagesCounter(); counter != nil {
			counter.WithLabelValues("in").Inc()
		}
	}

	return data, nil
}

// WriteMessage enqueues data to be written by the write pump. Returns
// an error if the connection is already closed.
func (c *Connection) WriteMessage(data []byte) error {
	select {
	case <-c.done:
		return fmt.Errorf("connection closed")
	case c.writeChan <- data:
		return nil
	}
}

// WriteJSON marshals v and enqueues it for write.
func (c *Connection) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.WriteMessage(data)
}

// Close gracefully closes the connection. Safe to call more than once.
func (c *Connection) Close() error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
		close(c.writeChan)
		return c.conn.Close()
	}
}

// writePump serializes every write to the underlying connection,
// interleaving queued messages with periodic pings.
func (c *Connection) writePump() {
	pingTicker := time.NewTicker(PingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-c.done:
			return

		case data, ok := <-c.writeChan:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-pingTicker.C:
			select {
			case data, ok := <-c.writeChan:
				if !ok {
					_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.writeMessage(websocket.TextMessage, data); err != nil {
					return
				}
			default:
				if err := c.writeMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}

	drain:
		for {
			select {
			case <-c.done:
				return
			case data, ok := <-c.writeChan:
				if !ok {
					_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.writeMessage(websocket.TextMessage, data); err != nil {
					return
				}
			default:
				break drain
			}
		}
	}
}

func (c *Connection) writeMessage(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(WriteDeadline))
	if err := c.conn.WriteMessage(messageType, data); err != nil {
		return err
	}

	if messageType == websocket.TextMessage && len(data) > 0 {
		if counter := observability.GetConnectionBytesCounter(); counter != nil {
			counter.WithLabelValues("out").Add(float64(len(data)))
		}
		if counter := observability.GetMessagesCounter(); counter != nil {
			counter.WithLabelValues("out").Inc()
		}
	}

	return nil
}

// ParseMessage parses data into a CommandMessage. Returns an error if
// the message is malformed, invalid, or of an unrecognized type.
func ParseMessage(data []byte) (*CommandMessage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	var envelope map[string]interface{}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	typeField, ok := envelope["t"]
	if !ok {
		return nil, fmt.Errorf("missing message type field 't'")
	}
	typeStr, ok := typeField.(string)
	if !ok {
		return nil, fmt.Errorf("message type field 't' must be a string")
	}

	if typeStr != "command" {
		return nil, fmt.Errorf("unknown message type: %s", typeStr)
	}

	var msg CommandMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse CommandMessage: %w", err)
	}
	if err := ValidateCommandMessage(&msg); err != nil {
		return nil, fmt.Errorf("invalid CommandMessage: %w", err)
	}

	return &msg, nil
}
