package uplink

import "encoding/json"

// FrameMessage is a server-to-client rendered-view push.
// Server → Client message format:
// {"t":"frame","tick":123.0,"view":"...charmap...","feedback":["..."]}
type FrameMessage struct {
	Type     string   `json:"t"`        // Message type: "frame"
	Tick     float64  `json:"tick"`     // Simulation tick the frame was drawn at
	View     string   `json:"view"`     // Rendered charmap, newline-joined
	Feedback []string `json:"feedback"` // Current feedback ring buffer excerpt, oldest first
}

// CommandMessage is a client-to-server command-language line.
// Client → Server message format: {"t":"command","seq":1,"line":"sim.tick 10"}
type CommandMessage struct {
	Type string `json:"t"`   // Message type: "command"
	Seq  uint32 `json:"seq"` // Sequence number
	Line string `json:"line"` // A command.Controller line, `&&`-joined statements allowed
}

// ErrorMessage is a server-to-client error response, used when a
// received message is malformed rather than merely rejected by the
// command controller (controller rejections go through the feedback
// ring instead, per spec).
type ErrorMessage struct {
	Type    string `json:"t"`       // Message type: "error"
	Message string `json:"message"` // Human-readable description
}

// NewErrorMessage builds a JSON-encoded ErrorMessage for err.
func NewErrorMessage(err error) []byte {
	data, _ := json.Marshal(ErrorMessage{Type: "error", Message: err.Error()})
	return data
}
