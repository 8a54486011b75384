package viewer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"

	"github.com/vk/sweepview/internal/session"
)

// Event names sent to clients.
const (
	EventAnimations = "animations"
	EventThumbnail  = "thumbnail"
	EventProgress   = "progress"
	EventReady      = "ready"
	EventValue      = "value"
	EventFrame      = "frame"
	EventError      = "error"
)

// Event names received from clients.
const (
	RequestLoad   = "load"
	RequestSet    = "set"
	RequestNudge  = "nudge"
	RequestInput  = "input"
	RequestToggle = "toggle"
	RequestPoint  = "point"
)

type message struct {
	event   string
	payload any
}

// ProgressMessage is sent for progress and ready events.
type ProgressMessage struct {
	Animation string `json:"animation"`
	Loaded    int    `json:"loaded"`
	Total     int    `json:"total"`
}

// ValueMessage reports a parameter change. Value is nil while the input is
// cleared.
type ValueMessage struct {
	Animation string   `json:"animation"`
	Parameter string   `json:"parameter"`
	Value     *float64 `json:"value"`
}

// FrameMessage carries the frame for the current parameter values.
type FrameMessage struct {
	Animation string `json:"animation"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	MIME      string `json:"mime"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	// Data is the base64 encoded payload.
	Data string `json:"data"`
}

// ThumbnailMessage carries the PNG preview of an animation.
type ThumbnailMessage struct {
	Animation string `json:"animation"`
	MIME      string `json:"mime"`
	Data      string `json:"data"`
}

// ErrorMessage reports a failed request or background failure.
type ErrorMessage struct {
	Animation string `json:"animation,omitempty"`
	Message   string `json:"message"`
}

// Reply acknowledges a request. Snapshot describes the addressed animation
// after the request was applied.
type Reply struct {
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func frameMessage(f *session.Frame) FrameMessage {
	return FrameMessage{
		Animation: f.Animation,
		Key:       f.Key,
		Name:      f.Entry.Name,
		MIME:      f.Entry.MIME,
		Width:     f.Entry.Width,
		Height:    f.Entry.Height,
		Data:      base64.StdEncoding.EncodeToString(f.Entry.Data),
	}
}

// toMessage translates a session event into the message broadcast to every
// client.
func toMessage(e session.Event) (message, bool) {
	switch e.Kind {
	case session.EventProgress:
		return message{EventProgress, ProgressMessage{e.Animation, e.Loaded, e.Total}}, true
	case session.EventReady:
		return message{EventReady, ProgressMessage{e.Animation, e.Loaded, e.Total}}, true
	case session.EventValue:
		m := ValueMessage{Animation: e.Animation, Parameter: e.Parameter}
		if !math.IsNaN(e.Value) {
			v := e.Value
			m.Value = &v
		}
		return message{EventValue, m}, true
	case session.EventFrame:
		if e.Frame == nil {
			return message{}, false
		}
		return message{EventFrame, frameMessage(e.Frame)}, true
	case session.EventError:
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return message{EventError, ErrorMessage{Animation: e.Animation, Message: msg}}, true
	default:
		return message{}, false
	}
}

// decodeRequest converts the generic value socket.io hands to listeners into
// a typed request.
func decodeRequest(arg any, v any) error {
	if arg == nil {
		return fmt.Errorf("missing request payload")
	}
	raw, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}
