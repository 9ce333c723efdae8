package session

import (
	"encoding/json"

	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/examples"
	"github.com/oxydraw/oxydraw/internal/geom"
	"github.com/oxydraw/oxydraw/internal/render"
)

type Message struct {
	Type     string          `json:"type"`
	Session  string          `json:"session,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypeResize     = "view.resize"
	TypePan        = "view.pan"
	TypeZoom       = "view.zoom"
	TypeZoomAt     = "view.zoomAt"
	TypeZoomRect   = "view.zoomRect"
	TypeReset      = "view.reset"
	TypeMouseDown  = "mouse.down"
	TypeMouseMove  = "mouse.move"
	TypeMouseUp    = "mouse.up"
	TypeWheel      = "mouse.wheel"
	TypeKeyDown    = "key.down"
	TypeTouchStart = "touch.start"
	TypeTouchDelta = "touch.delta"
	TypeTouchEnd   = "touch.end"
	TypeHitTest    = "hit.test"

	// Server to client
	TypeWelcome   = "welcome"
	TypeFrame     = "frame"
	TypeHitResult = "hit.result"
	TypeError     = "error"

	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

type WelcomePayload struct {
	ClientID string           `json:"clientId"`
	Session  string           `json:"session"`
	Example  examples.Example `json:"example"`
}

type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PanPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type ZoomPayload struct {
	Factor float64 `json:"factor"`
}

// ZoomAtPayload zooms about (X, Y) by a relative step, see engine.ViewModel.ZoomAt.
type ZoomAtPayload struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta"`
}

type HitTestPayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Tolerance float64 `json:"tolerance"`
}

type Hit struct {
	ID    string           `json:"id"`
	Kind  drawing.Kind     `json:"kind"`
	Point geom.ScreenPoint `json:"point"`
}

type HitResultPayload struct {
	Hits []Hit `json:"hits"`
}

// FramePayload is one rendered frame. Commands are replayed onto a canvas in order.
type FramePayload struct {
	Background    string               `json:"background"`
	Commands      []render.DrawCommand `json:"commands"`
	Cursor        string               `json:"cursor"`
	ZoomRectangle *geom.Rect           `json:"zoomRectangle,omitempty"`
	Scale         float64              `json:"scale"`
	OffsetX       float64              `json:"offsetX"`
	OffsetY       float64              `json:"offsetY"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// PresencePayload is the pointer of another viewer, in data coordinates.
type PresencePayload struct {
	Cursor *geom.DataPoint `json:"cursor,omitempty"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID string `json:"clientId"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}

func newMessage(typ string, payload any) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(ErrorPayload{Message: err.Error()})
		typ = TypeError
	}
	return &Message{Type: typ, Payload: data}
}
