package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/coder/websocket"

	"github.com/oxydraw/oxydraw/internal/controller"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/examples"
	"github.com/oxydraw/oxydraw/internal/geom"
	"github.com/oxydraw/oxydraw/internal/render"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024

	defaultHitTolerance = 4
)

var ErrUnknownType = errors.New("unknown message type")

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	ready    chan struct{}
	ClientID string
	Example  examples.Example

	width, height float64

	// Set by the hub on registration and guarded by the room lock.
	room *Room
	view *clientView
	vm   *engine.ViewModel
	ctl  *controller.Controller
	rec  *render.Recorder
}

func NewClient(hub *Hub, conn *websocket.Conn, example examples.Example, clientID string, width, height float64) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		ready:    make(chan struct{}),
		ClientID: clientID,
		Example:  example,
		width:    width,
		height:   height,
	}
}

func (c *Client) attach(room *Room, opts Options) {
	c.room = room
	c.view = newClientView(c.width, c.height, opts.Padding)
	c.rec = newRecorder(opts)
	c.vm, c.ctl = newViewModel(c.view, room.demo.Model, c.rec)
	c.view.Invalidate()
}

func (c *Client) detach() {
	c.vm.Close()
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()
	<-c.ready

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			continue
		}

		msg.ClientID = c.ClientID
		c.hub.handleMessage(c, &msg)
	}
}

// WritePump writes queued messages and renders a frame whenever the view has been
// invalidated.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()
	<-c.ready

	write := func(data []byte) bool {
		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		defer cancel()
		if err := c.conn.Write(writeCtx, websocket.MessageText, data); err != nil {
			slog.Debug("write error", "error", err, "client", c.ClientID)
			return false
		}
		return true
	}

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if !write(message) {
				return
			}

		case <-c.view.redraw.C():
			if !c.view.redraw.Begin() {
				continue
			}
			data, err := json.Marshal(c.frame())
			if err != nil {
				slog.Error("marshal frame", "error", err)
				continue
			}
			if !write(data) {
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

// frame paints the view. Paint errors are logged; the frame still carries whatever
// was drawn, including the diagnostic text.
func (c *Client) frame() *Message {
	r := c.room
	r.mu.Lock()
	defer r.mu.Unlock()

	c.rec.Reset()
	if err := c.vm.Paint(c.rec); err != nil {
		slog.Warn("frame rendered with errors", "client", c.ClientID, "example", c.Example.Name, "error", err)
	}
	ox, oy := c.vm.Offset()
	var zoomRect *geom.Rect
	if c.view.zoomRect != nil {
		rc := *c.view.zoomRect
		zoomRect = &rc
	}
	msg := newMessage(TypeFrame, FramePayload{
		Background:    r.demo.Model.Background.String(),
		Commands:      append([]render.DrawCommand{}, c.rec.Commands()...),
		Cursor:        c.view.cursor.String(),
		ZoomRectangle: zoomRect,
		Scale:         c.vm.Scale(),
		OffsetX:       ox,
		OffsetY:       oy,
	})
	msg.Session = r.ID
	return msg
}

// apply handles msg. The caller holds the room lock. It returns the reply for the
// sender and the sender's new presence, either of which may be nil.
func (c *Client) apply(msg *Message) (*Message, *PresencePayload, error) {
	switch msg.Type {
	case TypeResize:
		p, err := decode[ResizePayload](msg)
		if err != nil {
			return nil, nil, err
		}
		if p.Width <= 0 || p.Height <= 0 {
			return nil, nil, fmt.Errorf("resize to %gx%g", p.Width, p.Height)
		}
		c.view.area = geom.NewRect(0, 0, p.Width, p.Height)
		c.vm.Invalidate()

	case TypePan:
		p, err := decode[PanPayload](msg)
		if err != nil {
			return nil, nil, err
		}
		c.vm.Pan(geom.SV(p.DX, p.DY))

	case TypeZoom:
		p, err := decode[ZoomPayload](msg)
		if err != nil {
			return nil, nil, err
		}
		if p.Factor <= 0 {
			return nil, nil, fmt.Errorf("zoom factor %g", p.Factor)
		}
		c.vm.ZoomBy(p.Factor)

	case TypeZoomAt:
		p, err := decode[ZoomAtPayload](msg)
		if err != nil {
			return nil, nil, err
		}
		c.vm.ZoomAt(geom.SV(0, p.Delta), geom.SP(p.X, p.Y))

	case TypeZoomRect:
		r, err := decode[geom.Rect](msg)
		if err != nil {
			return nil, nil, err
		}
		c.vm.Zoom(r)

	case TypeReset:
		c.vm.Reset(c.rec)

	case TypeMouseDown:
		e, err := decode[controller.MouseEvent](msg)
		if err != nil {
			return nil, nil, err
		}
		if press := c.room.demo.OnPress; press != nil {
			if hit := c.vm.HitTestFirst(engine.HitTestArguments{Point: e.Position, Tolerance: defaultHitTolerance}); hit != nil {
				press(hit.Element)
			}
		}
		c.ctl.HandleMouseDown(e)

	case TypeMouseMove:
		e, err := decode[controller.MouseEvent](msg)
		if err != nil {
			return nil, nil, err
		}
		c.ctl.HandleMouseMove(e)
		p := c.vm.InverseTransform(e.Position)
		return nil, &PresencePayload{Cursor: &p}, nil

	case TypeMouseUp:
		e, err := decode[controller.MouseEvent](msg)
		if err != nil {
			return nil, nil, err
		}
		c.ctl.HandleMouseUp(e)
		if release := c.room.demo.OnRelease; release != nil {
			release()
		}

	case TypeWheel:
		e, err := decode[controller.WheelEvent](msg)
		if err != nil {
			return nil, nil, err
		}
		c.ctl.HandleMouseWheel(e)

	case TypeKeyDown:
		e, err := decode[controller.KeyEvent](msg)
		if err != nil {
			return nil, nil, err
		}
		e.Key = controller.ParseKey(string(e.Key))
		c.ctl.HandleKeyDown(e)

	case TypeTouchStart, TypeTouchDelta, TypeTouchEnd:
		e, err := decode[controller.TouchEvent](msg)
		if err != nil {
			return nil, nil, err
		}
		switch msg.Type {
		case TypeTouchStart:
			c.ctl.HandleTouchStarted(e)
		case TypeTouchDelta:
			c.ctl.HandleTouchDelta(e)
		default:
			c.ctl.HandleTouchCompleted(e)
		}

	case TypeHitTest:
		p, err := decode[HitTestPayload](msg)
		if err != nil {
			return nil, nil, err
		}
		if p.Tolerance <= 0 {
			p.Tolerance = defaultHitTolerance
		}
		results := slices.Collect(c.ctl.HitTest(engine.HitTestArguments{Point: geom.SP(p.X, p.Y), Tolerance: p.Tolerance}))
		return newMessage(TypeHitResult, HitResultPayload{Hits: hitsOf(results)}), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	return nil, nil, nil
}
