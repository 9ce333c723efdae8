// Package session serves live views of example drawings over websockets. Viewers of
// the same example share one model; each viewer has its own transform and controller.
package session

import (
	"context"
	"encoding/json"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/oxydraw/oxydraw/internal/controller"
	"github.com/oxydraw/oxydraw/internal/drawing"
	"github.com/oxydraw/oxydraw/internal/engine"
	"github.com/oxydraw/oxydraw/internal/examples"
	"github.com/oxydraw/oxydraw/internal/render"
	"github.com/oxydraw/oxydraw/internal/typeid"
)

type Options struct {
	Env examples.Env
	// FrameRate is the number of frame events per second raised on each model.
	// Zero disables animation.
	FrameRate int
	Padding   float64
	// ImageRef names images in frames, typically the asset store's IDOf.
	ImageRef func(img image.Image) string
}

// Room is the set of viewers of one example.
type Room struct {
	ID      string
	example examples.Example

	// mu guards the demo model and the view state of every client in the room.
	mu       sync.Mutex
	demo     *examples.Demo
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	stop     chan struct{}
}

func NewRoom(example examples.Example, env examples.Env) *Room {
	return &Room{
		ID:       typeid.NewSessionID(),
		example:  example,
		demo:     example.Build(env),
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		stop:     make(chan struct{}),
	}
}

// animate raises frame events on the model until the room is closed.
func (r *Room) animate(rate int) {
	if rate <= 0 {
		return
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	start := time.Now()
	last := start
	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.mu.Lock()
			r.demo.Model.Frame(drawing.FrameEvent{Cumulative: now.Sub(start), Delta: now.Sub(last)})
			r.mu.Unlock()
			last = now
		}
	}
}

type Hub struct {
	opts       Options
	mu         sync.RWMutex
	rooms      map[string]*Room // example name -> room
	register   chan *Client
	unregister chan *Client
}

func NewHub(opts Options) *Hub {
	return &Hub{
		opts:       opts,
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.mu.Lock()
			for name, room := range h.rooms {
				close(room.stop)
				delete(h.rooms, name)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Rooms returns the number of examples currently being viewed.
func (h *Hub) Rooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.Example.Name]
	if !ok {
		room = NewRoom(client.Example, h.opts.Env)
		h.rooms[client.Example.Name] = room
		go room.animate(h.opts.FrameRate)
	}
	room.mu.Lock()
	client.attach(room, h.opts)
	room.clients[client.ClientID] = client
	room.mu.Unlock()
	h.mu.Unlock()
	close(client.ready)

	client.Send(newMessage(TypeWelcome, WelcomePayload{
		ClientID: client.ClientID,
		Session:  room.ID,
		Example:  room.example,
	}))

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{ClientID: client.ClientID})
	joinMsg.ClientID = client.ClientID
	h.broadcastToRoom(client.Example.Name, joinMsg, client.ClientID)

	slog.Info("client joined", "client", client.ClientID, "example", client.Example.Name, "session", room.ID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.Example.Name]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	room.mu.Lock()
	delete(room.clients, client.ClientID)
	client.detach()
	room.mu.Unlock()
	close(client.send)
	room.presence.Remove(client.ClientID)

	if len(room.clients) == 0 {
		close(room.stop)
		delete(h.rooms, client.Example.Name)
	}
	h.mu.Unlock()

	leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{ClientID: client.ClientID})
	leaveMsg.ClientID = client.ClientID
	h.broadcastToRoom(client.Example.Name, leaveMsg, "")

	slog.Info("client left", "client", client.ClientID, "example", client.Example.Name)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	room := sender.room
	room.mu.Lock()
	reply, presence, err := sender.apply(msg)
	room.mu.Unlock()

	if err != nil {
		slog.Warn("invalid message", "type", msg.Type, "client", sender.ClientID, "error", err)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: err.Error()}))
		return
	}
	if reply != nil {
		sender.Send(reply)
	}
	if presence != nil {
		room.presence.Update(sender.ClientID, presence)
		out := newMessage(TypePresenceUpdate, presence)
		out.ClientID = sender.ClientID
		h.broadcastToRoom(sender.Example.Name, out, sender.ClientID)
	}
}

// broadcastToRoom holds the read lock while sending so that no send channel is closed
// underneath it; Send never blocks.
func (h *Hub) broadcastToRoom(example string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[example]
	if !ok {
		return
	}

	room.mu.Lock()
	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	room.mu.Unlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func decode[T any](msg *Message) (T, error) {
	var v T
	if len(msg.Payload) == 0 {
		return v, nil
	}
	err := json.Unmarshal(msg.Payload, &v)
	return v, err
}

func newViewModel(view engine.View, model *drawing.Model, rc engine.RenderContext) (*engine.ViewModel, *controller.Controller) {
	vm := engine.NewViewModel(view, model)
	vm.ZoomExtents(rc)
	return vm, controller.New(vm, rc)
}

func newRecorder(opts Options) *render.Recorder {
	rec := render.NewRecorder()
	rec.ImageRef = opts.ImageRef
	return rec
}

func hitsOf(results []*engine.HitTestResult) []Hit {
	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, Hit{ID: r.Element.Attributes().ID, Kind: r.Element.Kind(), Point: r.NearestHitPoint})
	}
	return hits
}

var _ engine.View = (*clientView)(nil)
