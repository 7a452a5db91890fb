package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/relgraph/relgraph/internal/animation"
	"github.com/relgraph/relgraph/internal/store"
)

const loadTimeout = 5 * time.Second

// Loader fetches the latest record of a diagram. It returns
// store.ErrNotFound when nothing was published yet.
type Loader func(ctx context.Context, diagramID string) (*store.Record, error)

type Room struct {
	diagramID string
	clients   map[string]*Client // clientID -> client
	presence  *presenceSet
}

func NewRoom(diagramID string) *Room {
	return &Room{
		diagramID: diagramID,
		clients:   make(map[string]*Client),
		presence:  newPresenceSet(),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room          // diagramID -> room
	states     map[string]*DiagramState // diagramID -> state, outlives rooms
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	loader   Loader
	animOpts animation.Options
	logger   *slog.Logger
}

func NewHub(loader Loader, opts animation.Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]*Room),
		states:     make(map[string]*DiagramState),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		loader:     loader,
		animOpts:   opts,
		logger:     logger,
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.closeAll()
			return
		}
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

// Register joins client to its diagram's room. The diagram's latest record
// is loaded here, on the caller's goroutine, so a slow store never stalls
// Run.
func (h *Hub) Register(client *Client) {
	h.load(client.DiagramID)
	select {
	case h.register <- client:
	case <-h.stop:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// Publish reconciles a newly saved record with the diagram's previous
// snapshot and pushes it to every client of the diagram.
func (h *Hub) Publish(rec *store.Record) (Summary, error) {
	state := h.state(rec.DiagramID)
	summary, err := state.Apply(rec)
	if err != nil {
		return Summary{}, err
	}

	msg := newMessage(TypeSnapshotPush, SnapshotPayload{
		RecordID: rec.ID,
		Sequence: rec.Sequence,
		Revision: summary.Revision,
		Snapshot: rec.Snapshot,
		Summary:  &summary,
	})
	msg.DiagramID = rec.DiagramID
	msg.UserID = rec.PublisherID
	msg.Seq = rec.Sequence
	h.broadcastToRoom(rec.DiagramID, msg, "")

	h.logger.Info("snapshot published",
		"diagram", rec.DiagramID,
		"sequence", rec.Sequence,
		"revision", summary.Revision,
		"changed", summary.Changed,
		"added", summary.Added,
		"removed", summary.Removed,
	)
	return summary, nil
}

func (h *Hub) state(diagramID string) *DiagramState {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.states[diagramID]
	if !ok {
		st = NewDiagramState(h.animOpts)
		h.states[diagramID] = st
	}
	return st
}

// load brings a diagram's state up to date with the store on first use.
func (h *Hub) load(diagramID string) *DiagramState {
	st := h.state(diagramID)
	if st.Record() != nil || h.loader == nil {
		return st
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	rec, err := h.loader(ctx, diagramID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("load snapshot", "diagram", diagramID, "error", err)
		}
		return st
	}
	if _, err := st.Apply(rec); err != nil && !errors.Is(err, ErrSuperseded) {
		h.logger.Warn("stored snapshot rejected", "diagram", diagramID, "error", err)
	}
	return st
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DiagramID]
	if !ok {
		room = NewRoom(client.DiagramID)
		h.rooms[client.DiagramID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	client.Send(newMessage(TypeWelcome, WelcomePayload{ClientID: client.ClientID, UserID: client.UserID}))

	// Send current presence state to new client
	stateMsg := room.presence.stateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	if syncMsg := h.state(client.DiagramID).SyncMessage(); syncMsg != nil {
		client.Send(syncMsg)
	}

	// Broadcast join to other clients
	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg.UserID = client.UserID
	h.broadcastToRoom(client.DiagramID, joinMsg, client.ClientID)

	h.logger.Info("client joined", "user", client.UserID, "diagram", client.DiagramID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DiagramID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.closeSend()
	room.presence.remove(client.UserID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.DiagramID)
	}
	h.mu.Unlock()

	// Broadcast leave to remaining clients
	leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{UserID: client.UserID})
	leaveMsg.UserID = client.UserID
	h.broadcastToRoom(client.DiagramID, leaveMsg, "")

	h.logger.Info("client left", "user", client.UserID, "diagram", client.DiagramID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			c.closeSend()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeSnapshotRequest:
		if syncMsg := h.load(sender.DiagramID).SyncMessage(); syncMsg != nil {
			sender.Send(syncMsg)
			return
		}
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "no snapshot published"}))
	default:
		h.logger.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type: " + msg.Type}))
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		h.logger.Warn("invalid presence payload", "error", err)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "invalid presence payload"}))
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.DiagramID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.set(sender.UserID, presence)

	// Broadcast to other clients in room
	outMsg := newMessage(TypePresenceUpdate, presence)
	outMsg.UserID = sender.UserID
	h.broadcastToRoom(sender.DiagramID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(diagramID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[diagramID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
