package api

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/talgya/foodgrid/internal/engine"
)

// subscriberBuffer is how many snapshots a slow viewer may fall behind
// before frames are dropped for it.
const subscriberBuffer = 8

// Hub fans post-action snapshots out to stream viewers.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan []byte)}
}

// Subscribe registers a viewer and returns its id and frame channel.
func (h *Hub) Subscribe() (int, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	ch := make(chan []byte, subscriberBuffer)
	h.subs[h.nextID] = ch
	return h.nextID, ch
}

// Unsubscribe removes a viewer and closes its channel.
func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Len returns the number of connected viewers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Publish encodes snap once and offers it to every viewer. Never blocks.
func (h *Hub) Publish(snap engine.Snapshot) {
	frame, err := json.Marshal(snap)
	if err != nil {
		slog.Error("encode snapshot frame", "tick", snap.Tick, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- frame:
		default:
			slog.Debug("stream viewer lagging, frame dropped", "sub_id", id, "tick", snap.Tick)
		}
	}
}
