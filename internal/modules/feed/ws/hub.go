package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"redunap/internal/modules/feed"
	"redunap/internal/modules/story"
)

// Hub держит активные подключения ленты и рассылает им события публикаций.
type Hub struct {
	clients    map[*Client]bool
	mu         sync.RWMutex
	Register   chan *Client
	Unregister chan *Client
	Log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Log:        log.With(slog.String("component", "feed_hub")),
	}
}

// Run запускает основной цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			client.Log.Debug("feed client registered")

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			client.Log.Debug("feed client unregistered")
		}
	}
}

// BroadcastStoryPublished пушит событие о новой истории всем подключенным
// клиентам. Медленные клиенты пропускаются, их отключит ping-цикл.
func (h *Hub) BroadcastStoryPublished(st *story.StoryResponse) {
	event := feed.FeedEvent{
		Type:     feed.EventStoryPublished,
		StoryId:  st.StoryId,
		Title:    st.Title,
		Category: st.CategoryName,
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.Log.Error("failed to marshal feed event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- messageBytes:
		default:
			h.Log.Warn("feed client send channel full, skipping", "userID", client.UserID)
		}
	}
}
