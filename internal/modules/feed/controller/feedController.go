package controller

import (
	"log/slog"
	"net/http"

	"redunap/internal/modules/feed/ws"
)

type FeedController struct {
	hub *ws.Hub
	log *slog.Logger
}

func NewFeedController(log *slog.Logger, hub *ws.Hub) *FeedController {
	return &FeedController{
		hub: hub,
		log: log,
	}
}

// ServeFeed
// @Summary Realtime story feed over websocket
// @Tags feed
// @Security ApiKeyAuth
// @Success 101 "Switching Protocols"
// @Failure 401 "Unauthorized"
// @Router /ws/feed [get]
func (c *FeedController) ServeFeed(w http.ResponseWriter, r *http.Request) {
	op := "FeedController.ServeFeed"

	userID, ok := r.Context().Value("userId").(uint)
	if !ok || userID == 0 {
		c.log.Warn("unauthorized ws: userID not found in context", slog.String("op", op))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	log := c.log.With(slog.String("op", op), slog.Uint64("userID", uint64(userID)))

	conn, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &ws.Client{
		Hub:    c.hub,
		Conn:   conn,
		Send:   make(chan []byte, 16),
		UserID: userID,
		Log:    log,
	}
	c.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
