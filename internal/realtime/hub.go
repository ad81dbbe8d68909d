package realtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second
)

// Hub pushes change notifications to browser clients over websockets.
type Hub struct {
	bus      Bus
	upgrader websocket.Upgrader
}

func NewHub(bus Bus) *Hub {
	return &Hub{
		bus: bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request. Optional query params: business_id narrows
// slot and settings changes to one business, table may repeat.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	businessID := c.Query("business_id")
	tables := c.QueryArray("table")
	if len(tables) == 0 {
		tables = []string{TableSlots, TableBusinesses, TableSettings}
	}

	sub := h.bus.Subscribe(tables...)
	defer sub.Close()

	// reader only exists to notice the client going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case ch, ok := <-sub.C:
			if !ok {
				return
			}
			if businessID != "" && ch.BusinessID != "" && ch.BusinessID != businessID && ch.Table != TableBusinesses {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ch); err != nil {
				slog.Debug("websocket write failed", "err", err)
				return
			}
		}
	}
}
