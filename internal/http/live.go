package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveTasks upgrades the connection and forwards the caller's change
// events until the client disconnects. The subscription covers only the
// authenticated owner's topic; clients are not expected to send anything
// after the handshake, incoming frames are read solely to notice the
// disconnect.
func (h *Handler) LiveTasks(c echo.Context) error {
	owner := ownerID(c)

	// subscribe before completing the handshake so that no event published
	// after the client sees the 101 can be missed
	sub, err := h.broadcaster.Subscribe(owner)
	if err != nil {
		log.Printf("live: subscribe failed for %s: %v", owner, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(event); err != nil {
				return nil
			}
		}
	}
}
