package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type networkEvent struct {
	State   string    `json:"state"`
	Ssid    string    `json:"ssid"`
	Status  string    `json:"status"`
	Address string    `json:"address,omitempty"`
	Time    time.Time `json:"time"`
}

func (a *Api) handleGetNetworkEvents() http.HandlerFunc {
	upgrader := &websocket.Upgrader{}

	return func(w http.ResponseWriter, r *http.Request) {
		client := a.board.SubscribeNetwork()
		defer client.Cancel()

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// the upgrader already replied with an error
			a.log.Debugf("Could not upgrade to websocket: %v", err)
			return
		}

		defer c.Close()

		closed := make(chan struct{})

		// read pump
		go func() {
			defer close(closed)

			c.SetReadLimit(512)
			_ = c.SetReadDeadline(time.Now().Add(pongWait))
			c.SetPongHandler(func(string) error {
				return c.SetReadDeadline(time.Now().Add(pongWait))
			})

			for {
				_, _, err := c.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						a.log.Errorf("unexpected websocket closure: %v", err)
					}
					return
				}
			}
		}()

		// write pump
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case change, ok := <-client.Updates:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))

				if !ok {
					_ = c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}

				event := &networkEvent{
					State:  change.State.String(),
					Ssid:   change.Ssid,
					Status: change.Status.String(),
					Time:   change.Time,
				}

				if change.Address != nil {
					event.Address = change.Address.String()
				}

				if err := c.WriteJSON(event); err != nil {
					return
				}

			case <-ticker.C:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}

			case <-closed:
				return
			}
		}
	}
}
