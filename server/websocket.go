package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"trackreplay/sim"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsOutgoing wraps every event sent to a socket client.
type wsOutgoing struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// wsIncoming is a client message: {"type":"busy","busy":true} while a clip
// plays, or {"type":"control","action":"pause"}.
type wsIncoming struct {
	Type   string  `json:"type"`
	Busy   bool    `json:"busy"`
	Action string  `json:"action"`
	Speed  float64 `json:"speed"`
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	connID, ctrl, events, closeFn := s.openConn(c)
	defer closeFn()
	log.Printf("ws: conn=%s opened", connID)
	defer log.Printf("ws: conn=%s closed", connID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			handleWSMessage(connID, ctrl, message)
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			name, payload := encodeEvent(ev)
			if name == "" {
				continue
			}
			if err := conn.WriteJSON(wsOutgoing{Type: name, Data: payload}); err != nil {
				return
			}
		}
	}
}

func handleWSMessage(connID string, ctrl *connControl, message []byte) {
	var msg wsIncoming
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}
	switch msg.Type {
	case "busy":
		ctrl.busy.Store(msg.Busy)
	case "control":
		cmd, err := sim.ParseCommand(msg.Action, msg.Speed)
		if err != nil {
			log.Printf("ws: conn=%s bad control: %v", connID, err)
			return
		}
		if err := ctrl.apply(cmd); err != nil {
			log.Printf("ws: conn=%s control %s dropped: %v", connID, cmd.Kind, err)
		}
	}
}
