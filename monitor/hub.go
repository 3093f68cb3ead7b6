// Package monitor broadcasts refinement-stage events over a WebSocket
// connection, adapted from the teacher's web/Hub + server/UdpServer
// broadcast pattern to the refinement driver's stage transitions instead of
// UDP frame telemetry.
package monitor

import "encoding/json"

// StageEvent reports one refinement stage transition to connected
// monitors: the parameter kind that was just toggled in, the R factor
// after that stage, and whether the divergence guard tripped.
type StageEvent struct {
	Stage    string  `json:"stage"`
	RFactor  float64 `json:"r_factor"`
	Aborted  bool    `json:"aborted"`
	Sequence int     `json:"sequence"`
}

// Hub fans out broadcast messages to every registered client connection,
// following the teacher's web.Hub shape (register/unregister/broadcast
// channels drained by a single Run loop).
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]bool
}

// NewHub constructs an unstarted Hub; call Run in its own goroutine before
// accepting connections.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
		clients:    make(map[*client]bool),
	}
}

// Run drains the Hub's channels until the process exits; intended to run
// in its own goroutine, mirroring the teacher's "go s.Hub.Run()" wiring.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast enqueues msg for delivery to every connected client.
func (h *Hub) Broadcast(msg []byte) {
	h.broadcast <- msg
}

// BroadcastStageEvent marshals and broadcasts a StageEvent.
func (h *Hub) BroadcastStageEvent(ev StageEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.Broadcast(b)
	return nil
}
