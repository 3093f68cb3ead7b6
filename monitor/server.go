package monitor

import (
	"fmt"
	"log"
	"net/http"
)

// Server exposes a Hub of refinement-stage subscribers over HTTP,
// adapted from the teacher's web.Server (which served a static frontend
// and config files alongside its websocket hub) down to just the
// websocket endpoint a refinement monitor needs.
type Server struct {
	Hub *Hub
}

// NewServer constructs a Server with an unstarted Hub.
func NewServer() *Server {
	return &Server{Hub: NewHub()}
}

// Start runs the Hub's broadcast loop and serves the "/ws" endpoint on
// port until the process exits or ListenAndServe fails.
func (s *Server) Start(port int) error {
	go s.Hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(s.Hub, w, r)
	})

	addr := fmt.Sprintf(":%d", port)
	log.Printf("monitor server listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
