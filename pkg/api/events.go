package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/drawgraph/pkg/event"
)

const (
	// eventBuffer bounds the per-client backlog; a slow client drops events.
	eventBuffer = 64

	keepaliveInterval = 15 * time.Second
)

// handleEvents streams bus events as server-sent events until the client
// disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := make(chan event.Event, eventBuffer)
	unsubscribe := s.ed.Bus().SubscribeAll(func(ev event.Event) {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("dropping event for slow client", "topic", ev.Topic)
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	var seq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case ev := <-ch:
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				s.logger.Warn("encode event", "topic", ev.Topic, "err", err)
				continue
			}
			seq++
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", seq, ev.Topic, data)
			flusher.Flush()
		}
	}
}
