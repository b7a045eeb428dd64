package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// allTraces is the topic that receives every broadcast.
const allTraces = ""

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // TraceID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a listener for a trace ID, or for every trace when
// traceID is empty. The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(traceID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 64)
	if _, ok := sm.subscribers[traceID]; !ok {
		sm.subscribers[traceID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[traceID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[traceID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, traceID)
			}
		}
	}
}

// Subscribers returns the number of listeners of traceID.
func (sm *StreamManager) Subscribers(traceID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[traceID])
}

// Broadcast sends msg to the listeners of traceID and to the global listeners.
func (sm *StreamManager) Broadcast(traceID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	topics := []string{allTraces}
	if traceID != allTraces {
		topics = append(topics, traceID)
	}
	for _, topic := range topics {
		for ch := range sm.subscribers[topic] {
			select {
			case ch <- msg:
			default:
				// Drop message if channel is full (slow client)
				slog.Warn("SSE: Client buffer full, dropping message", "trace_id", traceID)
			}
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). Replay notifications
// are streamed as "notification" events; ?trace= narrows the stream to one
// trace ID.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	traceID := r.URL.Query().Get("trace")
	ch, unsubscribe := s.Streams.Subscribe(traceID)
	defer unsubscribe()
	s.logger.Info("SSE: Subscribing to notifications", "trace_id", traceID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
