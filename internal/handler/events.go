package handler

import (
	"fmt"
	"net/http"

	"github.com/festo/gala/api/internal/middleware"
	"github.com/festo/gala/api/internal/model"
	"github.com/festo/gala/api/internal/service"
	"github.com/google/uuid"
)

// EventsHandler handles SSE event streaming
type EventsHandler struct {
	eventHub *service.EventHub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(eventHub *service.EventHub) *EventsHandler {
	return &EventsHandler{
		eventHub: eventHub,
	}
}

// RegisterRoutes registers event streaming routes
func (h *EventsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/events", h.Stream)
	mux.HandleFunc("GET /v1/admin/events", h.Monitor)
}

// Stream handles GET /v1/events, streaming the caller's own standing, report
// and appeal events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	setSSEHeaders(w)

	subscriberID := uuid.New().String()
	sub := h.eventHub.Subscribe(userID, subscriberID)
	defer h.eventHub.Unsubscribe(userID, subscriberID)

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	streamEvents(w, r, flusher, sub)
}

// Monitor handles GET /v1/admin/events, the full-firehose admin stream
func (h *EventsHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	setSSEHeaders(w)

	subscriberID := uuid.New().String()
	sub := h.eventHub.SubscribeMonitor(subscriberID)
	defer h.eventHub.UnsubscribeMonitor(subscriberID)

	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	streamEvents(w, r, flusher, sub)
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
}

func streamEvents(w http.ResponseWriter, r *http.Request, flusher http.Flusher, sub *service.Subscriber) {
	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			flusher.Flush()

		case <-sub.Done:
			return

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}
