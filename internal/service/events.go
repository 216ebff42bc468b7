package service

import (
	"encoding/json"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	// Standing events
	EventStandingChanged    EventType = "standing.changed"
	EventStandingSuspended  EventType = "standing.suspended"
	EventStandingReinstated EventType = "standing.reinstated"

	// Report events
	EventReportFiled    EventType = "report.filed"
	EventReportResolved EventType = "report.resolved"

	// Appeal events
	EventAppealSubmitted EventType = "appeal.submitted"
	EventAppealDecided   EventType = "appeal.decided"

	// System events
	EventHeartbeat EventType = "heartbeat"
)

// Event represents a server-sent event
type Event struct {
	Type   EventType   `json:"type"`
	Data   interface{} `json:"data"`
	UserID string      `json:"-"` // Used for routing, not sent to client
}

// Format returns the SSE formatted string
func (e *Event) Format() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + string(e.Type) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber represents a connected SSE client
type Subscriber struct {
	ID     string
	UserID string
	Events chan *Event
	Done   chan struct{}
}

// EventHub manages SSE subscriptions and event broadcasting. Standing events
// are routed to the affected user's subscribers; admin monitors subscribe to
// the firehose and receive every event.
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // userID -> subscriberID -> subscriber
	monitors    map[string]*Subscriber            // subscriberID -> admin firehose subscriber
	heartbeat   *time.Ticker
	done        chan struct{}
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	hub := &EventHub{
		subscribers: make(map[string]map[string]*Subscriber),
		monitors:    make(map[string]*Subscriber),
		done:        make(chan struct{}),
	}
	// Start heartbeat
	hub.heartbeat = time.NewTicker(30 * time.Second)
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber for a user's standing events
func (h *EventHub) Subscribe(userID, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:     subscriberID,
		UserID: userID,
		Events: make(chan *Event, 100), // Buffer to prevent blocking
		Done:   make(chan struct{}),
	}

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[string]*Subscriber)
	}
	h.subscribers[userID][subscriberID] = sub

	return sub
}

// Unsubscribe removes a subscriber
func (h *EventHub) Unsubscribe(userID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userSubs, ok := h.subscribers[userID]; ok {
		if sub, ok := userSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Events)
			delete(userSubs, subscriberID)
		}
		if len(userSubs) == 0 {
			delete(h.subscribers, userID)
		}
	}
}

// SubscribeMonitor adds an admin firehose subscriber receiving all events
func (h *EventHub) SubscribeMonitor(subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:     subscriberID,
		Events: make(chan *Event, 100),
		Done:   make(chan struct{}),
	}
	h.monitors[subscriberID] = sub
	return sub
}

// UnsubscribeMonitor removes an admin firehose subscriber
func (h *EventHub) UnsubscribeMonitor(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.monitors[subscriberID]; ok {
		close(sub.Done)
		close(sub.Events)
		delete(h.monitors, subscriberID)
	}
}

// Publish sends an event to the affected user's subscribers and to all
// admin monitors
func (h *EventHub) Publish(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if userSubs, ok := h.subscribers[event.UserID]; ok {
		for _, sub := range userSubs {
			select {
			case sub.Events <- event:
				// Event sent successfully
			default:
				// Buffer full, skip this subscriber
			}
		}
	}

	for _, sub := range h.monitors {
		select {
		case sub.Events <- event:
		default:
		}
	}
}

// sendHeartbeats sends periodic heartbeats to all subscribers
func (h *EventHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.mu.RLock()
			event := &Event{
				Type: EventHeartbeat,
				Data: map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				},
			}
			for _, userSubs := range h.subscribers {
				for _, sub := range userSubs {
					select {
					case sub.Events <- event:
					default:
					}
				}
			}
			for _, sub := range h.monitors {
				select {
				case sub.Events <- event:
				default:
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the event hub
func (h *EventHub) Close() {
	close(h.done)
	h.heartbeat.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userSubs := range h.subscribers {
		for _, sub := range userSubs {
			close(sub.Done)
			close(sub.Events)
		}
		delete(h.subscribers, userID)
	}
	for id, sub := range h.monitors {
		close(sub.Done)
		close(sub.Events)
		delete(h.monitors, id)
	}
}

// SubscriberCount returns the number of subscribers for a user
func (h *EventHub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if userSubs, ok := h.subscribers[userID]; ok {
		return len(userSubs)
	}
	return 0
}
