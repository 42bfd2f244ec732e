// Package notify pushes task events to connected live sessions.
// Delivery is at-most-once and best-effort: the hub never blocks a
// request cycle, never persists an event, and drops sessions that
// cannot keep up. Disconnected clients re-synchronize against the
// authoritative store on their own.
package notify

import (
	"sync"

	"github.com/google/uuid"
	"github.com/officevault/backend/internal/models"
)

const (
	EventTaskCreated = "task.created"
	// Bulk assignment emits a single re-fetch signal instead of
	// replaying every created record.
	EventTasksBulkAssigned = "tasks.bulk_assigned"
)

type Event struct {
	Type string       `json:"type"`
	Task *models.Task `json:"task,omitempty"`
}

// Session identifies one connected client for predicate filtering.
type Session struct {
	UserID uuid.UUID
	Role   models.Role
}

// Predicate decides whether a session should receive an event.
type Predicate func(s Session) bool

// Publisher is the narrow surface task creation depends on, so the
// transport underneath stays swappable.
type Publisher interface {
	Publish(event Event, pred Predicate)
}

type client struct {
	session Session
	send    chan Event
}

// Hub fans events out to registered sessions.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Register adds a session and returns its event stream plus an
// unregister func. The stream is closed on unregister.
func (h *Hub) Register(s Session) (<-chan Event, func()) {
	c := &client{session: s, send: make(chan Event, 16)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unregister := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()
			close(c.send)
		})
	}
	return c.send, unregister
}

// Publish delivers event to every connected session matching pred.
// A session whose buffer is full misses the event; no retry.
func (h *Hub) Publish(event Event, pred Predicate) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if pred != nil && !pred(c.session) {
			continue
		}
		select {
		case c.send <- event:
		default:
		}
	}
}

// ConnectedCount reports the number of live sessions.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TaskAudience matches admins and the task's assignee.
func TaskAudience(task *models.Task) Predicate {
	return func(s Session) bool {
		return s.Role == models.RoleAdmin || s.UserID == task.AssignedTo
	}
}

// Everyone matches all connected sessions.
func Everyone(Session) bool { return true }
