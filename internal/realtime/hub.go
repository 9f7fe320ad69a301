// Package realtime delivers notification change events to connected
// clients over a single shared Redis pub/sub subscription. Components
// attach local listeners instead of opening channels of their own.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"jobboard/internal/common/logger"
	"jobboard/internal/common/metrics"
	"jobboard/internal/models"
)

type EventKind string

const (
	KindInsert EventKind = "INSERT"
	KindUpdate EventKind = "UPDATE"
)

// Event is a change pushed to a recipient after a notification row is
// inserted or updated.
type Event struct {
	Kind         EventKind           `json:"kind"`
	Notification models.Notification `json:"notification"`
}

type Hub struct {
	rdb    *redis.Client
	prefix string
	logger logger.Logger

	mu        sync.Mutex
	listeners map[string]map[int]chan Event
	nextID    int
}

func NewHub(rdb *redis.Client, channelPrefix string, log logger.Logger) *Hub {
	return &Hub{
		rdb:       rdb,
		prefix:    channelPrefix,
		logger:    log.WithFields(map[string]interface{}{"component": "realtime-hub"}),
		listeners: make(map[string]map[int]chan Event),
	}
}

// Publish pushes a change event onto the recipient's channel.
func (h *Hub) Publish(ctx context.Context, kind EventKind, n *models.Notification) error {
	recipient := n.RecipientID()
	if recipient == "" {
		return fmt.Errorf("notification %s has no recipient", n.ID)
	}

	payload, err := json.Marshal(Event{Kind: kind, Notification: *n})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := h.rdb.Publish(ctx, h.prefix+recipient, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Run opens the process-wide subscription and dispatches incoming events
// to local listeners until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	pubsub := h.rdb.PSubscribe(ctx, h.prefix+"*")
	defer pubsub.Close()

	h.logger.Info("realtime subscription opened", map[string]interface{}{
		"pattern": h.prefix + "*",
	})

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			h.dispatch(msg)
		}
	}
}

func (h *Hub) dispatch(msg *redis.Message) {
	recipient := strings.TrimPrefix(msg.Channel, h.prefix)

	var event Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		h.logger.Warn("dropping malformed event", map[string]interface{}{
			"channel": msg.Channel,
			"error":   err,
		})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, listener := range h.listeners[recipient] {
		select {
		case listener <- event:
			metrics.RealtimeEventsDelivered.Inc()
		default:
			// Listener is not draining; drop rather than block the loop.
			h.logger.Warn("listener buffer full, event dropped", map[string]interface{}{
				"recipient": recipient,
			})
		}
	}
}

// Subscribe registers a local listener for a recipient. The returned
// cancel func must be called when the listener goes away.
func (h *Hub) Subscribe(recipientID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.listeners[recipientID] == nil {
		h.listeners[recipientID] = make(map[int]chan Event)
	}
	h.listeners[recipientID][id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set, ok := h.listeners[recipientID]
		if !ok {
			return
		}
		if _, ok := set[id]; !ok {
			// Already cancelled; closing again would panic.
			return
		}
		delete(set, id)
		if len(set) == 0 {
			delete(h.listeners, recipientID)
		}
		close(ch)
	}
	return ch, cancel
}
