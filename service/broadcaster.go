package service

import "sync"

// EventType categorizes a broadcast event, matching the front-panel's two
// observable update kinds (§3.4, §4.6): a state snapshot, and an
// output-required pulse.
type EventType string

const (
	// EventTypeState carries a full runner.Snapshot.
	EventTypeState EventType = "state"
	// EventTypeOutput marks that the indicator changed and output_required
	// was just cleared (§3.4 invariant 5).
	EventTypeOutput EventType = "output"
)

// BroadcastEvent is sent to every subscribed WebSocket client.
type BroadcastEvent struct {
	Type EventType              `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Subscription is one client's channel into the broadcaster's fan-out.
type Subscription struct {
	Channel chan BroadcastEvent
}

// Broadcaster fans a single stream of engine events out to any number of
// WebSocket clients, mirroring the teacher's session broadcaster but
// without per-session filtering - this simulator drives exactly one
// engine per process.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a new event broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				select {
				case sub.Channel <- event:
				default:
					// slow client; drop rather than block the broadcaster
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()
			return
		}
	}
}

// Subscribe registers a new client and returns its subscription.
func (b *Broadcaster) Subscribe() *Subscription {
	sub := &Subscription{Channel: make(chan BroadcastEvent, 256)}
	b.register <- sub
	return sub
}

// Unsubscribe removes a client's subscription.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Publish broadcasts an event to every subscribed client, non-blocking.
func (b *Broadcaster) Publish(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
		// broadcaster itself is backed up; drop the event rather than block
	}
}

// Close shuts the broadcaster down and disconnects all clients.
func (b *Broadcaster) Close() {
	close(b.done)
}
