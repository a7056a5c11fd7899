package session

import (
	"sync"

	"github.com/seantiz/choreo/internal/model"
)

// subscriberBufferSize is the channel buffer for each event subscriber.
// Events are dropped if a subscriber falls this far behind.
const subscriberBufferSize = 64

// Broker manages per-session event streaming to subscribers.
// It is safe for concurrent use.
//
// Closed topics are retained as markers so that late subscribers (those
// subscribing after a session is deleted) receive a closed channel instead of
// blocking forever. Each marker is a few bytes, which is acceptable for the
// expected session volume.
type Broker struct {
	mu     sync.Mutex
	topics map[string]*eventTopic
}

type eventTopic struct {
	subs   map[int]chan model.Event
	nextID int
	closed bool
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		topics: make(map[string]*eventTopic),
	}
}

// Subscribe returns a channel that receives events for the given session and
// an unsubscribe function. If the session has already been deleted (Close was
// called), the returned channel is immediately closed.
func (b *Broker) Subscribe(sessionID string) (<-chan model.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[sessionID]
	if !ok {
		t = &eventTopic{subs: make(map[int]chan model.Event)}
		b.topics[sessionID] = t
	}

	ch := make(chan model.Event, subscriberBufferSize)
	if t.closed {
		close(ch)
		return ch, func() {}
	}

	id := t.nextID
	t.nextID++
	t.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(t.subs, id)
	}
}

// Publish sends an event to all subscribers of the given session.
// Events are dropped for subscribers whose buffers are full.
func (b *Broker) Publish(sessionID string, e model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[sessionID]
	if !ok || t.closed {
		return
	}

	for _, ch := range t.subs {
		select {
		case ch <- e:
		default:
			// Drop for slow subscribers to avoid blocking the update pass.
		}
	}
}

// Close signals that no more events will be published for the given session.
// All subscriber channels are closed and future Subscribe calls return a
// closed channel.
func (b *Broker) Close(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[sessionID]
	if !ok {
		// Create a closed marker so late subscribers get a closed channel.
		b.topics[sessionID] = &eventTopic{subs: make(map[int]chan model.Event), closed: true}
		return
	}

	t.closed = true
	for id, ch := range t.subs {
		close(ch)
		delete(t.subs, id)
	}
}
