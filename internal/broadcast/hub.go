package broadcast

import (
	"context"
	"sync"
)

// subscriberBuffer bounds how many undelivered events a single subscriber
// may hold. A subscriber that falls further behind loses events; delivery
// to other subscribers is unaffected.
const subscriberBuffer = 16

// Hub is the in-process Broadcaster used when the service runs as a single
// instance. Membership is guarded by a RWMutex: connect/disconnect take the
// write lock, publish fans out under the read lock.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*hubSubscription]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*hubSubscription]struct{}),
	}
}

func (h *Hub) Publish(ctx context.Context, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil
	}

	for sub := range h.topics[event.OwnerID] {
		select {
		case sub.ch <- event:
		default:
			// subscriber buffer full, drop for this subscriber only
		}
	}

	return nil
}

func (h *Hub) Subscribe(ownerID string) (Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &hubSubscription{
		hub:     h,
		ownerID: ownerID,
		ch:      make(chan Event, subscriberBuffer),
	}

	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub, nil
	}

	if h.topics[ownerID] == nil {
		h.topics[ownerID] = make(map[*hubSubscription]struct{})
	}
	h.topics[ownerID][sub] = struct{}{}

	return sub, nil
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, subs := range h.topics {
		for sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
		}
	}
	h.topics = make(map[string]map[*hubSubscription]struct{})
}

type hubSubscription struct {
	hub     *Hub
	ownerID string
	ch      chan Event
	once    sync.Once
}

func (s *hubSubscription) Events() <-chan Event {
	return s.ch
}

func (s *hubSubscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if subs, ok := s.hub.topics[s.ownerID]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.hub.topics, s.ownerID)
		}
	}
	s.once.Do(func() { close(s.ch) })
}
