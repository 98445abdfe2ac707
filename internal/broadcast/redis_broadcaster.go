package broadcast

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/rueidis"
)

// RedisBroadcaster routes change events through redis pub/sub so that
// multiple server instances share one live topic per owner. The channel
// name is prefix + owner id.
type RedisBroadcaster struct {
	client rueidis.Client
	prefix string
}

func NewRedisBroadcaster(client rueidis.Client, prefix string) *RedisBroadcaster {
	return &RedisBroadcaster{
		client: client,
		prefix: prefix,
	}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	cmd := b.client.B().Publish().
		Channel(b.prefix + event.OwnerID).
		Message(string(payload)).
		Build()

	return b.client.Do(ctx, cmd).Error()
}

func (b *RedisBroadcaster) Subscribe(ownerID string) (Subscription, error) {
	dedicated, cancel := b.client.Dedicate()

	ch := make(chan Event, subscriberBuffer)

	wait := dedicated.SetPubSubHooks(rueidis.PubSubHooks{
		OnMessage: func(m rueidis.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(m.Message), &event); err != nil {
				log.Printf("broadcast: dropping undecodable event: %v", err)
				return
			}
			event.OwnerID = ownerID
			select {
			case ch <- event:
			default:
			}
		},
	})

	subscribeCmd := dedicated.B().Subscribe().Channel(b.prefix + ownerID).Build()
	if err := dedicated.Do(context.Background(), subscribeCmd).Error(); err != nil {
		cancel()
		return nil, err
	}

	// the hooks channel fires once the dedicated connection is released
	go func() {
		<-wait
		close(ch)
	}()

	return &redisSubscription{ch: ch, cancel: cancel}, nil
}

func (b *RedisBroadcaster) Close() {
	b.client.Close()
}

type redisSubscription struct {
	ch     chan Event
	cancel func()
}

func (s *redisSubscription) Events() <-chan Event {
	return s.ch
}

func (s *redisSubscription) Close() {
	s.cancel()
}
