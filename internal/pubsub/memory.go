// SPDX-License-Identifier: AGPL-3.0-or-later
package pubsub

import (
	"sync"

	"github.com/evdc-project/enocean-vdc/internal/config"
)

func makeInMemoryPubSub(_ *config.Config) (PubSub, error) {
	return &inMemoryPubSub{subs: make(map[string][]*inMemorySubscription)}, nil
}

// inMemoryPubSub fans each Publish out to every live Subscribe'r of the
// same topic in this process. There is no cross-process delivery; a
// clustered deployment needs config.Redis.Enabled for that.
type inMemoryPubSub struct {
	mu   sync.Mutex
	subs map[string][]*inMemorySubscription
}

func (ps *inMemoryPubSub) Publish(topic string, message []byte) error {
	ps.mu.Lock()
	targets := append([]*inMemorySubscription(nil), ps.subs[topic]...)
	ps.mu.Unlock()

	for _, s := range targets {
		select {
		case s.ch <- message:
		default:
			// A slow subscriber drops messages rather than blocking the
			// publisher; events are best-effort per subscriber.
		}
	}
	return nil
}

func (ps *inMemoryPubSub) Subscribe(topic string) Subscription {
	s := &inMemorySubscription{ch: make(chan []byte, 16), topic: topic, ps: ps}
	ps.mu.Lock()
	ps.subs[topic] = append(ps.subs[topic], s)
	ps.mu.Unlock()
	return s
}

func (ps *inMemoryPubSub) Close() error {
	return nil
}

func (ps *inMemoryPubSub) remove(s *inMemorySubscription) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	targets := ps.subs[s.topic]
	for i, t := range targets {
		if t == s {
			ps.subs[s.topic] = append(targets[:i], targets[i+1:]...)
			break
		}
	}
}

type inMemorySubscription struct {
	ch    chan []byte
	topic string
	ps    *inMemoryPubSub
}

func (s *inMemorySubscription) Unsubscribe() error {
	s.ps.remove(s)
	return nil
}

func (s *inMemorySubscription) Close() error {
	s.ps.remove(s)
	close(s.ch)
	return nil
}

func (s *inMemorySubscription) Channel() <-chan []byte {
	return s.ch
}
