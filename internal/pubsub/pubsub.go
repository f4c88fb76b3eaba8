// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pubsub provides a small topic-based publish/subscribe
// abstraction backed by either an in-process broadcaster or Redis,
// selected by config.Redis.Enabled. internal/events builds its typed
// device-event bus on top of this.
package pubsub

import (
	"context"

	"github.com/evdc-project/enocean-vdc/internal/config"
)

type PubSub interface {
	Publish(topic string, message []byte) error
	Subscribe(topic string) Subscription
	Close() error
}

type Subscription interface {
	Close() error
	Channel() <-chan []byte
}

func MakePubSub(ctx context.Context, config *config.Config) (PubSub, error) {
	if config.Redis.Enabled {
		return makePubSubFromRedis(ctx, config)
	}
	return makeInMemoryPubSub(config)
}
