package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Subscriber produces lazy, infinite sequences of change events. The returned
// cancel func releases the underlying subscription and closes the channel;
// callers may unsubscribe at any time.
type Subscriber interface {
	SubscribeReports(ctx context.Context) (<-chan Event, func())
	SubscribeProfile(ctx context.Context, userID string) (<-chan Event, func())
}

// RedisSubscriber bridges Redis pub/sub channels to Event channels.
type RedisSubscriber struct {
	redisClient *redis.Client
	namespace   string
	logger      *logrus.Logger
}

func NewRedisSubscriber(client *redis.Client, namespace string, logger *logrus.Logger) *RedisSubscriber {
	return &RedisSubscriber{
		redisClient: client,
		namespace:   namespace,
		logger:      logger,
	}
}

func (s *RedisSubscriber) SubscribeReports(ctx context.Context) (<-chan Event, func()) {
	return s.subscribe(ctx, ReportsChannel(s.namespace))
}

func (s *RedisSubscriber) SubscribeProfile(ctx context.Context, userID string) (<-chan Event, func()) {
	return s.subscribe(ctx, ProfileChannel(s.namespace, userID))
}

func (s *RedisSubscriber) subscribe(ctx context.Context, channel string) (<-chan Event, func()) {
	pubsub := s.redisClient.Subscribe(ctx, channel)
	events := make(chan Event)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.WithError(err).WithField("channel", channel).Warn("Dropping undecodable event")
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		// Closing the pubsub ends Channel() and with it the goroutine.
		if err := pubsub.Close(); err != nil {
			s.logger.WithError(err).WithField("channel", channel).Warn("Failed to close subscription")
		}
	}
	return events, cancel
}
