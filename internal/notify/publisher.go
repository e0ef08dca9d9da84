package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
)

// EventType identifies the kind of document change carried by an Event.
type EventType string

const (
	EventReportCreated  EventType = "report.created"
	EventReportUpdated  EventType = "report.updated"
	EventProfileUpdated EventType = "profile.updated"
)

// Event is the change notification fanned out to live subscribers and to the
// webhook queue. Exactly one of Report/Profile is set, matching the type.
type Event struct {
	Type      EventType       `json:"type"`
	Namespace string          `json:"namespace"`
	Timestamp time.Time       `json:"timestamp"`
	Report    *models.Report  `json:"report,omitempty"`
	Profile   *models.Profile `json:"profile,omitempty"`
}

// Publisher fans committed document changes out to subscribers. Publish is
// called after the store write commits, never inside a transaction.
type Publisher interface {
	ReportChanged(ctx context.Context, event EventType, report *models.Report) error
	ProfileChanged(ctx context.Context, profile *models.Profile) error
}

// RedisPublisher publishes events on namespaced pub/sub channels for live
// views and pushes the same payload onto the webhook delivery queue.
type RedisPublisher struct {
	redisClient *redis.Client
	namespace   string
}

func NewRedisPublisher(client *redis.Client, namespace string) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
		namespace:   namespace,
	}
}

// ReportsChannel is the pub/sub channel carrying every report change in the
// namespace.
func ReportsChannel(namespace string) string {
	return fmt.Sprintf("%s:reports", namespace)
}

// ProfileChannel is the per-user pub/sub channel carrying profile changes.
func ProfileChannel(namespace, userID string) string {
	return fmt.Sprintf("%s:profiles:%s", namespace, userID)
}

func webhookQueueKey(namespace string) string {
	return fmt.Sprintf("%s:webhook_events", namespace)
}

func (p *RedisPublisher) ReportChanged(ctx context.Context, event EventType, report *models.Report) error {
	return p.publish(ctx, Event{
		Type:      event,
		Namespace: p.namespace,
		Timestamp: time.Now().UTC(),
		Report:    report,
	}, ReportsChannel(p.namespace))
}

func (p *RedisPublisher) ProfileChanged(ctx context.Context, profile *models.Profile) error {
	return p.publish(ctx, Event{
		Type:      EventProfileUpdated,
		Namespace: p.namespace,
		Timestamp: time.Now().UTC(),
		Profile:   profile,
	}, ProfileChannel(p.namespace, profile.UserID.String()))
}

func (p *RedisPublisher) publish(ctx context.Context, event Event, channel string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", channel, err)
	}

	// Same payload feeds the webhook worker queue.
	if err := p.redisClient.LPush(ctx, webhookQueueKey(p.namespace), payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue webhook event: %w", err)
	}
	return nil
}
