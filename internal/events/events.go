package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog/log"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// PostEvent announces a change to a post.
type PostEvent struct {
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	GroupID   *int64    `json:"group_id,omitempty"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier publishes post events.
type Notifier interface {
	Publish(event PostEvent) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{
		client:   client,
		producer: producer,
	}, nil
}

// Publish publishes an event to Pulsar, keyed by post so that events for
// the same post stay ordered.
func (p *EventPublisher) Publish(event PostEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Payload: message,
		Key:     fmt.Sprintf("post-%d", event.PostID),
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Debug().RawJSON("event", message).Msg("Event sent to Pulsar")
	return nil
}

// Close closes the Pulsar client and producer
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed successfully")
}

// NoopPublisher discards events. It is used when no Pulsar URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(event PostEvent) error { return nil }

func (NoopPublisher) Close() {}

// NewNotifier returns a Pulsar publisher, or a NoopPublisher when url is empty.
func NewNotifier(url, topic string) (Notifier, error) {
	if url == "" {
		log.Warn().Msg("pulsar url not configured, post events are disabled")
		return NoopPublisher{}, nil
	}
	return NewEventPublisher(url, topic)
}
