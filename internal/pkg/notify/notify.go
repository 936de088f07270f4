// Package notify publishes registration lifecycle events.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventRegistrationCreated is the type of the message sent after an insert
const EventRegistrationCreated = "registration.created"

// RegistrationCreated is the payload published after a registration is stored
type RegistrationCreated struct {
	Type           string    `json:"type"`
	RegistrationID string    `json:"registrationId"`
	EventSlug      string    `json:"eventSlug"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Publisher delivers registration events
type Publisher interface {
	PublishRegistrationCreated(ctx context.Context, msg RegistrationCreated) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by registration id
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher initializes a new Kafka producer
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}
}

// PublishRegistrationCreated publishes msg to Kafka
func (p *KafkaPublisher) PublishRegistrationCreated(ctx context.Context, msg RegistrationCreated) error {
	const op = "notify.kafka.PublishRegistrationCreated"

	if msg.Type == "" {
		msg.Type = EventRegistrationCreated
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.RegistrationID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event; used when no brokers are configured
type NopPublisher struct{}

// PublishRegistrationCreated does nothing
func (NopPublisher) PublishRegistrationCreated(context.Context, RegistrationCreated) error {
	return nil
}

// Close does nothing
func (NopPublisher) Close() error { return nil }

// New returns a Kafka publisher when brokers are given, else a NopPublisher
func New(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
