package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
)

// KafkaPublisher writes marketplace events to a Kafka topic. Messages are
// keyed by asset so every consumer sees one asset's events in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // hash by key for per-asset ordering
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.Event) error {
	env := Envelope{
		ID:      uuid.NewString(),
		Kind:    ev.Kind(),
		Key:     ev.Key(),
		At:      time.Now(),
		Payload: ev,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
		Time:  env.At,
		Headers: []kafka.Header{
			{Key: "event-kind", Value: []byte(env.Kind)},
			{Key: "event-id", Value: []byte(env.ID)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
