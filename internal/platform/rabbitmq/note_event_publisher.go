package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"notekeeper/internal/model"
)

type NoteEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewNoteEventPublisher(conn *amqp.Connection, queueName string) *NoteEventPublisher {
	return &NoteEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

// Publish opens a short-lived channel per event; amqp channels are not safe
// for concurrent publishing and requests publish concurrently.
func (p *NoteEventPublisher) Publish(ctx context.Context, event model.NoteEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish note event failed: %w", err)
	}
	return nil
}

func encodeEvent(event model.NoteEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal note event failed: %w", err)
	}
	return payload, nil
}
