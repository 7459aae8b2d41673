package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"smmaa-bot/internal/domain"
)

// RabbitFeedbackQueue transportă evenimentele de feedback prin RabbitMQ.
type RabbitFeedbackQueue struct {
	conn  *amqp.Connection
	queue string
}

var _ domain.FeedbackQueue = (*RabbitFeedbackQueue)(nil)

// NewRabbitFeedbackQueue deschide conexiunea și declară coada.
func NewRabbitFeedbackQueue(amqpURL, queue string) (*RabbitFeedbackQueue, error) {
	if amqpURL == "" {
		return nil, errors.New("amqp url este gol")
	}
	if queue == "" {
		return nil, errors.New("numele cozii este gol")
	}
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("conectare amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("deschidere canal: %w", err)
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declarare coadă: %w", err)
	}
	return &RabbitFeedbackQueue{conn: conn, queue: queue}, nil
}

// Publish trimite un eveniment în coadă.
func (q *RabbitFeedbackQueue) Publish(ctx context.Context, event domain.FeedbackEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializare eveniment: %w", err)
	}
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("deschidere canal: %w", err)
	}
	defer ch.Close()
	err = ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publicare eveniment: %w", err)
	}
	return nil
}

// Consume citește evenimente și le predă handler-ului până la anularea contextului.
func (q *RabbitFeedbackQueue) Consume(ctx context.Context, handle func(domain.FeedbackEvent) error) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("deschidere canal: %w", err)
	}
	defer ch.Close()
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("setare qos: %w", err)
	}
	deliveries, err := ch.Consume(q.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("abonare coadă: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("canalul de livrare s-a închis")
			}
			var event domain.FeedbackEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				_ = delivery.Nack(false, false)
				continue
			}
			if err := handle(event); err != nil {
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Close închide conexiunea AMQP.
func (q *RabbitFeedbackQueue) Close() error {
	return q.conn.Close()
}
