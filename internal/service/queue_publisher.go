// Package service contains outbound integrations sitting behind the HTTP
// handlers. Event publishing is fire-and-forget: failures are logged and
// returned, and callers ignore them so a broker outage never fails a
// request.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"docnest/internal/queue"
)

// EventPublisher publishes domain events to RabbitMQ. A publisher built
// with an empty URL is disabled and drops events silently.
type EventPublisher struct {
	url string
}

// NewEventPublisher creates a publisher for the given broker URL. An empty
// URL yields a disabled publisher, which keeps call sites unconditional.
func NewEventPublisher(url string) *EventPublisher {
	return &EventPublisher{url: url}
}

// DocumentPublished sends a DocumentPublishedEvent to the durable
// document.published queue. Messages are marked persistent.
func (p *EventPublisher) DocumentPublished(ctx context.Context, ev queue.DocumentPublishedEvent) error {
	if p == nil || p.url == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publisher and consumer can start in any order.
	if _, err := ch.QueueDeclare(queue.PublishQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.PublishQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
