package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const kitchenQueueName = "kitchen.orders"

// Publisher sends domain events to RabbitMQ. Publishing is best effort:
// every error is logged and returned so the caller can ignore it
// without interrupting the main request flow. Messages are persistent
// so they survive broker restarts.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher targeting the given broker URL.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// PublishOrderCreated publishes an OrderCreatedEvent to the
// kitchen.orders queue. A fresh connection is dialed per publish; order
// volume is low enough that connection pooling is not worth the
// complexity here.
func (p *Publisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
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

	// Idempotent declare so the publisher works even if it starts
	// before the consumer.
	if _, err := ch.QueueDeclare(
		kitchenQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		kitchenQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
