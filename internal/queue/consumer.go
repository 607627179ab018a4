package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartKitchenConsumer connects to RabbitMQ, declares the durable
// kitchen.orders queue and starts consuming. Each message is appended
// to logs/kitchen.log in a single-line, human-friendly format for the
// kitchen display. The function runs a reconnect loop and never
// returns; processing errors are logged and the offending message is
// rejected without requeue so the server keeps operating.
func StartKitchenConsumer(url string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("kitchen-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("kitchen-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("kitchen-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(kitchenQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(kitchenQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("kitchen-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev OrderCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "kitchen.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	scope := ev.TableID
	if scope == "" {
		scope = "take-away:" + ev.InvoiceName
	}

	items := ""
	for i, it := range ev.Items {
		if i > 0 {
			items += ", "
		}
		items += fmt.Sprintf("%dx %s", it.Quantity, it.VariantID)
		if it.Note != "" {
			items += fmt.Sprintf(" (%s)", it.Note)
		}
	}

	line := fmt.Sprintf("[%s] New order | number=%s | scope=%s | total=%d VND | items=[%s]",
		ev.CreatedAt, ev.OrderNumber, scope, ev.TotalAmount, items)
	if ev.Notes != "" {
		line += fmt.Sprintf(" | notes=%q", ev.Notes)
	}
	line += "\n"

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
