package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"qrmenu-backend/internal/logger"
)

// StartKitchenConsumer connects to RabbitMQ and consumes the orders.placed
// queue, appending one printable ticket line per order to logs/kitchen.log.
// It runs a reconnect loop with exponential backoff and never returns under
// normal operation; failed messages are nacked without requeue so one bad
// payload cannot wedge the queue.
func StartKitchenConsumer(brokerURL string) {
	log := logger.L().Named("kitchen-consumer")

	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL)
		if err != nil {
			log.Warn("broker dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeTickets(conn, log); err != nil {
			log.Warn("consume loop ended", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeTickets(conn *amqp.Connection, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Warn("set qos failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(OrdersPlacedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(OrdersPlacedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := writeTicket(d.Body); err != nil {
			log.Warn("ticket write failed", zap.Error(err))
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// writeTicket appends a single-line kitchen ticket to logs/kitchen.log.
func writeTicket(body []byte) error {
	var ev OrderPlacedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	parts := make([]string, 0, len(ev.Items))
	for _, it := range ev.Items {
		line := fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		if it.Instructions != "" {
			line += " (" + it.Instructions + ")"
		}
		parts = append(parts, line)
	}
	ticket := fmt.Sprintf("[%s] table %d order %s (~%dmin): %s\n",
		ev.PlacedAt, ev.TableNumber, ev.Reference, ev.EstPrepMinutes, strings.Join(parts, ", "))

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "kitchen.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(ticket)
	return err
}
