package broker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"p2p-lending/internal/domain/event"

	"github.com/rabbitmq/amqp091-go"
)

var (
	_ event.Publisher = (*EventProducer)(nil)
	_ event.Publisher = (*LogPublisher)(nil)
)

// EventProducer publishes ledger events as JSON to a durable topic exchange.
type EventProducer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	log      *slog.Logger
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

func NewEventProducer(amqpURL, exchange string, log *slog.Logger) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &EventProducer{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

func (p *EventProducer) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}
	p.log.Warn("publish failed; reopening channel", "routing_key", routingKey, "err", err)
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return chErr
	}
	p.channel = ch
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// LogPublisher stands in when no broker is configured or reachable; events
// are written to the log and dropped.
type LogPublisher struct{ Log *slog.Logger }

func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.Log.InfoContext(ctx, "event publish skipped", "mode", "fallback", "routing_key", routingKey, "payload", payload)
	return nil
}

// Connect returns an EventProducer when amqpURL is usable and a LogPublisher
// otherwise. The close func is always safe to call.
func Connect(amqpURL, exchange string, log *slog.Logger) (event.Publisher, func()) {
	if strings.TrimSpace(amqpURL) == "" {
		return &LogPublisher{Log: log}, func() {}
	}
	p, err := NewEventProducer(amqpURL, exchange, log)
	if err != nil {
		log.Warn("rabbitmq unavailable; using log publisher", "err", err)
		return &LogPublisher{Log: log}, func() {}
	}
	return p, p.Close
}
