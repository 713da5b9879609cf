package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"exam-portal/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ResultGradedEvent is the routing key used for graded results.
const ResultGradedEvent = "result.graded"

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Publisher emits result events on a topic exchange. It is an app.ResultListener.
type Publisher struct {
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
}

// Dial connects to the broker and declares a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func newPublisher(ch publishChannel, exchange string) *Publisher {
	return &Publisher{channel: ch, exchange: exchange}
}

func (p *Publisher) ResultGraded(ctx context.Context, result domain.Result) error {
	body, err := json.Marshal(envelope{Type: ResultGradedEvent, Payload: result})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, ResultGradedEvent, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    result.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", ResultGradedEvent, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
