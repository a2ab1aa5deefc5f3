package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RoutingAttemptSubmitted = "attempt.submitted"

// AttemptSubmitted is published after an attempt has been committed.
type AttemptSubmitted struct {
	AttemptID         int64     `json:"attemptId"`
	UserID            int64     `json:"userId"`
	SubjectCode       string    `json:"subjectCode"`
	TopicNumber       *int      `json:"topicNumber"`
	Score             int       `json:"score"`
	Correct           int       `json:"correct"`
	Total             int       `json:"total"`
	FailedQuestionIDs []int64   `json:"failedQuestionIds"`
	AnsweredAt        time.Time `json:"answeredAt"`
}

type Publisher interface {
	PublishAttemptSubmitted(ctx context.Context, e AttemptSubmitted) error
	Close() error
}

// AMQPPublisher publishes JSON events to a topic exchange.
// With an empty URI it is disabled and every publish is a no-op.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool

	mu sync.Mutex
}

func NewAMQPPublisher(uri, exchange string) (*AMQPPublisher, error) {
	if uri == "" {
		return &AMQPPublisher{enabled: false}, nil
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		enabled:  true,
	}, nil
}

// Enabled reports whether events actually leave the process.
func (p *AMQPPublisher) Enabled() bool {
	return p.enabled
}

func (p *AMQPPublisher) PublishAttemptSubmitted(ctx context.Context, e AttemptSubmitted) error {
	return p.publish(ctx, RoutingAttemptSubmitted, e)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, event any) error {
	if !p.enabled {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(pubCtx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
