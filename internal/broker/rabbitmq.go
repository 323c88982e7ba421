package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Lifecycle actions carried by Event.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const defaultPublishTimeout = 2 * time.Second

// Event describes a committed company mutation.
type Event struct {
	Action         string    `json:"action"`
	CompanyID      int64     `json:"companyId"`
	LegalName      *string   `json:"legalName"`
	DocumentNumber *string   `json:"documentNumber"`
	Status         int       `json:"status"`
	Principal      string    `json:"principal"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// EventPublisher delivers lifecycle events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Publisher publishes events to a durable RabbitMQ queue through the default exchange.
// amqp channels are not safe for concurrent publishing, so Publish is serialized.
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

var _ EventPublisher = (*Publisher)(nil)

// NewPublisher dials uri and declares queue (durable).
func NewPublisher(uri, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// Publish sends ev as a persistent JSON message. A context without deadline gets a short one.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	msg, err := buildPublishing(ev)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Action, err)
	}
	return nil
}

// Close closes the channel and then the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errCh, errConn error
	if p.ch != nil {
		errCh = p.ch.Close()
	}
	if p.conn != nil {
		errConn = p.conn.Close()
	}
	return errors.Join(errCh, errConn)
}

func buildPublishing(ev Event) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Body:         body,
		Headers: amqp.Table{
			"action":     ev.Action,
			"company_id": strconv.FormatInt(ev.CompanyID, 10),
		},
	}, nil
}
