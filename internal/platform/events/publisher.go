package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"paydesk/internal/domain/audit"
)

const (
	defaultConfirmTimeout = 10 * time.Second
	confirmBuffer         = 16
)

type channel interface {
	GetNextPublishSeqNo() uint64
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Publisher sends audit events to a RabbitMQ topic exchange, one routing key
// per action, and waits for the broker to confirm each message.
type Publisher struct {
	mu             sync.Mutex
	conn           *amqp091.Connection
	ch             channel
	confirms       <-chan amqp091.Confirmation
	exchange       string
	confirmTimeout time.Duration
}

func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp091.Confirmation, confirmBuffer))
	return &Publisher{
		conn:           conn,
		ch:             ch,
		confirms:       confirms,
		exchange:       exchange,
		confirmTimeout: defaultConfirmTimeout,
	}, nil
}

func (p *Publisher) Record(ctx context.Context, evt audit.Event) error {
	msg, err := publishing(evt)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	tag := p.ch.GetNextPublishSeqNo()
	if err := p.ch.PublishWithContext(ctx, p.exchange, evt.Action, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Action, err)
	}

	timeout := time.NewTimer(p.confirmTimeout)
	defer timeout.Stop()
	for {
		select {
		case confirm, ok := <-p.confirms:
			if !ok {
				return errors.New("rabbitmq channel closed")
			}
			// Confirms for earlier messages that timed out arrive late; skip them.
			if confirm.DeliveryTag < tag {
				continue
			}
			if !confirm.Ack {
				return fmt.Errorf("broker rejected %s", evt.Action)
			}
			return nil
		case <-ctx.Done():
			return fmt.Errorf("waiting for confirmation: %w", ctx.Err())
		case <-timeout.C:
			return fmt.Errorf("timeout waiting for confirmation of %s", evt.Action)
		}
	}
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func publishing(evt audit.Event) (amqp091.Publishing, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		Timestamp:     evt.OccurredAt,
		Type:          evt.Action,
		CorrelationId: evt.RequestID,
		Body:          body,
	}, nil
}
