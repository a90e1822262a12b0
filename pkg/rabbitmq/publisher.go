package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	mu       sync.Mutex                   // one publish+confirm round trip at a time
	ch       *amqp091.Channel             // AMQP channel for publishing messages
	confirms <-chan amqp091.Confirmation // publisher confirms
	exchange string
}

func NewPublisher(conn *amqp091.Connection, exchange string) (*Publisher, error) {

	if conn == nil {
		return nil, errors.New("AMQP connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, err
	}

	confirms := ch.NotifyPublish(make(chan amqp091.Confirmation, 100))

	return &Publisher{
		ch:       ch,
		confirms: confirms,
		exchange: exchange,
	}, nil
}

// PublishEvent publishes the envelope with its type as routing key and waits for the broker confirm.
func (p *Publisher) PublishEvent(ctx context.Context, event EventPayload) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.publish(ctx, event.Type, body); err != nil {
		return err
	}

	select {
	case confirm := <-p.confirms:
		if !confirm.Ack {
			return errors.New("broker nacked published message")
		}
		return nil
	case <-time.After(5 * time.Second):
		return errors.New("publish confirms timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, body []byte) error {

	if p.ch == nil {
		return errors.New("AMQP channel is nil")
	}

	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}
