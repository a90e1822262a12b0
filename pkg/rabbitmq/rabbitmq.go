package rabbitmq

import (
	"fmt"
	"time"

	"powermon/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialAttempts = 5

// NewConnection dials the broker, backing off exponentially between attempts.
func NewConnection(rmqCfg *config.RabbitMQConfig, log *zerolog.Logger) (*amqp091.Connection, error) {

	var conn *amqp091.Connection
	dial := func() error {
		var err error
		conn, err = amqp091.Dial(rmqCfg.BrokerLink)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 8 * time.Second
	b.MaxElapsedTime = 0

	attempt := 0
	notify := func(err error, wait time.Duration) {
		attempt++
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("rabbitmq connection attempt failed")
	}

	if err := backoff.RetryNotify(dial, backoff.WithMaxRetries(b, dialAttempts-1), notify); err != nil {
		log.Error().Err(err).Int("attempts", dialAttempts).Msg("failed to connect to rabbitmq")
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return conn, nil
}

// SetupTopology declares the exchange outage events go to and the queue
// check requests are consumed from.
func SetupTopology(conn *amqp091.Connection, rmqCfg *config.RabbitMQConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		rmqCfg.ExchangeName,
		rmqCfg.ExchangeType,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(
		rmqCfg.QueueName,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if err = ch.QueueBind(
		rmqCfg.QueueName,
		rmqCfg.RoutingKey,
		rmqCfg.ExchangeName,
		false, nil,
	); err != nil {
		return err
	}

	return nil
}
