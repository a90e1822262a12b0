package app

import (
	"context"
	"powermon/pkg/rabbitmq"
)

func StartConsumer(ctx context.Context, c *Container) {
	if c.Consumer == nil {
		return
	}

	eventHandler := rabbitmq.NewEventHandler(c.Orchestrator)

	// this run as seperate goroutine as consume method is ranging on the message delivery channel
	go func() {
		if err := c.Consumer.Consume(ctx, eventHandler); err != nil {
			c.Logger.Error().
				Err(err).
				Msg("rabbitmq consumer stopped")
		}
	}()
}
