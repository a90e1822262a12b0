package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

type CheckRequester interface {
	RequestCheck(ctx context.Context, checkpointID uuid.UUID) error
}

type CheckRequest struct {
	CheckpointID uuid.UUID `json:"checkpoint_id"`
}

type EventHandler struct {
	checker CheckRequester
}

func NewEventHandler(checker CheckRequester) *EventHandler {
	return &EventHandler{
		checker: checker,
	}
}

func (h *EventHandler) Handle(ctx context.Context, msg amqp091.Delivery) error {
	var event EventPayload
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return err
	}

	if event.Type != EventCheckRequested {
		return nil // ignore unknown events
	}

	var payload CheckRequest
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}
	if payload.CheckpointID == uuid.Nil {
		return fmt.Errorf("event %s: missing checkpoint_id", event.ID)
	}

	return h.checker.RequestCheck(ctx, payload.CheckpointID)
}
