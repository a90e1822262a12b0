package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	got []uuid.UUID
}

func (f *fakeChecker) RequestCheck(_ context.Context, id uuid.UUID) error {
	f.got = append(f.got, id)
	return nil
}

func delivery(t *testing.T, eventType string, payload any) amqp091.Delivery {
	t.Helper()
	event, err := NewEvent(eventType, time.Now(), payload)
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return amqp091.Delivery{Body: body}
}

func TestEventHandler_DispatchesCheckRequest(t *testing.T) {
	checker := &fakeChecker{}
	h := NewEventHandler(checker)
	id := uuid.New()

	err := h.Handle(context.Background(), delivery(t, EventCheckRequested, CheckRequest{CheckpointID: id}))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, checker.got)
}

func TestEventHandler_IgnoresOtherEvents(t *testing.T) {
	checker := &fakeChecker{}
	h := NewEventHandler(checker)

	err := h.Handle(context.Background(), delivery(t, EventOutageOpened, map[string]string{"x": "y"}))
	require.NoError(t, err)
	assert.Empty(t, checker.got)
}

func TestEventHandler_RejectsMalformed(t *testing.T) {
	h := NewEventHandler(&fakeChecker{})

	assert.Error(t, h.Handle(context.Background(), amqp091.Delivery{Body: []byte("{")}))
	assert.Error(t, h.Handle(context.Background(), delivery(t, EventCheckRequested, CheckRequest{})))
}
