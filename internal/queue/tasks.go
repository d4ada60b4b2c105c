package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conveyorhq/conveyor/internal/logging"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeEventRelay = "event:relay"

var validate = validator.New()

// EventRelayPayload is the wire payload for event relay tasks.
type EventRelayPayload struct {
	EventID string         `json:"event_id" validate:"required,uuid4"`
	Topic   string         `json:"topic" validate:"required"`
	Data    map[string]any `json:"data"`
}

// NewEventRelayTask builds an event relay task, validating the payload
// before it is enqueued so malformed events never reach the queue.
func NewEventRelayTask(payload EventRelayPayload) (*asynq.Task, error) {
	if err := validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", TypeEventRelay, err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", TypeEventRelay, err)
	}
	return asynq.NewTask(TypeEventRelay, data), nil
}

// EventRelayHandler processes event relay tasks.
type EventRelayHandler struct {
	logger *logging.Logger
}

func NewEventRelayHandler(logger *logging.Logger) *EventRelayHandler {
	return &EventRelayHandler{logger: logger}
}

func (h *EventRelayHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload EventRelayPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", TypeEventRelay, err)
	}
	if err := validate.Struct(&payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", TypeEventRelay, err)
	}

	h.logger.Ctx(ctx).Info("relaying event",
		zap.String("event_id", payload.EventID),
		zap.String("topic", payload.Topic),
	)
	return nil
}
