package events

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Collaborne/task-scheduler/internal/logging"
	"github.com/Collaborne/task-scheduler/internal/models"
)

// Notifier turns committed deadline changes into published events. It
// satisfies timeline.Notifier.
type Notifier struct {
	ctx       context.Context
	publisher Publisher
	source    string
	logger    zerolog.Logger
}

// NewNotifier publishes through publisher using ctx for journal writes.
// source identifies the deadline list, usually its file path, and is
// attached to each event as metadata.
func NewNotifier(ctx context.Context, publisher Publisher, source string) *Notifier {
	return &Notifier{
		ctx:       ctx,
		publisher: publisher,
		source:    source,
		logger:    logging.Component("events"),
	}
}

// NotifyDeadlineChanged publishes a deadline.changed event. Gestures that
// end on the committed date are logged and dropped.
func (n *Notifier) NotifyDeadlineChanged(change models.DeadlineChange, previous models.Deadline) {
	if change.DateStr() == previous.Date {
		n.logger.Debug().Str("task_id", change.TaskID).Str("date", previous.Date).Msg("deadline unchanged")
		return
	}
	event, err := models.NewDeadlineChangedEvent(change, previous)
	if err != nil {
		n.logger.Error().Err(err).Str("task_id", change.TaskID).Msg("failed to build change event")
		return
	}
	n.publish(event)
}

// NotifyLoaded publishes a deadlines.loaded event for a list of count entries.
func (n *Notifier) NotifyLoaded(count int) {
	payload, err := json.Marshal(models.DeadlinesLoadedPayload{Source: n.source, Count: count})
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to build load event")
		return
	}
	n.publish(&models.Event{
		Type:       models.EventTypeDeadlinesLoaded,
		EntityType: models.EntityTypeTimeline,
		EntityID:   n.source,
		Payload:    payload,
	})
}

func (n *Notifier) publish(event *models.Event) {
	if n.source != "" {
		if event.Metadata == nil {
			event.Metadata = make(map[string]string)
		}
		event.Metadata["source"] = n.source
	}
	n.publisher.Publish(n.ctx, event)
}
