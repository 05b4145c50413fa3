package workers

import (
	"context"
	"log/slog"
	"time"

	application "domin/contexts/delegation/redemption-engine/application"
	"domin/contexts/delegation/redemption-engine/ports"
)

// OutboxRelay drains pending audit envelopes to the message bus. RunOnce is
// called in a loop by cmd/worker.
type OutboxRelay struct {
	Outbox    ports.Repository
	Publisher ports.AuditPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("redemption outbox list failed",
			"event", "redemption_outbox_list_failed",
			"module", "delegation/redemption-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		if err := r.Publisher.Publish(ctx, row.Topic, row.Payload); err != nil {
			logger.Error("redemption outbox publish failed",
				"event", "redemption_outbox_publish_failed",
				"module", "delegation/redemption-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}
