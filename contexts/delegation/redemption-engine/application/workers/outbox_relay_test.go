package workers

import (
	"context"
	"testing"
	"time"

	"domin/contexts/delegation/redemption-engine/adapters/memory"
	"domin/contexts/delegation/redemption-engine/ports"
)

type capturingPublisher struct {
	topics []string
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, _ []byte) error {
	p.topics = append(p.topics, topic)
	return nil
}

func TestRunOncePublishesAndAcks(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := store.AppendAudit(context.Background(), nil, []ports.OutboxMessage{
		{OutboxID: "o-1", Topic: "redemption.audited", Payload: []byte(`{}`), CreatedAt: now},
		{OutboxID: "o-2", Topic: "redemption.audited", Payload: []byte(`{}`), CreatedAt: now},
	})
	if err != nil {
		t.Fatalf("seed outbox failed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	if len(publisher.topics) != 2 {
		t.Fatalf("expected 2 published envelopes, got %d", len(publisher.topics))
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d pending", len(pending))
	}
}
