package bus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/roadmap-backend/internal/realtime"
)

func TestMemoryBusForwardsToSubscribers(t *testing.T) {
	b := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []realtime.ChangeEvent
	if err := b.StartForwarder(ctx, func(evt realtime.ChangeEvent) { got = append(got, evt) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	evt := realtime.ChangeEvent{Type: realtime.EventRoadmapPublished, RoadmapID: uuid.New(), At: time.Now().UTC()}
	if err := b.Publish(ctx, evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 || got[0].RoadmapID != evt.RoadmapID || got[0].Type != evt.Type {
		t.Fatalf("forwarded: want=%+v got=%+v", evt, got)
	}
}

func TestMemoryBusRejectsAfterClose(t *testing.T) {
	b := NewMemoryBus()
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Publish(context.Background(), realtime.ChangeEvent{}); err == nil {
		t.Fatalf("publish after close: want error got nil")
	}
	if err := b.StartForwarder(context.Background(), func(realtime.ChangeEvent) {}); err == nil {
		t.Fatalf("forwarder after close: want error got nil")
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(nil, RedisOptions{}); err == nil {
		t.Fatalf("nil logger: want error got nil")
	}
}
