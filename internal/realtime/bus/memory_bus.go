package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/roadmap-backend/internal/realtime"
)

// memoryBus delivers events to in-process forwarders only. It backs single
// instance deployments that run without redis.
type memoryBus struct {
	mu     sync.RWMutex
	next   int
	subs   map[int]func(realtime.ChangeEvent)
	closed bool
}

func NewMemoryBus() Bus {
	return &memoryBus{subs: map[int]func(realtime.ChangeEvent){}}
}

func (b *memoryBus) Publish(_ context.Context, evt realtime.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus closed")
	}
	for _, fn := range b.subs {
		fn(evt)
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvt func(evt realtime.ChangeEvent)) error {
	if onEvt == nil {
		return fmt.Errorf("onEvt callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("event bus closed")
	}
	id := b.next
	b.next++
	b.subs[id] = onEvt
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = map[int]func(realtime.ChangeEvent){}
	return nil
}
