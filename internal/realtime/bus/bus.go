package bus

import (
	"context"

	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, evt realtime.ChangeEvent) error
	StartForwarder(ctx context.Context, onEvt func(evt realtime.ChangeEvent)) error
	Close() error
}
