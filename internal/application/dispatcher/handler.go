package dispatcher

import (
	"context"

	"github.com/foundationpro/inspection-billing/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered handler
type HandlerInfo struct {
	Name      string
	EventType event.Type
}

type registration struct {
	name    string
	handler Handler
}
