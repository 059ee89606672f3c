package eventbus

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain"
)

// HandlerFunc processes one event delivered by a Bus.
type HandlerFunc func(ctx context.Context, event domain.Event) error

// Bus defines the contract for publishing and consuming domain events.
type Bus interface {
	Emit(ctx context.Context, event domain.Event) error
	Register(eventType string, handler HandlerFunc)
}
