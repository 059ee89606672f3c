// Package handler holds event bus consumers for account events.
package handler

import (
	"context"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

// EventKey returns the event ID of an account event, or "" for other events.
func EventKey(e domain.Event) string {
	switch evt := unwrap(e).(type) {
	case account.CreatedEvent:
		return evt.EventID.String()
	case account.DepositedEvent:
		return evt.EventID.String()
	case account.WithdrawnEvent:
		return evt.EventID.String()
	case account.TransferCompletedEvent:
		return evt.EventID.String()
	}
	return ""
}

// unwrap dereferences the pointer events produced by the envelope decoder.
func unwrap(e domain.Event) domain.Event {
	switch evt := e.(type) {
	case *account.CreatedEvent:
		return *evt
	case *account.DepositedEvent:
		return *evt
	case *account.WithdrawnEvent:
		return *evt
	case *account.TransferCompletedEvent:
		return *evt
	}
	return e
}

// HandleAudit writes one structured audit record per account event.
func HandleAudit(logger *slog.Logger) eventbus.HandlerFunc {
	logger = logger.With("handler", "audit")
	return func(ctx context.Context, e domain.Event) error {
		switch evt := unwrap(e).(type) {
		case account.CreatedEvent:
			logger.InfoContext(ctx, "account created",
				"account", evt.Number, "event_id", evt.EventID)
		case account.DepositedEvent:
			logger.InfoContext(ctx, "account credited",
				"account", evt.Number, "amount", evt.Amount, "balance", evt.Balance, "event_id", evt.EventID)
		case account.WithdrawnEvent:
			logger.InfoContext(ctx, "account debited",
				"account", evt.Number, "amount", evt.Amount, "balance", evt.Balance, "event_id", evt.EventID)
		case account.TransferCompletedEvent:
			logger.InfoContext(ctx, "transfer recorded",
				"transaction", evt.TransactionID, "source", evt.Source, "target", evt.Target,
				"amount", evt.Amount, "event_id", evt.EventID)
		default:
			logger.WarnContext(ctx, "unexpected event", "event_type", e.Type())
		}
		return nil
	}
}

// RegisterAudit subscribes the audit handler to every account event type.
// Redeliveries are skipped by event ID.
func RegisterAudit(bus eventbus.Bus, logger *slog.Logger, opts ...TrackerOption) {
	tracker := NewIdempotencyTracker(opts...)
	audit := WithIdempotency(HandleAudit(logger), tracker, EventKey, "audit", logger)
	for eventType := range account.EventTypes {
		bus.Register(eventType, audit)
	}
}
