//go:build kafka

// Command kafka_smoketest round-trips an account event through the Kafka
// event bus against a local cluster.
//
// Usage: go run -tags kafka ./scripts/kafka_smoketest
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/google/uuid"
)

// RunSmokeTest publishes a TransferCompletedEvent and waits until the bus
// delivers it back to a registered handler.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	prefix := strings.TrimSpace(os.Getenv("TOPIC_PREFIX"))
	if prefix == "" {
		prefix = "ledger.smoke"
	}

	bus, err := infra_eventbus.NewWithKafka(&config.Kafka{
		Brokers:     strings.Split(brokers, ","),
		TopicPrefix: prefix,
	}, account.EventTypes, logger)
	if err != nil {
		logger.Error("bus init failed", "error", err)
		return err
	}
	defer func() { _ = bus.Close() }()

	sent := account.TransferCompletedEvent{
		EventID:       uuid.New(),
		TransactionID: 1,
		Source:        "40817810000000000001",
		Target:        "40817810000000000002",
		Amount:        money.MustParse("543.21"),
		Timestamp:     time.Now().UTC(),
	}

	received := make(chan *account.TransferCompletedEvent, 1)
	bus.Register(account.EventTypeTransferCompleted, func(_ context.Context, e domain.Event) error {
		if evt, ok := e.(*account.TransferCompletedEvent); ok && evt.EventID == sent.EventID {
			select {
			case received <- evt:
			default:
			}
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "event_id", sent.EventID, "type", sent.Type())

	select {
	case evt := <-received:
		if !evt.Amount.Equal(sent.Amount) {
			return errors.New("amount changed in transit: " + evt.Amount.String())
		}
		logger.Info("consumed", "event_id", evt.EventID, "amount", evt.Amount)
		return nil
	case <-ctx.Done():
		logger.Error("no delivery before deadline", "error", ctx.Err())
		return ctx.Err()
	}
}

func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
