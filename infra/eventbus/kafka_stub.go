//go:build !kafka

package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

type KafkaEventBus struct{}

func NewWithKafka(cfg *config.Kafka, types TypeFactories, logger *slog.Logger) (*KafkaEventBus, error) {
	return nil, fmt.Errorf("kafka event bus: build with -tags kafka to enable")
}

func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
}

func (b *KafkaEventBus) Emit(ctx context.Context, event domain.Event) error {
	return fmt.Errorf("kafka event bus: build with -tags kafka to enable")
}

func (b *KafkaEventBus) Close() error {
	return nil
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
