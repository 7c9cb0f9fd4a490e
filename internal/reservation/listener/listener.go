package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/reservation"
	"github.com/gasfresco/reservation-service/pkg/logger"
)

// MessageReader is the consumer surface the listener needs. Satisfied by
// broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// AccountListener releases all reservations of a user when the account
// service announces the account's removal. This is the only administrative
// deletion channel; ad-hoc admin deletes are not exposed.
type AccountListener struct {
	consumer MessageReader
	uc       reservation.UseCase
	logger   logger.ZapLogger
}

func NewAccountListener(consumer MessageReader, uc reservation.UseCase, log logger.ZapLogger) *AccountListener {
	return &AccountListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *AccountListener) Start(ctx context.Context) {
	l.logger.Info("Starting account events listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping account events listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type UserDeletedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Payload   UserPayload `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

type UserPayload struct {
	UserID string `json:"user_id"`
}

func (l *AccountListener) processMessage(ctx context.Context, value []byte) {
	var event UserDeletedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "UserDeleted" {
		return
	}

	l.logger.Info("Processing UserDeleted event", zap.String("user_id", event.Payload.UserID))

	released, err := l.uc.ReleaseAllForUser(ctx, event.Payload.UserID)
	if err != nil {
		l.logger.Error("Failed to release reservations for deleted user",
			zap.String("user_id", event.Payload.UserID),
			zap.Int("released", released),
			zap.Error(err),
		)
		return
	}

	if released > 0 {
		l.logger.Info("Released reservations for deleted user",
			zap.String("user_id", event.Payload.UserID),
			zap.Int("released", released),
		)
	}
}
