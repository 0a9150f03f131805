package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-hrdash/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// CacheInvalidator drops cached read models for a company.
type CacheInvalidator interface {
	InvalidateCompany(ctx context.Context, companyID string) error
}

const invalidateAttempts = 3

var invalidateBackoff = 500 * time.Millisecond

// ConsumeCacheInvalidation drops the dashboard cache of the company named in
// each leave_decided, employee lifecycle or applicant_changed event.
// Undecodable messages are committed and skipped. A failed invalidation is
// retried with backoff; once the attempts run out the message is committed
// anyway, since a later commit in the group would skip it regardless, and the
// stale summary lives at most until its cache TTL expires.
func ConsumeCacheInvalidation(
	ctx context.Context,
	reader MessageReader,
	invalidator CacheInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.cache_invalidation")
	log.Info("cache invalidation consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("cache invalidation consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		handleMessage(ctx, reader, invalidator, msg, log)
	}
}

func handleMessage(
	ctx context.Context,
	reader MessageReader,
	invalidator CacheInvalidator,
	msg kafkago.Message,
	log *zap.Logger,
) {
	var env events.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil || env.CompanyID == "" {
		log.Error("decode event failed",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	switch env.EventType {
	case events.LeaveDecidedEventType,
		events.EmployeeCreatedEventType,
		events.EmployeeUpdatedEventType,
		events.EmployeeDeletedEventType,
		events.ApplicantChangedEventType:
	default:
		log.Debug("ignoring event", zap.String("event_type", env.EventType))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := invalidateWithRetry(ctx, invalidator, env.CompanyID); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error("invalidate company cache failed, summary stays stale until its TTL",
			zap.String("company_id", env.CompanyID),
			zap.String("request_id", env.RequestID),
			zap.Int("attempts", invalidateAttempts),
			zap.Error(err),
		)
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit message failed", zap.Error(err))
		return
	}

	log.Info("company cache invalidated",
		zap.String("event_type", env.EventType),
		zap.String("company_id", env.CompanyID),
		zap.String("request_id", env.RequestID),
	)
}

func invalidateWithRetry(ctx context.Context, invalidator CacheInvalidator, companyID string) error {
	var err error
	for attempt := 1; attempt <= invalidateAttempts; attempt++ {
		if err = invalidator.InvalidateCompany(ctx, companyID); err == nil {
			return nil
		}
		if attempt == invalidateAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(invalidateBackoff * time.Duration(attempt)):
		}
	}
	return err
}
