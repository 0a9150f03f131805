package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrdash/internal/config"
	"go-hrdash/internal/dashboard"
	"go-hrdash/internal/events"
	"go-hrdash/internal/leave"
	"go-hrdash/internal/messaging/kafka/consumer"
	"go-hrdash/internal/recruitment"
	"go-hrdash/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const cacheInvalidationGroup = "go-hrdash-dashboard-cache"

// RunConsumer listens on every topic that changes dashboard figures and
// drops the affected company's cached summaries.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, cfg.ConnectRetries)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	policy, err := loadPolicy(cfg)
	if err != nil {
		return err
	}

	dashboardService := dashboard.NewService(
		dashboard.NewRepository(gormDB),
		leave.NewRepository(gormDB),
		recruitment.NewRepository(gormDB),
		policy,
		redisClient,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		GroupTopics: []string{
			events.LeaveDecidedTopic,
			events.EmployeeLifecycleTopic,
			events.RecruitmentTopic,
		},
		GroupID:        cacheInvalidationGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeCacheInvalidation(ctx, reader, dashboardService, logger)

	logger.Info("consumer shutting down")
	return nil
}
