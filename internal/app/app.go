package app

import (
	"go-hrdash/internal/config"
	"go-hrdash/internal/leave"
	"go-hrdash/internal/middleware"
	"go-hrdash/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores and mounts every module on router.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	logger := zap.L()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		return err
	}

	policy, err := loadPolicy(cfg)
	if err != nil {
		return err
	}

	router.Use(middleware.ContextLogger(logger))

	return registerModules(router, cfg, sqlDB, gormDB, redisClient, policy, logger)
}

func loadPolicy(cfg *config.Config) (leave.Policy, error) {
	if cfg.LeavePolicyFile == "" {
		return leave.DefaultPolicy(), nil
	}
	policy, err := leave.LoadPolicyFile(cfg.LeavePolicyFile)
	if err != nil {
		return leave.Policy{}, err
	}
	zap.L().Info("leave policy loaded", zap.String("file", cfg.LeavePolicyFile))
	return policy, nil
}
