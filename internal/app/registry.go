package app

import (
	"database/sql"
	"time"

	"go-hrdash/internal/auth"
	"go-hrdash/internal/config"
	"go-hrdash/internal/dashboard"
	"go-hrdash/internal/employee"
	"go-hrdash/internal/leave"
	"go-hrdash/internal/messaging/kafka"
	"go-hrdash/internal/middleware"
	"go-hrdash/internal/rbac"
	"go-hrdash/internal/rbac/infra"
	"go-hrdash/internal/recruitment"
	"go-hrdash/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idempotencyTTL = 24 * time.Hour

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	policy leave.Policy,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	recruitmentRepo := recruitment.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(rbacRepo, enforcer, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo, auth.NewTokenIssuer(cfg.JWTSecret), logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo, policy, logger)
	recruitmentService := recruitment.NewServiceWithOutbox(db, recruitmentRepo, counterRepo, outboxRepo, logger)
	dashboardService := dashboard.NewService(dashboardRepo, leaveRepo, recruitmentRepo, policy, rdb, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	recruitmentHandler := recruitment.NewHandler(recruitmentService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	authMW := middleware.AuthMiddleware(cfg.JWTSecret)
	idempotency := middleware.Idempotency(rdb, idempotencyTTL)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW, rbacService)
		employee.RegisterRoutes(api, employeeHandler, authMW, rbacService, idempotency)
		leave.RegisterRoutes(api, leaveHandler, authMW, rbacService, idempotency)
		recruitment.RegisterRoutes(api, recruitmentHandler, authMW, rbacService, idempotency)
		dashboard.RegisterRoutes(api, dashboardHandler, authMW, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, authMW, rbacService)
	}

	return nil
}
