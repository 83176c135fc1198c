package app

import (
	"net/http"

	"hris-leave/internal/balance"
	"hris-leave/internal/config"
	"hris-leave/internal/department"
	"hris-leave/internal/employee"
	"hris-leave/internal/leave"
	"hris-leave/internal/leavepolicy"
	"hris-leave/internal/messaging/kafka"
	"hris-leave/internal/notification"
	"hris-leave/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	inf *infra,
	reg prometheus.Registerer,
	logger *zap.Logger,
) {
	policy := leavepolicy.DefaultPolicy()

	// --- Repositories ---
	balanceRepo := balance.NewRepository(inf.gormDB)
	departmentRepo := department.NewRepository(inf.gormDB)
	employeeRepo := employee.NewRepository(inf.gormDB)
	leaveRepo := leave.NewRepository(inf.gormDB)
	notificationRepo := notification.NewRepository(inf.gormDB)
	outboxRepo := kafka.NewOutboxRepository(inf.sqlDB)
	scheduleRepo := schedule.NewRepository(inf.gormDB)

	// --- Services ---
	balanceService := balance.NewService(inf.sqlDB, balanceRepo, policy, logger)
	leaveService := leave.NewService(leave.Dependencies{
		DB:        inf.sqlDB,
		Repo:      leaveRepo,
		Ledger:    balance.NewLedger(balanceRepo, policy),
		Directory: employee.NewDirectory(employeeRepo, departmentRepo),
		Schedule:  schedule.NewSynchronizer(scheduleRepo, logger),
		Notifier:  notification.NewOutboxDispatcher(outboxRepo, cfg.Kafka.NotificationTopic, logger),
		Cache:     leave.NewRedisMonthCache(inf.rdb, cfg.Leave.CalendarCacheTTL),
		Metrics:   leave.NewMetrics(reg),
		Logger:    logger,
	})
	notificationService := notification.NewService(notificationRepo, logger)
	scheduleService := schedule.NewService(scheduleRepo, logger)

	// --- Handlers ---
	balanceHandler := balance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	scheduleHandler := schedule.NewHandler(scheduleService, logger)

	// --- Routes Registration ---
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		balance.RegisterRoutes(api, balanceHandler, cfg.JWT.Secret)
		leave.RegisterRoutes(api, leaveHandler, cfg.JWT.Secret, inf.rdb)
		notification.RegisterRoutes(api, notificationHandler, cfg.JWT.Secret)
		schedule.RegisterRoutes(api, scheduleHandler, cfg.JWT.Secret)
	}
}
