package app

import (
	"hris-leave/internal/config"
	"hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects the infrastructure and returns the HTTP router. The
// returned close function releases the connections.
func BuildApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	inf, err := connectInfra(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(inf.gormDB); err != nil {
			inf.Close()
			return nil, nil, err
		}
		logger.Info("database schema migrated")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return newRouter(cfg, inf, reg, logger), inf.Close, nil
}

func newRouter(cfg *config.Config, inf *infra, reg *prometheus.Registry, logger *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.ContextLogger(logger),
		middleware.NewHTTPMetrics(reg).Middleware(),
		middleware.RateLimitByIP(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateBurst),
	)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	registerModules(router, cfg, inf, reg, logger)
	return router
}
