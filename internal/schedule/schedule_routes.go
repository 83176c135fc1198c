package schedule

import (
	"hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware(jwtSecret))
	{
		schedules.GET("/me", handler.GetMine)
	}
}
