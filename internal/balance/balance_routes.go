package balance

import (
	"hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		balances.GET("/me", handler.GetMine)
		balances.GET("/:employee_id", middleware.RequireRole(middleware.RoleAdmin), handler.GetByEmployee)
		balances.PUT("/:employee_id", middleware.RequireRole(middleware.RoleAdmin), handler.Set)
	}
}
