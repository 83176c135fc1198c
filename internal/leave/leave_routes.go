package leave

import (
	"hris-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts /leaves. With rdb set, POST endpoints honour the
// Idempotency-Key header.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string, rdb ...redis.Cmdable) {
	idempotent := []gin.HandlerFunc{}
	if len(rdb) > 0 && rdb[0] != nil {
		idempotent = append(idempotent, middleware.Idempotency(rdb[0]))
	}
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret))
	{
		leaves.GET("", handler.List)
		leaves.GET("/calendar", handler.Calendar)
		leaves.GET("/:id", handler.GetByID)
		leaves.POST("", append(idempotent, handler.Create)...)
		leaves.DELETE("/:id", handler.Cancel)
		leaves.POST("/:id/respond", append(append([]gin.HandlerFunc{adminOnly}, idempotent...), handler.Respond)...)
		leaves.GET("/:id/overlaps", adminOnly, handler.CheckOverlaps)
	}
}
