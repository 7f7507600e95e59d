package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the service catalog. Reads need a login, writes need staff.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	services := g.Group("/services")
	services.Use(authMiddleware)
	{
		services.GET("", h.List)
		services.GET("/:id", h.Get)
		services.POST("", staffMiddleware, h.Create)
		services.PATCH("/:id", staffMiddleware, h.Update)
		services.DELETE("/:id", staffMiddleware, h.Delete)
	}
}
