package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts pet routes. Ownership is enforced by the service.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	pets := g.Group("/pets")
	pets.Use(authMiddleware)
	{
		pets.GET("", h.List)
		pets.GET("/:id", h.Get)
		pets.POST("", h.Create)
		pets.PATCH("/:id", h.Update)
		pets.DELETE("/:id", h.Delete)
	}
}
