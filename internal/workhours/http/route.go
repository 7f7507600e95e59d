package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	wh := g.Group("/working-hours")
	wh.Use(authMiddleware)
	{
		wh.GET("", h.List)
		wh.GET("/:id", h.Get)
		wh.POST("", staffMiddleware, h.Create)
		wh.PATCH("/:id", staffMiddleware, h.Update)
		wh.DELETE("/:id", staffMiddleware, h.Delete)
	}
}
