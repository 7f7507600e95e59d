package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	a := g.Group("/assistant")
	a.Use(authMiddleware)
	{
		a.GET("/availability", h.Availability)
		a.GET("/price", h.Price)
		a.POST("/scheduling", h.Scheduling)
	}
}
