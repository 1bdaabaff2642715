package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HealthFunc func(ctx context.Context) error

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, health HealthFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/brands", handler.listBrands)

		protected.GET("/tickets", handler.listTickets)
		protected.GET("/tickets/:id", handler.getTicket)
		protected.GET("/tickets/:id/receipt", handler.getReceipt)
		protected.POST("/tickets", handler.createTicket)
		protected.PUT("/tickets/:id", handler.editTicket)
		protected.GET("/tickets/:id/delete", handler.confirmDeleteTicket)
		protected.DELETE("/tickets/:id", handler.deleteTicket)

		protected.GET("/clients", handler.listClients)
		protected.GET("/clients/:document", handler.getClient)
	}

	return router
}
