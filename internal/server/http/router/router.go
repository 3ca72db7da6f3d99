package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/coffeeshop/internal/metrics"
	"github.com/polkiloo/coffeeshop/internal/server/http/handlers"
	"github.com/polkiloo/coffeeshop/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CoffeeFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade, logger)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.GET("/menu", orderHandler.Menu)
	api.POST("/order", orderHandler.Create)
	api.GET("/order/:id", orderHandler.Get)
	api.GET("/order/:id/refund", orderHandler.Refund)
	api.POST("/cancel_order", orderHandler.Cancel)

	admin := api.Group("/admin")
	admin.POST("/login", adminHandler.Login)
	admin.POST("/logout", adminHandler.Logout)

	staff := api.Group("")
	staff.Use(middleware.AdminRequired(facade))
	staff.GET("/orders", adminHandler.List)
	staff.PATCH("/order/:id/status", adminHandler.UpdateStatus)

	return engine
}
