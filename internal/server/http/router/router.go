package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/decoteen/orderdesk/internal/server/http/handlers"
	"github.com/decoteen/orderdesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DeskFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	scheduleHandler := handlers.NewScheduleHandler(facade)
	callbackHandler := handlers.NewCallbackHandler(facade)

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(facade))
	protected.POST("/orders", orderHandler.Create)
	protected.GET("/orders", orderHandler.List)
	protected.GET("/orders/stats", orderHandler.Stats)
	protected.GET("/orders/:id", orderHandler.Get)
	protected.POST("/orders/:id/status", orderHandler.UpdateStatus)
	protected.POST("/schedules/60day", scheduleHandler.Create60Day)
	protected.POST("/schedules/90day", scheduleHandler.Create90Day)
	protected.GET("/schedules", scheduleHandler.List)
	protected.POST("/schedules/:id/payments", scheduleHandler.MarkPayment)
	protected.POST("/schedules/:id/cancel", scheduleHandler.Cancel)
	protected.POST("/reminders/run", scheduleHandler.RunReminders)
	protected.POST("/callbacks", callbackHandler.Handle)

	return engine
}
