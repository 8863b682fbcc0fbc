package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/environments"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/handlers"
	"github.com/NilsonFarias/ZapStatus-para-Woocommerce-sub000/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	queueHandler *handlers.QueueHandler,
	instanceHandler *handlers.InstanceHandler,
	schedulerHandler *handlers.SchedulerHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Inbound order events are authenticated by the per-instance token in the URL.
	e.POST("/webhook/wc/:token", webhookHandler.HandleOrderEvent)

	// Admin surface behind the API key.
	v1 := e.Group("/api/v1", middlewares.APIKeyAuth(cfg.Auth.AdminAPIKey))

	queue := v1.Group("/queue")
	queue.GET("", queueHandler.GetQueue)
	queue.GET("/stats", queueHandler.GetStats)
	queue.POST("/:id/resend", queueHandler.ResendItem)
	queue.POST("/:id/send", queueHandler.SendItemNow)
	queue.DELETE("/:id", queueHandler.DeleteItem)

	v1.GET("/instances/:id/status", instanceHandler.GetStatus)

	schedulerGroup := v1.Group("/scheduler")
	schedulerGroup.POST("/start", schedulerHandler.StartScheduler)
	schedulerGroup.POST("/stop", schedulerHandler.StopScheduler)
	schedulerGroup.GET("/status", schedulerHandler.GetSchedulerStatus)
}
