package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"recordstore/internal/config"
	"recordstore/internal/http/controller"
	"recordstore/internal/http/middleware"
	"recordstore/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, m *metrics.Prometheus, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	// Routes match exactly; no redirects and no 405s.
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false

	router.Use(
		middleware.RequestID(),
		otelgin.Middleware(cfg.OTELServiceName),
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		middleware.Metrics(m),
	)

	router.GET("/data", handler.ListRecords)
	router.GET("/data/events", handler.Events)
	router.POST("/data", handler.CreateRecord)
	router.PUT("/data/:id", handler.ReplaceRecord)
	router.PATCH("/data/:id", handler.PatchRecord)
	router.DELETE("/data/:id", handler.DeleteRecord)
	router.NoRoute(handler.RouteNotFound)

	return router
}
