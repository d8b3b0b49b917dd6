package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	incidents := api.Group("/incidents")
	{
		incidents.POST("/report", h.reportIncident)
		incidents.GET("/nearby", h.nearbyIncidents)
	}

	api.POST("/sync/batch", h.syncBatch)

	sos := api.Group("/sos")
	{
		sos.POST("/trigger", h.triggerSOS)
		sos.GET("/active", h.activeSOS)
		sos.POST("/:id/resolve", h.resolveSOS)
	}

	// Ретрансляция событий клиентских диспетчеров в живой канал
	api.POST("/broadcast/:topic", h.relayBroadcast)

	safety := api.Group("/safety")
	{
		safety.GET("/heatmap", h.heatmap)
		safety.GET("/heatmap.kml", h.heatmapKML)
	}

	api.POST("/routes/safe", h.safeRoutes)

	if h.alerts != nil {
		api.GET("/ws/alerts", gin.WrapH(h.alerts))
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
