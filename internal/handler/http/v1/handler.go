package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/safe_walk_system/internal/config"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/scoring"
	"github.com/shenikar/safe_walk_system/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-kml"
)

type Handler struct {
	incidentService service.IncidentService
	syncService     service.SyncService
	sosService      service.SOSService
	safetyService   service.SafetyService
	alerts          http.Handler
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

// Services - зависимости обработчиков от бизнес-логики
type Services struct {
	Incident service.IncidentService
	Sync     service.SyncService
	SOS      service.SOSService
	Safety   service.SafetyService
}

// NewHandler создает обработчики API. alerts обслуживает websocket живого канала и может быть nil.
func NewHandler(services Services, alerts http.Handler, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: services.Incident,
		syncService:     services.Sync,
		sosService:      services.SOS,
		safetyService:   services.Safety,
		alerts:          alerts,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Report an incident
// @Description Report a hazard at a location. Missing reporterId is stored as "anonymous".
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body ReportIncidentRequest true "Incident report"
// @Success 201 {object} ReportIncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/report [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	if err := h.incidentService.ReportIncident(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to report incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ReportIncidentResponse{IncidentID: model.ID, Status: "ok"})
}

// @Summary Get nearby incidents and zones
// @Description Incidents from the store and dataset zones within the radius of a point.
// @Tags Incidents
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Param radius query int false "Radius in meters" default(500)
// @Success 200 {object} NearbyResponse
// @Failure 400 {object} map[string]string "Invalid coordinates"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/nearby [get]
func (h *Handler) nearbyIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "nearbyIncidents")

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}
	radius, err := strconv.Atoi(c.DefaultQuery("radius", "0"))
	if err != nil || radius < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
		return
	}

	result, err := h.incidentService.Nearby(c.Request.Context(), lat, lon, radius)
	if err != nil {
		log.WithError(err).Error("Failed to query nearby incidents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToNearbyResponse(result))
}

// @Summary Sync offline queue batch
// @Description Idempotently applies entries queued offline. Invalid entries are rejected with a reason.
// @Tags Sync
// @Accept json
// @Produce json
// @Param batch body SyncBatchRequest true "Queued entries"
// @Success 200 {object} models.SyncResult
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 500 {object} map[string]string "Storage failure, client keeps all entries"
// @Router /sync/batch [post]
func (h *Handler) syncBatch(c *gin.Context) {
	var input SyncBatchRequest
	log := h.logger.WithField("method", "syncBatch")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.syncService.ApplyBatch(c.Request.Context(), input.Entries)
	if err != nil {
		log.WithError(err).Error("Failed to apply sync batch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Trigger SOS
// @Description Stores an SOS alert, publishes sos-alert on the live channel and notifies guardians.
// @Tags SOS
// @Accept json
// @Produce json
// @Param sos body TriggerSOSRequest true "SOS trigger"
// @Success 200 {object} TriggerSOSResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/trigger [post]
func (h *Handler) triggerSOS(c *gin.Context) {
	var input TriggerSOSRequest
	log := h.logger.WithField("method", "triggerSOS")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert := DTOToSOSAlertModel(input)
	if err := h.sosService.Trigger(c.Request.Context(), alert); err != nil {
		log.WithError(err).Error("Failed to trigger sos in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, TriggerSOSResponse{Status: "ok", SOSID: alert.ID})
}

// @Summary List active SOS alerts
// @Description Unresolved SOS alerts, newest first.
// @Tags SOS
// @Produce json
// @Success 200 {array} SOSAlertResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/active [get]
func (h *Handler) activeSOS(c *gin.Context) {
	log := h.logger.WithField("method", "activeSOS")

	alerts, err := h.sosService.ListActive(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list active sos alerts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToSOSAlertResponses(alerts))
}

// @Summary Resolve SOS alert
// @Tags SOS
// @Produce json
// @Param id path string true "SOS alert ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid SOS ID"
// @Failure 404 {object} map[string]string "Active alert not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sos/{id}/resolve [post]
func (h *Handler) resolveSOS(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sos ID"})
		return
	}
	log := h.logger.WithField("method", "resolveSOS").WithField("id", id)

	if err := h.sosService.Resolve(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sos alert not found"})
			return
		}
		log.WithError(err).Error("Failed to resolve sos alert")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Relay a live channel event
// @Description Publishes the JSON body on a live channel topic. Only sos-alert and user-location are accepted.
// @Tags Broadcast
// @Accept json
// @Produce json
// @Param topic path string true "Topic" Enums(sos-alert, user-location)
// @Success 202 {object} map[string]string "Accepted"
// @Failure 400 {object} map[string]string "Unknown topic or invalid body"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /broadcast/{topic} [post]
func (h *Handler) relayBroadcast(c *gin.Context) {
	topic := c.Param("topic")
	log := h.logger.WithField("method", "relayBroadcast").WithField("topic", topic)

	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.sosService.Relay(c.Request.Context(), topic, json.RawMessage(body)); err != nil {
		if errors.Is(err, service.ErrUnknownTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown topic"})
			return
		}
		log.WithError(err).Error("Failed to relay broadcast")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

// @Summary Safety heatmap
// @Description All dataset zones with their safety score.
// @Tags Safety
// @Produce json
// @Success 200 {object} HeatmapResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /safety/heatmap [get]
func (h *Handler) heatmap(c *gin.Context) {
	log := h.logger.WithField("method", "heatmap")

	zones, err := h.safetyService.Heatmap(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to build heatmap")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToHeatmapResponse(zones))
}

// @Summary Safety heatmap as KML
// @Tags Safety
// @Produce xml
// @Success 200 {string} string "KML document"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /safety/heatmap.kml [get]
func (h *Handler) heatmapKML(c *gin.Context) {
	log := h.logger.WithField("method", "heatmapKML")

	zones, err := h.safetyService.Heatmap(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to build heatmap")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	placemarks := make([]kml.Element, len(zones))
	for i, z := range zones {
		placemarks[i] = kml.Placemark(
			kml.Name(z.ID),
			kml.Description(fmt.Sprintf("safetyScore=%.1f band=%s", z.SafetyScore, scoring.Band(z.SafetyScore))),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: z.Longitude, Lat: z.Latitude})),
		)
	}
	doc := kml.KML(kml.Document(append([]kml.Element{kml.Name("Safety heatmap")}, placemarks...)...))

	var buf bytes.Buffer
	if err := doc.WriteIndent(&buf, "", "  "); err != nil {
		log.WithError(err).Error("Failed to encode KML")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Data(http.StatusOK, "application/vnd.google-earth.kml+xml", buf.Bytes())
}

// @Summary Find safe routes
// @Description Ranks provider routes by safety. The primary route is the best route.
// @Tags Routes
// @Accept json
// @Produce json
// @Param route body SafeRoutesRequest true "Route search"
// @Success 200 {object} SafeRoutesResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "No route found"
// @Router /routes/safe [post]
func (h *Handler) safeRoutes(c *gin.Context) {
	var input SafeRoutesRequest
	log := h.logger.WithField("method", "safeRoutes")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.safetyService.SafeRoutes(c.Request.Context(), DTOToRouteRequest(input))
	if err != nil {
		if errors.Is(err, models.ErrRouteUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no route found"})
			return
		}
		log.WithError(err).Error("Failed to find safe routes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToSafeRoutesResponse(plan, input.MinSafetyScore))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
