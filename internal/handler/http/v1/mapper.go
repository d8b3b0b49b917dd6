package v1

import (
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/routing"
	"github.com/shenikar/safe_walk_system/internal/scoring"
	"github.com/shenikar/safe_walk_system/internal/webhook"
)

// DTOToIncidentModel преобразует DTO сообщения в доменную модель
func DTOToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		ReporterID:  dto.ReporterID,
		Type:        dto.Type,
		Description: dto.Description,
		Latitude:    *dto.Latitude,
		Longitude:   *dto.Longitude,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:          model.ID,
		ReporterID:  model.ReporterID,
		Type:        model.Type,
		Description: model.Description,
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		Verified:    model.Verified,
		CreatedAt:   model.CreatedAt,
	}
}

// ModelToNearbyResponse преобразует результат поиска рядом в DTO
func ModelToNearbyResponse(result *models.NearbyResult) *NearbyResponse {
	resp := &NearbyResponse{
		Incidents: make([]*IncidentResponse, len(result.Incidents)),
		Zones:     make([]*NearbyZoneResponse, len(result.Zones)),
	}
	for i, inc := range result.Incidents {
		resp.Incidents[i] = ModelToIncidentResponse(inc)
	}
	for i, z := range result.Zones {
		resp.Zones[i] = &NearbyZoneResponse{
			ID:        z.ID,
			Latitude:  z.Latitude,
			Longitude: z.Longitude,
			ZoneScore: z.SafetyScore,
			Band:      scoring.Band(z.SafetyScore),
		}
	}
	return resp
}

// DTOToSOSAlertModel преобразует DTO срабатывания SOS в доменную модель
func DTOToSOSAlertModel(dto TriggerSOSRequest) *models.SOSAlert {
	return &models.SOSAlert{
		UserID:    dto.UserID,
		Latitude:  *dto.Latitude,
		Longitude: *dto.Longitude,
		Reason:    dto.Reason,
	}
}

// ModelsToSOSAlertResponses преобразует слайс тревог в слайс DTO
func ModelsToSOSAlertResponses(alerts []*models.SOSAlert) []*SOSAlertResponse {
	responses := make([]*SOSAlertResponse, len(alerts))
	for i, a := range alerts {
		responses[i] = &SOSAlertResponse{
			ID:        a.ID,
			UserID:    a.UserID,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Reason:    a.Reason,
			MapsURL:   webhook.MapsURL(a.Latitude, a.Longitude),
			CreatedAt: a.CreatedAt,
		}
	}
	return responses
}

// ModelsToHeatmapResponse преобразует оцененные зоны в DTO тепловой карты
func ModelsToHeatmapResponse(zones []models.ScoredZone) *HeatmapResponse {
	resp := &HeatmapResponse{Zones: make([]*HeatmapZoneResponse, len(zones))}
	for i, z := range zones {
		resp.Zones[i] = &HeatmapZoneResponse{
			ID:          z.ID,
			Latitude:    z.Latitude,
			Longitude:   z.Longitude,
			Lighting:    z.Lighting,
			CCTVCount:   z.CCTVCount,
			CrimeIndex:  z.CrimeIndex,
			SafetyScore: z.SafetyScore,
		}
	}
	return resp
}

// DTOToRouteRequest преобразует DTO поиска маршрутов в запрос к провайдеру
func DTOToRouteRequest(dto SafeRoutesRequest) routing.Request {
	mode := models.TravelMode(dto.Mode)
	if mode == "" {
		mode = models.TravelModeWalking
	}
	return routing.Request{
		Start: models.RoutePoint{Latitude: *dto.Start.Latitude, Longitude: *dto.Start.Longitude},
		End:   models.RoutePoint{Latitude: *dto.End.Latitude, Longitude: *dto.End.Longitude},
		Mode:  mode,
	}
}

// ModelToSafeRoutesResponse преобразует план маршрутов в DTO.
// Маршрут ниже minSafetyScore помечается belowThreshold.
func ModelToSafeRoutesResponse(plan *models.RoutePlan, minSafetyScore *float64) *SafeRoutesResponse {
	resp := &SafeRoutesResponse{
		BestRouteID:  plan.Ranked.BestRouteID,
		Routes:       make([]*RouteResponse, len(plan.Ranked.Routes)),
		TilesToCache: plan.TilesToCache,
	}
	for i, r := range plan.Ranked.Routes {
		resp.Routes[i] = &RouteResponse{
			ID:              r.ID,
			Label:           r.Label,
			Color:           r.Color,
			LengthMeters:    r.LengthMeters,
			DurationSeconds: r.DurationSeconds,
			SafetyScore:     r.SafetyScore,
			Band:            scoring.Band(r.SafetyScore),
			BelowThreshold:  minSafetyScore != nil && r.SafetyScore < *minSafetyScore,
			Points:          r.Points,
			EncodedPolyline: routing.EncodePolyline(r.Points),
		}
	}
	return resp
}
