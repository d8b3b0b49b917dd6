package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shenikar/safe_walk_system/internal/config"
	"github.com/shenikar/safe_walk_system/internal/models"
	"golang.org/x/time/rate"
)

// TomTomClient - клиент TomTom Routing API
type TomTomClient struct {
	apiKey          string
	baseURL         string
	maxAlternatives int
	httpClient      *http.Client
	limiter         *rate.Limiter
}

type tomTomResponse struct {
	Routes []tomTomRoute `json:"routes"`
}

type tomTomRoute struct {
	Summary struct {
		LengthInMeters      float64 `json:"lengthInMeters"`
		TravelTimeInSeconds float64 `json:"travelTimeInSeconds"`
	} `json:"summary"`
	Legs []struct {
		Points []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"points"`
	} `json:"legs"`
}

// NewTomTomClient создает клиента TomTom с ограничением частоты запросов
func NewTomTomClient(cfg *config.Config) *TomTomClient {
	limit := rate.Inf
	if cfg.RoutingRatePerSecond > 0 {
		limit = rate.Limit(cfg.RoutingRatePerSecond)
	}
	return &TomTomClient{
		apiKey:          cfg.TomTomAPIKey,
		baseURL:         cfg.TomTomBaseURL,
		maxAlternatives: cfg.RoutingMaxAlternatives,
		httpClient: &http.Client{
			Timeout: cfg.RoutingTimeout,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Routes запрашивает основной маршрут и альтернативы
func (c *TomTomClient) Routes(ctx context.Context, req Request) ([]models.Route, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("tomtom api key is not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	locations := fmt.Sprintf("%s,%s:%s,%s",
		formatCoord(req.Start.Latitude), formatCoord(req.Start.Longitude),
		formatCoord(req.End.Latitude), formatCoord(req.End.Longitude))

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("travelMode", ProviderTravelMode(req.Mode))
	params.Set("routeRepresentation", "polyline")
	params.Set("maxAlternatives", strconv.Itoa(c.maxAlternatives))

	endpoint := fmt.Sprintf("%s/routing/1/calculateRoute/%s/json?%s", c.baseURL, locations, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tomtom api error %d: %s", resp.StatusCode, string(body))
	}

	var response tomTomResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	routes := make([]models.Route, 0, len(response.Routes))
	for i, r := range response.Routes {
		route := models.Route{
			ID:              fmt.Sprintf("route-%d", i),
			LengthMeters:    r.Summary.LengthInMeters,
			DurationSeconds: r.Summary.TravelTimeInSeconds,
		}
		// точки всех участков склеиваются по порядку
		for _, leg := range r.Legs {
			for _, p := range leg.Points {
				route.Points = append(route.Points, models.RoutePoint{Latitude: p.Latitude, Longitude: p.Longitude})
			}
		}
		routes = append(routes, route)
	}
	return routes, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
