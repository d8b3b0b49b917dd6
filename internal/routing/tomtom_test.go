package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shenikar/safe_walk_system/internal/config"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomTomFixture = `{
	"routes": [
		{
			"summary": {"lengthInMeters": 1500, "travelTimeInSeconds": 1100},
			"legs": [
				{"points": [{"latitude": 40.758, "longitude": -73.9855}, {"latitude": 40.7615, "longitude": -73.983}]},
				{"points": [{"latitude": 40.765, "longitude": -73.98}]}
			]
		},
		{
			"summary": {"lengthInMeters": 2100, "travelTimeInSeconds": 1600},
			"legs": [{"points": [{"latitude": 40.758, "longitude": -73.9855}, {"latitude": 40.765, "longitude": -73.98}]}]
		}
	]
}`

func newTestTomTomClient(baseURL string) *TomTomClient {
	return NewTomTomClient(&config.Config{
		TomTomAPIKey:           "test-key",
		TomTomBaseURL:          baseURL,
		RoutingMaxAlternatives: 2,
		RoutingTimeout:         time.Second,
		RoutingRatePerSecond:   100,
	})
}

func TestTomTomClient_Routes(t *testing.T) {
	// Подготовка
	var gotPath string
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"key":                 r.URL.Query().Get("key"),
			"travelMode":          r.URL.Query().Get("travelMode"),
			"maxAlternatives":     r.URL.Query().Get("maxAlternatives"),
			"routeRepresentation": r.URL.Query().Get("routeRepresentation"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tomTomFixture))
	}))
	defer srv.Close()

	client := newTestTomTomClient(srv.URL)

	// Действие
	routes, err := client.Routes(context.Background(), Request{
		Start: models.RoutePoint{Latitude: 40.758, Longitude: -73.9855},
		End:   models.RoutePoint{Latitude: 40.765, Longitude: -73.98},
		Mode:  models.TravelModeBike,
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "/routing/1/calculateRoute/40.758,-73.9855:40.765,-73.98/json", gotPath)
	assert.Equal(t, "test-key", gotQuery["key"])
	assert.Equal(t, "bicycle", gotQuery["travelMode"])
	assert.Equal(t, "2", gotQuery["maxAlternatives"])
	assert.Equal(t, "polyline", gotQuery["routeRepresentation"])

	require.Len(t, routes, 2)
	assert.Equal(t, "route-0", routes[0].ID)
	assert.Equal(t, 1500.0, routes[0].LengthMeters)
	assert.Equal(t, 1100.0, routes[0].DurationSeconds)
	assert.Len(t, routes[0].Points, 3)
	assert.Equal(t, models.RoutePoint{Latitude: 40.765, Longitude: -73.98}, routes[0].Points[2])
	assert.Equal(t, "route-1", routes[1].ID)
}

func TestTomTomClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestTomTomClient(srv.URL).Routes(context.Background(), Request{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestTomTomClient_MissingKey(t *testing.T) {
	client := NewTomTomClient(&config.Config{TomTomBaseURL: "http://unused"})

	_, err := client.Routes(context.Background(), Request{})

	require.Error(t, err)
}

func TestProviderTravelMode(t *testing.T) {
	assert.Equal(t, "pedestrian", ProviderTravelMode(models.TravelModeWalking))
	assert.Equal(t, "bicycle", ProviderTravelMode(models.TravelModeBike))
	assert.Equal(t, "car", ProviderTravelMode(models.TravelModeCar))
	assert.Equal(t, "bus", ProviderTravelMode(models.TravelModeTransit))
	assert.Equal(t, "pedestrian", ProviderTravelMode("hoverboard"))
}
