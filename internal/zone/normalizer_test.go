package zone

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	recordA = `{"id": "a", "lat": 40.758, "lon": -73.9855, "lighting": 5, "cctvCount": 12, "crimeIndex": 0.1}`
	recordB = `{"id": "b", "coordinates": [40.765, -73.98], "lighting": 1, "crimeIndex": 0.9}`
)

func TestNormalize_ShapesAreEquivalent(t *testing.T) {
	inputs := map[string]string{
		"array":       `[` + recordA + `,` + recordB + `]`,
		"areas-array": `{"areas": [` + recordA + `,` + recordB + `]}`,
		"areas-map":   `{"areas": {"a": ` + recordA + `, "b": ` + recordB + `}}`,
		"object":      `{"a": ` + recordA + `, "b": ` + recordB + `}`,
	}

	var reference []models.Zone
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			res, err := Normalize([]byte(input))
			require.NoError(t, err)
			assert.Equal(t, name, res.Shape.String())
			require.Len(t, res.Zones, 2)
			assert.Empty(t, res.Skipped)
			assert.Equal(t, "a", res.Zones[0].ID)
			assert.Equal(t, "b", res.Zones[1].ID)
		})
	}

	for _, input := range inputs {
		res, err := Normalize([]byte(input))
		require.NoError(t, err)
		if reference == nil {
			reference = res.Zones
			continue
		}
		assert.Equal(t, reference, res.Zones)
	}
}

func TestNormalize_CoordinateAliasOrder(t *testing.T) {
	// coordinates имеет приоритет над lat/lon, lat/lon над latitude/longitude
	input := `[
		{"coordinates": [1, 2], "lat": 3, "lon": 4, "latitude": 5, "longitude": 6},
		{"lat": 3, "lon": 4, "latitude": 5, "longitude": 6},
		{"latitude": 5, "longitude": 6},
		{"coordinates": ["7.5", "8.25"]}
	]`

	res, err := Normalize([]byte(input))
	require.NoError(t, err)
	require.Len(t, res.Zones, 4)

	assert.Equal(t, 1.0, res.Zones[0].Latitude)
	assert.Equal(t, 2.0, res.Zones[0].Longitude)
	assert.Equal(t, 3.0, res.Zones[1].Latitude)
	assert.Equal(t, 4.0, res.Zones[1].Longitude)
	assert.Equal(t, 5.0, res.Zones[2].Latitude)
	assert.Equal(t, 6.0, res.Zones[2].Longitude)
	assert.Equal(t, 7.5, res.Zones[3].Latitude)
	assert.Equal(t, 8.25, res.Zones[3].Longitude)
}

func TestNormalize_SkipsUnresolvableRecords(t *testing.T) {
	input := `{"areas": [
		{"id": "ok", "lat": 10, "lon": 20},
		{"id": "null-lat", "lat": null, "lon": 20},
		{"id": "no-coords", "lighting": 4},
		{"id": "short", "coordinates": [10]},
		{"id": "out-of-range", "lat": 120, "lon": 20},
		42,
		null
	]}`

	res, err := Normalize([]byte(input))
	require.NoError(t, err)
	require.Len(t, res.Zones, 1)
	assert.Equal(t, "ok", res.Zones[0].ID)
	require.Len(t, res.Skipped, 6)
	for _, s := range res.Skipped {
		assert.True(t, errors.Is(s.Err, models.ErrDataUnresolvable), "position %s", s.Position)
	}
	assert.Equal(t, "1", res.Skipped[0].Position)
}

func TestNormalize_DefaultsAndAliases(t *testing.T) {
	input := `[
		{"lat": 1, "lon": 1},
		{"lat": 1, "lon": 1, "lightingScore": 4, "cctv": 8, "risk": 0.2, "crowd": 0.9, "policeDistanceKm": 0.3, "hospitalDistanceKm": 0.7}
	]`

	res, err := Normalize([]byte(input))
	require.NoError(t, err)
	require.Len(t, res.Zones, 2)

	assert.Equal(t, models.Zone{
		ID: "zone-0", Latitude: 1, Longitude: 1,
		Lighting: 3, CCTVCount: 0, CrimeIndex: 0.5, CrowdDensity: 0.5,
		PoliceDistance: 2, HospitalDistance: 2,
	}, res.Zones[0])

	assert.Equal(t, models.Zone{
		ID: "zone-1", Latitude: 1, Longitude: 1,
		Lighting: 4, CCTVCount: 8, CrimeIndex: 0.2, CrowdDensity: 0.9,
		PoliceDistance: 0.3, HospitalDistance: 0.7,
	}, res.Zones[1])
}

func TestNormalize_IDFallbacks(t *testing.T) {
	res, err := Normalize([]byte(`{"areas": {"downtown": {"lat": 1, "lon": 2}, "park": {"locationId": "P-7", "lat": 3, "lon": 4}}}`))
	require.NoError(t, err)
	require.Len(t, res.Zones, 2)
	assert.Equal(t, "downtown", res.Zones[0].ID)
	assert.Equal(t, "P-7", res.Zones[1].ID)
}

func TestNormalize_EmptyAndScalarInputs(t *testing.T) {
	for _, input := range []string{"", "   ", "null", "42", `"text"`, "[]", "{}"} {
		res, err := Normalize([]byte(input))
		require.NoError(t, err, "input %q", input)
		assert.Empty(t, res.Zones, "input %q", input)
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize([]byte(`{"areas": [`))
	require.Error(t, err)
}

func TestLoad_BuildsIndex(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	idx, err := Load([]byte(`[`+recordA+`, {"id": "broken"}]`), logger)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}
