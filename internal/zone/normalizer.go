package zone

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shenikar/safe_walk_system/internal/models"
)

// Значения по умолчанию для отсутствующих признаков зоны
const (
	DefaultLighting         = 3.0
	DefaultCCTVCount        = 0.0
	DefaultCrimeIndex       = 0.5
	DefaultCrowdDensity     = 0.5
	DefaultPoliceDistance   = 2.0
	DefaultHospitalDistance = 2.0
)

// Shape - распознанная форма набора данных
type Shape int

const (
	ShapeEmpty       Shape = iota
	ShapeArray             // [ {...}, {...} ]
	ShapeAreasArray        // { "areas": [ {...} ] }
	ShapeAreasMap          // { "areas": { "a": {...} } }
	ShapeObject            // { "a": {...}, "b": {...} }
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeAreasArray:
		return "areas-array"
	case ShapeAreasMap:
		return "areas-map"
	case ShapeObject:
		return "object"
	}
	return "empty"
}

// Псевдонимы признаков в порядке приоритета
var featureAliases = []struct {
	names    []string
	fallback float64
	assign   func(z *models.Zone, v float64)
}{
	{[]string{"lighting", "lightingScore"}, DefaultLighting, func(z *models.Zone, v float64) { z.Lighting = v }},
	{[]string{"cctvCount", "cctv"}, DefaultCCTVCount, func(z *models.Zone, v float64) { z.CCTVCount = v }},
	{[]string{"crimeIndex", "predicted_crimeIndex", "risk"}, DefaultCrimeIndex, func(z *models.Zone, v float64) { z.CrimeIndex = v }},
	{[]string{"crowdDensity", "crowd"}, DefaultCrowdDensity, func(z *models.Zone, v float64) { z.CrowdDensity = v }},
	{[]string{"policeDistance", "policeDistanceKm"}, DefaultPoliceDistance, func(z *models.Zone, v float64) { z.PoliceDistance = v }},
	{[]string{"hospitalDistance", "hospitalDistanceKm"}, DefaultHospitalDistance, func(z *models.Zone, v float64) { z.HospitalDistance = v }},
}

var idAliases = []string{"id", "locationId", "name"}

// candidate - запись набора данных до нормализации
type candidate struct {
	key   string
	keyed bool // ключ взят из объекта, а не из позиции в массиве
	raw   json.RawMessage
}

// Skipped - запись, исключенная при нормализации
type Skipped struct {
	Position string
	Err      error
}

// Result - результат нормализации набора зон
type Result struct {
	Shape   Shape
	Zones   []models.Zone
	Skipped []Skipped
}

// Normalize приводит набор данных произвольной формы к плоскому упорядоченному списку зон.
// Ошибка возвращается только для синтаксически некорректного JSON.
func Normalize(data []byte) (*Result, error) {
	candidates, shape, err := flatten(data)
	if err != nil {
		return nil, err
	}

	res := &Result{Shape: shape, Zones: make([]models.Zone, 0, len(candidates))}
	for i, c := range candidates {
		z, err := normalizeRecord(c, i)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Position: c.key, Err: err})
			continue
		}
		res.Zones = append(res.Zones, z)
	}
	return res, nil
}

// flatten распознает форму набора и возвращает записи в порядке документа
func flatten(data []byte) ([]candidate, Shape, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ShapeEmpty, nil
	}

	switch trimmed[0] {
	case '[':
		items, err := decodeArray(trimmed)
		return items, ShapeArray, err
	case '{':
		members, err := decodeObject(trimmed)
		if err != nil {
			return nil, ShapeEmpty, err
		}
		for _, m := range members {
			if m.key != "areas" {
				continue
			}
			areas := bytes.TrimSpace(m.raw)
			if len(areas) == 0 {
				break
			}
			switch areas[0] {
			case '[':
				items, err := decodeArray(areas)
				return items, ShapeAreasArray, err
			case '{':
				items, err := decodeObject(areas)
				return items, ShapeAreasMap, err
			}
		}
		return members, ShapeObject, nil
	default:
		// скаляр на верхнем уровне: зон нет
		if !json.Valid(trimmed) {
			return nil, ShapeEmpty, fmt.Errorf("invalid zone dataset json")
		}
		return nil, ShapeEmpty, nil
	}
}

func decodeArray(data []byte) ([]candidate, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode zone array: %w", err)
	}
	out := make([]candidate, len(items))
	for i, item := range items {
		out[i] = candidate{key: strconv.Itoa(i), raw: item}
	}
	return out, nil
}

// decodeObject декодирует объект с сохранением порядка ключей
func decodeObject(data []byte) ([]candidate, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to decode zone object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("failed to decode zone object: unexpected token %v", tok)
	}

	var out []candidate
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode zone object key: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode zone object value %q: %w", key, err)
		}
		out = append(out, candidate{key: key, keyed: true, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode zone object end: %w", err)
	}
	return out, nil
}

func normalizeRecord(c candidate, position int) (models.Zone, error) {
	dec := json.NewDecoder(bytes.NewReader(c.raw))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return models.Zone{}, fmt.Errorf("record %s is not an object: %w", c.key, models.ErrDataUnresolvable)
	}

	lat, lon, ok := resolveCoordinates(rec)
	if !ok {
		return models.Zone{}, fmt.Errorf("record %s: %w", c.key, models.ErrDataUnresolvable)
	}

	z := models.Zone{
		ID:        resolveID(rec, c, position),
		Latitude:  lat,
		Longitude: lon,
	}
	for _, f := range featureAliases {
		f.assign(&z, firstNumber(rec, f.names, f.fallback))
	}
	return z, nil
}

// resolveCoordinates пробует по порядку: coordinates [lat, lon], lat/lon, latitude/longitude
func resolveCoordinates(rec map[string]any) (float64, float64, bool) {
	if coords, ok := rec["coordinates"].([]any); ok && len(coords) >= 2 {
		lat, okLat := toFloat(coords[0])
		lon, okLon := toFloat(coords[1])
		if okLat && okLon && validCoordinates(lat, lon) {
			return lat, lon, true
		}
	}

	pairs := [][2]string{{"lat", "lon"}, {"latitude", "longitude"}}
	for _, p := range pairs {
		lat, okLat := toFloat(rec[p[0]])
		lon, okLon := toFloat(rec[p[1]])
		if okLat && okLon && validCoordinates(lat, lon) {
			return lat, lon, true
		}
	}
	return 0, 0, false
}

func resolveID(rec map[string]any, c candidate, position int) string {
	for _, name := range idAliases {
		switch v := rec[name].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	if c.keyed {
		return c.key
	}
	return fmt.Sprintf("zone-%d", position)
}

func firstNumber(rec map[string]any, names []string, fallback float64) float64 {
	for _, name := range names {
		if v, ok := toFloat(rec[name]); ok {
			return v
		}
	}
	return fallback
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
