package models

// Zone представляет участок местности со статическими признаками безопасности
type Zone struct {
	ID               string  `json:"id"`
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lon"`
	Lighting         float64 `json:"lighting"`
	CCTVCount        float64 `json:"cctvCount"`
	CrimeIndex       float64 `json:"crimeIndex"`
	CrowdDensity     float64 `json:"crowdDensity"`
	PoliceDistance   float64 `json:"policeDistance"`
	HospitalDistance float64 `json:"hospitalDistance"`
}

// ScoredZone - зона с рассчитанной оценкой безопасности (для тепловой карты)
type ScoredZone struct {
	Zone
	SafetyScore float64 `json:"safetyScore"`
}

// NearbyResult - инциденты и зоны вокруг точки
type NearbyResult struct {
	Incidents []*Incident  `json:"incidents"`
	Zones     []ScoredZone `json:"zones"`
}
