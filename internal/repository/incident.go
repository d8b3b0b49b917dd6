package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/service"
)

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{
		db: db,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (reporter_id, type, description, location)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography)
		RETURNING id, verified, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.ReporterID,
		incident.Type,
		incident.Description,
		incident.Longitude,
		incident.Latitude,
	).Scan(&incident.ID, &incident.Verified, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// CreateIdempotent вставляет инцидент, если запись с таким ключом дедупликации
// еще не принималась. Возвращает false для повторной отправки.
func (r *IncidentRepository) CreateIdempotent(ctx context.Context, incident *models.Incident, dedupKey string) (bool, error) {
	query := `
		INSERT INTO incidents (reporter_id, type, description, location, client_id, dedup_key)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography, $6, $7)
		ON CONFLICT (dedup_key) DO NOTHING
		RETURNING id, verified, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.ReporterID,
		incident.Type,
		incident.Description,
		incident.Longitude,
		incident.Latitude,
		incident.ClientID,
		dedupKey,
	).Scan(&incident.ID, &incident.Verified, &incident.CreatedAt)
	if err != nil {
		// ON CONFLICT DO NOTHING не возвращает строк
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create incident idempotently: %w", err)
	}
	return true, nil
}

// FindNearby находит инциденты в радиусе radiusMeters от точки, новые первыми
func (r *IncidentRepository) FindNearby(ctx context.Context, lat, lon float64, radiusMeters, limit int) ([]*models.Incident, error) {
	query := `
		SELECT
			id,
			reporter_id,
			type,
			description,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			verified,
			COALESCE(client_id, ''),
			created_at
		FROM incidents
		WHERE ST_DWithin(
			location,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		ORDER BY created_at DESC
		LIMIT $4;
	`
	rows, err := r.db.Query(ctx, query, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.ReporterID,
			&incident.Type,
			&incident.Description,
			&incident.Latitude,
			&incident.Longitude,
			&incident.Verified,
			&incident.ClientID,
			&incident.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in FindNearby: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in FindNearby: %w", err)
	}
	return incidents, nil
}
