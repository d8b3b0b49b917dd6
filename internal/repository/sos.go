package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safe_walk_system/internal/models"
	"github.com/shenikar/safe_walk_system/internal/service"
)

type SOSRepository struct {
	db *pgxpool.Pool
}

func NewSOSRepository(db *pgxpool.Pool) service.SOSRepository {
	return &SOSRepository{db: db}
}

// Create сохраняет срабатывание SOS
func (r *SOSRepository) Create(ctx context.Context, alert *models.SOSAlert) error {
	query := `
		INSERT INTO sos_alerts (user_id, location, reason)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		alert.UserID,
		alert.Longitude,
		alert.Latitude,
		alert.Reason,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sos alert: %w", err)
	}
	return nil
}

// CreateIdempotent сохраняет SOS из офлайн-очереди. Возвращает false для повторной отправки.
func (r *SOSRepository) CreateIdempotent(ctx context.Context, alert *models.SOSAlert, dedupKey string) (bool, error) {
	query := `
		INSERT INTO sos_alerts (user_id, location, reason, client_id, dedup_key)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4, $5, $6)
		ON CONFLICT (dedup_key) DO NOTHING
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		alert.UserID,
		alert.Longitude,
		alert.Latitude,
		alert.Reason,
		alert.ClientID,
		dedupKey,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create sos alert idempotently: %w", err)
	}
	return true, nil
}

// ListActive возвращает неразрешенные тревоги, новые первыми
func (r *SOSRepository) ListActive(ctx context.Context, limit int) ([]*models.SOSAlert, error) {
	query := `
		SELECT
			id,
			user_id,
			ST_Y(location::geometry) as latitude,
			ST_X(location::geometry) as longitude,
			reason,
			resolved,
			COALESCE(client_id, ''),
			created_at,
			resolved_at
		FROM sos_alerts
		WHERE resolved = FALSE
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sos alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*models.SOSAlert, 0)
	for rows.Next() {
		alert := &models.SOSAlert{}
		err := rows.Scan(
			&alert.ID,
			&alert.UserID,
			&alert.Latitude,
			&alert.Longitude,
			&alert.Reason,
			&alert.Resolved,
			&alert.ClientID,
			&alert.CreatedAt,
			&alert.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sos alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in ListActive: %w", err)
	}
	return alerts, nil
}

// Resolve помечает тревогу разрешенной
func (r *SOSRepository) Resolve(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE sos_alerts SET
			resolved = TRUE,
			resolved_at = NOW()
		WHERE id = $1 AND resolved = FALSE;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to resolve sos alert: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("active sos alert %s: %w", id, models.ErrNotFound)
	}
	return nil
}
