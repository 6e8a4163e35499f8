package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"evcharge/backend/services/booking-service/internal/models"
)

// StationRepository mirrors the station catalog into Postgres for reporting joins.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Upsert persists one station.
func (r *StationRepository) Upsert(ctx context.Context, station models.Station) error {
	const query = `
		INSERT INTO stations (id, name, address, longitude, latitude, chargers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			longitude = EXCLUDED.longitude,
			latitude = EXCLUDED.latitude,
			chargers = EXCLUDED.chargers,
			updated_at = NOW()
	`
	chargers, err := json.Marshal(station.Chargers)
	if err != nil {
		return fmt.Errorf("station repo: encode chargers: %w", err)
	}
	var lng, lat float64
	if len(station.Location) == 2 {
		lng, lat = station.Location[0], station.Location[1]
	}
	_, err = r.db.ExecContext(ctx, query, station.ID, station.Name, station.Address, lng, lat, chargers)
	return err
}

// Sync upserts every station.
func (r *StationRepository) Sync(ctx context.Context, stations []models.Station) error {
	for _, st := range stations {
		if err := r.Upsert(ctx, st); err != nil {
			return fmt.Errorf("station repo: upsert %d: %w", st.ID, err)
		}
	}
	return nil
}

// Count returns the number of mirrored stations.
func (r *StationRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stations`).Scan(&n)
	return n, err
}
