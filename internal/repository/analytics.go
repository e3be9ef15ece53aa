package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// MonthlyDistance is one row of the monthly distance report.
type MonthlyDistance struct {
	Month      string  `db:"month" json:"month"` // "2025-07"
	Journeys   uint64  `db:"journeys" json:"journeys"`
	DistanceKm float64 `db:"distance_km" json:"distanceKm"`
}

// AnalyticsRepository writes journey events to ClickHouse and serves the
// reporting queries. Inserts are append-only; duplicates from redelivery are
// tolerated in the raw table and collapsed at query time.
type AnalyticsRepository interface {
	InsertJourneyEvent(ctx context.Context, journeyID, userID string, startTime time.Time, distanceKm float64) error
	MonthlyDistances(ctx context.Context, userID string, year int) ([]MonthlyDistance, error)
}

type analyticsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewAnalyticsRepository(ch *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{ch: ch}
}

func (r *analyticsRepository) InsertJourneyEvent(ctx context.Context, journeyID, userID string, startTime time.Time, distanceKm float64) error {
	_, err := r.ch.ExecContext(ctx, `
		INSERT INTO navp.journey_events (journey_id, user_id, start_time, distance_km)
		VALUES (?, ?, ?, ?)
	`, journeyID, userID, startTime, distanceKm)
	return err
}

func (r *analyticsRepository) MonthlyDistances(ctx context.Context, userID string, year int) ([]MonthlyDistance, error) {
	const q = `
		SELECT formatDateTime(start_time, '%Y-%m') AS month,
		       uniqExact(journey_id)               AS journeys,
		       sum(distance_km)                    AS distance_km
		FROM (
		    SELECT journey_id, any(start_time) AS start_time, any(distance_km) AS distance_km
		    FROM navp.journey_events
		    WHERE user_id = ? AND toYear(start_time) = ?
		    GROUP BY journey_id
		)
		GROUP BY month
		ORDER BY month
	`
	var rows []MonthlyDistance
	if err := r.ch.SelectContext(ctx, &rows, q, userID, year); err != nil {
		return nil, err
	}
	return rows, nil
}
