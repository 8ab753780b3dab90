package postgres

import (
	"context"
	"database/sql"
	"time"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// SearchRepository is a PostgreSQL implementation of repository.SearchRepository.
type SearchRepository struct {
	q Querier
}

// NewSearchRepository creates a new PostgreSQL search repository.
func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{q: db}
}

// FindAvailableLots retrieves the distinct lots that have at least one spot
// of the given type with an AVAILABLE window fully containing [start, end],
// joined with each lot's active pricing rule.
func (r *SearchRepository) FindAvailableLots(ctx context.Context, spotType domain.SpotType, start, end time.Time) ([]*repository.SearchRow, error) {
	query := `
		SELECT DISTINCT l.id, l.name, l.address, l.latitude, l.longitude, pr.rate, pr.rate_type
		FROM lots l
		JOIN spots s ON s.lot_id = l.id
		JOIN availability_windows w ON w.spot_id = s.id
		JOIN pricing_rules pr ON pr.lot_id = l.id
		WHERE s.spot_type = $1
		  AND w.start_time <= $2
		  AND w.end_time >= $3
		  AND w.status = 'AVAILABLE'
		  AND pr.is_active = TRUE
	`

	rows, err := r.q.QueryContext(ctx, query, spotType, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*repository.SearchRow
	for rows.Next() {
		var row repository.SearchRow
		if err := rows.Scan(
			&row.LotID,
			&row.Name,
			&row.Address,
			&row.Latitude,
			&row.Longitude,
			&row.Rate,
			&row.RateType,
		); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}
