package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stayfix/stayfix/internal/dashboard"
)

const (
	countsQuery = `
SELECT COUNT(*) AS total, COUNT(residence_title_id) AS with_permits
FROM employees
WHERE user_id = $1
`
	expiryDatesQuery = `
SELECT valid_until
FROM employees
WHERE user_id = $1 AND valid_until IS NOT NULL
ORDER BY valid_until ASC
`
)

type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Counts(ctx context.Context, userID string) (dashboard.Counts, error) {
	var c dashboard.Counts
	if err := r.db.GetContext(ctx, &c, countsQuery, userID); err != nil {
		return dashboard.Counts{}, fmt.Errorf("counts query: %w", err)
	}
	return c, nil
}

func (r *DashboardRepository) ExpiryDates(ctx context.Context, userID string) ([]time.Time, error) {
	dates := []time.Time{}
	if err := r.db.SelectContext(ctx, &dates, expiryDatesQuery, userID); err != nil {
		return nil, fmt.Errorf("expiry dates query: %w", err)
	}
	return dates, nil
}
