package repository

import (
	"context"
	"database/sql"
)

// StatsRepo runs the aggregate queries behind the public stats endpoint.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// Summary aggregates the catalog and reservation data shown on the stats
// page: the most frequently reserved car and the average daily price.
type Summary struct {
	MostPopularCarID  *uint64 `json:"most_popular_car_id"`
	AverageDailyPrice float64 `json:"average_daily_price"`
}

// GetSummary computes the summary. With no reservations yet the popular
// car is nil; with an empty catalog the average price is 0.
func (r *StatsRepo) GetSummary(ctx context.Context) (Summary, error) {
	var s Summary
	var carID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT car_id FROM reservation_cars
		 GROUP BY car_id ORDER BY COUNT(*) DESC, car_id LIMIT 1`).Scan(&carID)
	switch err {
	case nil:
		s.MostPopularCarID = &carID
	case sql.ErrNoRows:
		// no reservations yet
	default:
		return s, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT IFNULL(AVG(daily_price), 0) FROM cars").Scan(&s.AverageDailyPrice)
	return s, err
}
