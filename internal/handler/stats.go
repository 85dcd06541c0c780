package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/repository"
)

// StatsHandler serves aggregate catalog statistics.
type StatsHandler struct {
	Stats *repository.StatsRepo
	Cars  *repository.CarRepo
}

func NewStatsHandler(stats *repository.StatsRepo, cars *repository.CarRepo) *StatsHandler {
	if stats == nil || cars == nil {
		panic("nil repository passed to NewStatsHandler")
	}
	return &StatsHandler{Stats: stats, Cars: cars}
}

// Summary returns the most reserved car and the average daily price of
// the catalog. The popular car is null while no car was ever reserved.
func (h *StatsHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sum, err := h.Stats.GetSummary(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	resp := echo.Map{
		"most_popular_car":    nil,
		"average_daily_price": sum.AverageDailyPrice,
	}
	if sum.MostPopularCarID != nil {
		if car, err := h.Cars.GetByID(ctx, *sum.MostPopularCarID); err == nil {
			resp["most_popular_car"] = car
		}
	}
	return c.JSON(http.StatusOK, resp)
}
