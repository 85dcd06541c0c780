package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/repository"
)

// CarHandler serves the public catalog endpoints. These sit behind the
// Redis response cache, so repeated browsing traffic rarely reaches MySQL.
type CarHandler struct {
	Cars *repository.CarRepo
}

func NewCarHandler(cars *repository.CarRepo) *CarHandler {
	if cars == nil {
		panic("nil repository passed to NewCarHandler")
	}
	return &CarHandler{Cars: cars}
}

// List returns the whole catalog, optionally filtered with ?group=.
func (h *CarHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if group := c.QueryParam("group"); group != "" {
		list, err := h.Cars.ListByGroup(ctx, group)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, list)
	}
	list, err := h.Cars.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// Groups returns the distinct rental categories present in the catalog.
func (h *CarHandler) Groups(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	groups, err := h.Cars.DistinctGroups(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, groups)
}

// ByGroup returns the cars of one rental category.
func (h *CarHandler) ByGroup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Cars.ListByGroup(ctx, c.Param("groupName"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns a single car by id.
func (h *CarHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, car)
}
