package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/model"
	"github.com/iliyamo/car-rental-reservation/internal/repository"
)

// AdminHandler groups the back-office endpoints: user management, catalog
// maintenance, reservation oversight and the loyalty points report. The
// whole group sits behind JWTAuth plus RequireRole("ADMIN").
type AdminHandler struct {
	Users        *repository.UserRepo
	Cars         *repository.CarRepo
	Reservations *repository.ReservationRepo
}

func NewAdminHandler(users *repository.UserRepo, cars *repository.CarRepo, reservations *repository.ReservationRepo) *AdminHandler {
	if users == nil || cars == nil || reservations == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Cars: cars, Reservations: reservations}
}

// ----- users -----

type adminUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsAdmin  bool   `json:"is_admin"`
	Points   uint32 `json:"points"`
}

// ListUsers returns every user account.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser returns one user account by id.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// UpdateUser overwrites the admin-editable fields of a user, including
// the manual points override.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Update(ctx, id, req.Username, req.Email, req.Phone, req.IsAdmin, req.Points); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// DeleteUser removes a user account.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// ----- cars -----

type adminCarReq struct {
	Brand           string  `json:"brand"`
	Model           string  `json:"model"`
	Group           string  `json:"group"`
	EngineSize      uint32  `json:"engine_size"`
	Doors           uint32  `json:"doors"`
	Passengers      uint32  `json:"passengers"`
	FuelType        string  `json:"fuel_type"`
	Gearbox         string  `json:"gearbox"`
	HasAC           bool    `json:"has_ac"`
	ElectricWindows bool    `json:"electric_windows"`
	Image           string  `json:"image"`
	DailyPrice      float64 `json:"daily_price"`
}

func (r adminCarReq) toModel() model.Car {
	return model.Car{
		Brand:           r.Brand,
		Model:           r.Model,
		Group:           r.Group,
		EngineSize:      r.EngineSize,
		Doors:           r.Doors,
		Passengers:      r.Passengers,
		FuelType:        r.FuelType,
		Gearbox:         r.Gearbox,
		HasAC:           r.HasAC,
		ElectricWindows: r.ElectricWindows,
		Image:           r.Image,
		DailyPrice:      r.DailyPrice,
	}
}

// CreateCar adds a car to the catalog.
func (h *AdminHandler) CreateCar(c echo.Context) error {
	var req adminCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Brand == "" || req.Model == "" || req.Group == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand/model/group required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car := req.toModel()
	if err := h.Cars.Create(ctx, &car); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	return c.JSON(http.StatusCreated, car)
}

// UpdateCar overwrites a catalog entry.
func (h *AdminHandler) UpdateCar(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req adminCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	car := req.toModel()
	car.ID = id
	if err := h.Cars.Update(ctx, &car); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update car failed"})
	}
	return c.JSON(http.StatusOK, car)
}

// DeleteCar removes a catalog entry. Line items referencing it keep their
// row; expanded reads return them with a null car.
func (h *AdminHandler) DeleteCar(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car deleted"})
}

// CarGroups returns the distinct rental categories for the admin catalog
// forms.
func (h *AdminHandler) CarGroups(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	groups, err := h.Cars.DistinctGroups(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, groups)
}

// ----- reservations -----

// ListReservations returns every reservation with owner contact details.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.AdminList(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetReservation returns one reservation with owner contact details.
func (h *AdminHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Reservations.AdminGet(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateReservation overwrites the trip fields of any reservation. Line
// items and the draft flag stay under the customer flow only.
func (h *AdminHandler) UpdateReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req repository.AdminUpdateFields
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.AdminUpdate(ctx, id, req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
	}

	d, err := h.Reservations.AdminGet(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// ----- points -----

// ListPoints returns the loyalty points balance of every user.
func (h *AdminHandler) ListPoints(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Users.ListPoints(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, entries)
}
