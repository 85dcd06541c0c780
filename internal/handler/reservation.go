package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/model"
	"github.com/iliyamo/car-rental-reservation/internal/queue"
	"github.com/iliyamo/car-rental-reservation/internal/repository"
	"github.com/iliyamo/car-rental-reservation/internal/service"
)

// ReservationHandler exposes the draft lifecycle over HTTP. All business
// rules live in the engine; the handler only binds requests, maps engine
// errors to status codes and publishes the finalized event.
type ReservationHandler struct {
	Engine       *service.ReservationEngine
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(engine *service.ReservationEngine, reservations *repository.ReservationRepo) *ReservationHandler {
	if engine == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, Reservations: reservations}
}

// ----- DTOs -----

type startDraftReq struct {
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	DriverName      string     `json:"driver_name"`
	DriverAge       uint32     `json:"driver_age"`
	PickupDateTime  *time.Time `json:"pickup_datetime"`
	DropoffDateTime *time.Time `json:"dropoff_datetime"`
}

type selectCarReq struct {
	ReservationID uint64 `json:"reservation_id"`
	CarID         uint64 `json:"car_id"`
	LineItemID    uint64 `json:"line_item_id"`
}

type lineItemReq struct {
	ID        uint64   `json:"id"`
	Extras    []string `json:"extras"`
	Insurance string   `json:"insurance"`
	Fuel      string   `json:"fuel"`
	GPS       bool     `json:"gps"`
}

type updateLineItemsReq struct {
	ReservationID uint64        `json:"reservation_id"`
	Cars          []lineItemReq `json:"cars"`
}

type finalizeReq struct {
	ReservationID uint64 `json:"reservation_id"`
}

// Create starts a new draft reservation with the supplied trip details.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req startDraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Engine.StartDraft(ctx, uid, service.TripDetails{
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		DriverName:      req.DriverName,
		DriverAge:       req.DriverAge,
		PickupDateTime:  req.PickupDateTime,
		DropoffDateTime: req.DropoffDateTime,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	return c.JSON(http.StatusCreated, res)
}

// SelectCar adds a car to, or removes a line item from, the caller's
// draft. The engine resolves which reservation is meant and may open a
// fresh draft when only a car id is given.
func (h *ReservationHandler) SelectCar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req selectCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Engine.SelectCar(ctx, uid, service.SelectCarInput{
		ReservationID: req.ReservationID,
		CarID:         req.CarID,
		LineItemID:    req.LineItemID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, service.ErrMinimumOneCar):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrMinimumOneCar.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateLineItems overwrites the option choices of the listed line items
// on the caller's draft.
func (h *ReservationHandler) UpdateLineItems(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateLineItemsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id required"})
	}

	items := make([]model.LineItem, 0, len(req.Cars))
	for _, in := range req.Cars {
		extras := in.Extras
		if extras == nil {
			extras = []string{}
		}
		items = append(items, model.LineItem{
			ID:        in.ID,
			Extras:    extras,
			Insurance: in.Insurance,
			Fuel:      in.Fuel,
			GPS:       in.GPS,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Engine.UpdateLineItems(ctx, uid, req.ReservationID, items)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "draft reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Finalize flips the draft flag off and publishes the finalized event.
// Publishing is best effort: a broker outage never fails the request.
func (h *ReservationHandler) Finalize(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req finalizeReq
	if err := c.Bind(&req); err != nil || req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Engine.Finalize(ctx, uid, req.ReservationID)
	if err != nil {
		if errors.Is(err, service.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "finalize reservation failed"})
	}

	carIDs := make([]uint64, 0, len(res.Cars))
	for _, item := range res.Cars {
		carIDs = append(carIDs, item.CarID)
	}
	_ = queue.PublishReservationFinalized(ctx, queue.ReservationFinalizedEvent{
		ReservationID:   res.ID,
		UserID:          res.UserID,
		PickupLocation:  res.PickupLocation,
		DropoffLocation: res.DropoffLocation,
		DriverName:      res.DriverName,
		CarIDs:          carIDs,
		CarCount:        len(carIDs),
		FinalizedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, res)
}

// ListMine returns all of the caller's reservations, newest first, with
// every line item's car expanded.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByUserExpanded(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}
