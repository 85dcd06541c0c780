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

// InvoiceHandler manages the caller's invoices. Status transitions are
// owner-scoped; an invoice id belonging to another user behaves as
// missing.
type InvoiceHandler struct {
	Invoices     *repository.InvoiceRepo
	Reservations *repository.ReservationRepo
}

func NewInvoiceHandler(invoices *repository.InvoiceRepo, reservations *repository.ReservationRepo) *InvoiceHandler {
	if invoices == nil || reservations == nil {
		panic("nil repository passed to NewInvoiceHandler")
	}
	return &InvoiceHandler{Invoices: invoices, Reservations: reservations}
}

type createInvoiceReq struct {
	ReservationID uint64  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
}

type updateInvoiceReq struct {
	Status string `json:"status"`
}

// Create issues an invoice for one of the caller's reservations. New
// invoices start incomplete.
func (h *InvoiceHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createInvoiceReq
	if err := c.Bind(&req); err != nil || req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id required"})
	}
	if req.Amount < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Reservations.GetByIDForUser(ctx, req.ReservationID, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	inv := model.Invoice{
		UserID:        uid,
		ReservationID: req.ReservationID,
		Amount:        req.Amount,
		Status:        model.InvoiceStatusIncomplete,
	}
	if err := h.Invoices.Create(ctx, &inv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create invoice failed"})
	}
	return c.JSON(http.StatusCreated, inv)
}

// Mine lists the caller's invoices, newest first.
func (h *InvoiceHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Invoices.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// UpdateStatus moves one of the caller's invoices between incomplete,
// complete and cancelled.
func (h *InvoiceHandler) UpdateStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invoice id"})
	}
	var req updateInvoiceReq
	if err := c.Bind(&req); err != nil || !model.ValidInvoiceStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inv, err := h.Invoices.UpdateStatus(ctx, id, uid, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update invoice failed"})
	}
	return c.JSON(http.StatusOK, inv)
}
