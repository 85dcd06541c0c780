package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/repository"
)

// CouponHandler validates and redeems discount codes. Coupons are single
// use: Use marks the code consumed with a guarded UPDATE so two
// concurrent redeems cannot both succeed.
type CouponHandler struct {
	Coupons *repository.CouponRepo
}

func NewCouponHandler(coupons *repository.CouponRepo) *CouponHandler {
	if coupons == nil {
		panic("nil repository passed to NewCouponHandler")
	}
	return &CouponHandler{Coupons: coupons}
}

// Get validates a coupon code without consuming it. Expired and
// already-used coupons are rejected with 400 so the client can show why
// the code did not apply.
func (h *CouponHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	coupon, err := h.Coupons.GetByCode(ctx, c.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coupon not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if coupon.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Coupon expired"})
	}
	if coupon.Used {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Coupon already used"})
	}
	return c.JSON(http.StatusOK, coupon)
}

// Use consumes a coupon code. The same validation as Get applies first,
// then the used flag flips exactly once.
func (h *CouponHandler) Use(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code := c.Param("code")
	coupon, err := h.Coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coupon not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if coupon.Expired(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Coupon expired"})
	}
	if coupon.Used {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Coupon already used"})
	}

	if err := h.Coupons.MarkUsed(ctx, code); err != nil {
		// Lost the race against another redeem of the same code.
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Coupon already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "redeem failed"})
	}
	coupon.Used = true
	return c.JSON(http.StatusOK, coupon)
}
