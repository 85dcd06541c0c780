package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/handler"
	"github.com/iliyamo/car-rental-reservation/internal/middleware"
)

// RegisterCustomer registers the authenticated customer endpoints under
// /v1. Admins pass too; every route only touches the caller's own data.
func RegisterCustomer(
	e *echo.Echo,
	reservations *handler.ReservationHandler,
	reviews *handler.ReviewHandler,
	coupons *handler.CouponHandler,
	cards *handler.CreditCardHandler,
	invoices *handler.InvoiceHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)

	// ---- Reservations ----
	g.POST("/reservations", reservations.Create)
	g.PUT("/reservations/selectCar", reservations.SelectCar)
	g.PUT("/reservations/updateLineItems", reservations.UpdateLineItems)
	g.PUT("/reservations/finalize", reservations.Finalize)
	g.GET("/reservations/me", reservations.ListMine)

	// ---- Reviews ----
	g.POST("/reviews", reviews.Create)

	// ---- Coupons ----
	g.GET("/coupons/:code", coupons.Get)
	g.PUT("/coupons/use/:code", coupons.Use)

	// ---- Credit cards ----
	g.POST("/credit-cards", cards.Create)
	g.GET("/credit-cards/me", cards.Mine)

	// ---- Invoices ----
	g.POST("/invoices", invoices.Create)
	g.GET("/my-invoices", invoices.Mine)
	g.PUT("/invoices/:id/status", invoices.UpdateStatus)
}
