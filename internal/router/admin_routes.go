package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/handler"
	"github.com/iliyamo/car-rental-reservation/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Users ----
	g.GET("/users", a.ListUsers)
	g.GET("/users/:id", a.GetUser)
	g.PUT("/users/:id", a.UpdateUser)
	g.DELETE("/users/:id", a.DeleteUser)

	// ---- Cars ----
	g.POST("/cars", a.CreateCar)
	g.PUT("/cars/:id", a.UpdateCar)
	g.DELETE("/cars/:id", a.DeleteCar)
	g.GET("/car-groups", a.CarGroups)

	// ---- Reservations ----
	g.GET("/reservations", a.ListReservations)
	g.GET("/reservations/:id", a.GetReservation)
	g.PUT("/reservations/:id", a.UpdateReservation)

	// ---- Points ----
	g.GET("/points", a.ListPoints)
}
