package model

import "time"

// LineItem is one car selection inside a reservation, stored in the
// `reservation_cars` table. Every line item has its own identity separate
// from the reservation so that individual selections can be removed or
// updated. Extras are persisted as a JSON array in a TEXT column.
//
// Fields:
//
//	ID            - primary key identifier of the line item.
//	ReservationID - owning reservation.
//	CarID         - the selected car.
//	Extras        - free-form extra options chosen for this car.
//	Insurance     - insurance choice ("" when not picked yet).
//	Fuel          - fuel plan choice ("" when not picked yet).
//	GPS           - whether a GPS unit was added.
//	Car           - expanded car data, populated only on read paths that
//	                join the catalog.
type LineItem struct {
	ID            uint64    `json:"id"`             // reservation_cars.id
	ReservationID uint64    `json:"reservation_id"` // reservation_cars.reservation_id
	CarID         uint64    `json:"car_id"`         // reservation_cars.car_id
	Extras        []string  `json:"extras"`         // reservation_cars.extras (JSON)
	Insurance     string    `json:"insurance"`      // reservation_cars.insurance
	Fuel          string    `json:"fuel"`           // reservation_cars.fuel
	GPS           bool      `json:"gps"`            // reservation_cars.gps
	CreatedAt     time.Time `json:"created_at"`     // reservation_cars.created_at
	Car           *Car      `json:"car,omitempty"`  // joined cars row, nil unless expanded
}

// Reservation is a row in the `reservations` table plus its ordered line
// items. IsSaved marks the draft state: a reservation starts as an
// editable draft (is_saved = 1) and is flipped to 0 when finalized.
// Finalize is idempotent and nothing blocks further mutation of a
// finalized reservation; the draft flag only controls which reservation
// the implicit draft lookup resolves.
//
// Fields:
//
//	ID              - primary key identifier.
//	UserID          - owner of the reservation.
//	PickupLocation  - where the cars are picked up.
//	DropoffLocation - where the cars are returned.
//	DriverName      - main driver's name.
//	DriverAge       - main driver's age.
//	PickupDateTime  - start of the rental period (nil until chosen).
//	DropoffDateTime - end of the rental period (nil until chosen).
//	TotalPrice      - quoted total for the whole reservation.
//	IsSaved         - true while the reservation is an editable draft.
//	Cars            - the line items, oldest first.
type Reservation struct {
	ID              uint64     `json:"id"`               // reservations.id
	UserID          uint64     `json:"user_id"`          // reservations.user_id
	PickupLocation  string     `json:"pickup_location"`  // reservations.pickup_location
	DropoffLocation string     `json:"dropoff_location"` // reservations.dropoff_location
	DriverName      string     `json:"driver_name"`      // reservations.driver_name
	DriverAge       uint32     `json:"driver_age"`       // reservations.driver_age
	PickupDateTime  *time.Time `json:"pickup_datetime"`  // reservations.pickup_datetime (nullable)
	DropoffDateTime *time.Time `json:"dropoff_datetime"` // reservations.dropoff_datetime (nullable)
	TotalPrice      float64    `json:"total_price"`      // reservations.total_price
	IsSaved         bool       `json:"is_saved"`         // reservations.is_saved
	CreatedAt       time.Time  `json:"created_at"`       // reservations.created_at
	UpdatedAt       time.Time  `json:"updated_at"`       // reservations.updated_at
	Cars            []LineItem `json:"cars"`             // reservation_cars rows
}
