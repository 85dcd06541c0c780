package model

import "time"

// Car is a catalog entry in the `cars` table. Catalog data is reference
// data: it is written only through the admin endpoints and read by
// everyone else. The column is named car_group because GROUP is a
// reserved word in SQL.
//
// Fields:
//
//	ID              - primary key identifier.
//	Brand           - manufacturer name.
//	Model           - model name.
//	Group           - rental category (SUV, Electric, Economy, ...).
//	EngineSize      - engine displacement in cc (0 for electric).
//	Doors           - number of doors.
//	Passengers      - passenger capacity.
//	FuelType        - Gasoline, Diesel, Electric, ...
//	Gearbox         - Manual or Automatic.
//	HasAC           - whether the car has air conditioning.
//	ElectricWindows - whether the car has electric windows.
//	Image           - URL of the promo image.
//	DailyPrice      - rental price per day.
type Car struct {
	ID              uint64    `json:"id"`               // cars.id
	Brand           string    `json:"brand"`            // cars.brand
	Model           string    `json:"model"`            // cars.model
	Group           string    `json:"group"`            // cars.car_group
	EngineSize      uint32    `json:"engine_size"`      // cars.engine_size
	Doors           uint32    `json:"doors"`            // cars.doors
	Passengers      uint32    `json:"passengers"`       // cars.passengers
	FuelType        string    `json:"fuel_type"`        // cars.fuel_type
	Gearbox         string    `json:"gearbox"`          // cars.gearbox
	HasAC           bool      `json:"has_ac"`           // cars.has_ac
	ElectricWindows bool      `json:"electric_windows"` // cars.electric_windows
	Image           string    `json:"image"`            // cars.image
	DailyPrice      float64   `json:"daily_price"`      // cars.daily_price
	CreatedAt       time.Time `json:"created_at"`       // cars.created_at
	UpdatedAt       time.Time `json:"updated_at"`       // cars.updated_at
}
