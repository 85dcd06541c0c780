// Command seed fills an empty database with demo catalog data, a few
// discount coupons and an admin account so the API is usable right after
// schema.sql has been applied. Running it twice duplicates cars; it is
// meant for fresh databases only.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/car-rental-reservation/internal/config"
	"github.com/iliyamo/car-rental-reservation/internal/database"
	"github.com/iliyamo/car-rental-reservation/internal/model"
	"github.com/iliyamo/car-rental-reservation/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	cars := repository.NewCarRepo(db)

	if _, err := users.Create(ctx, "admin", "admin@rental.local", "", "admin1234", true, cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			log.Println("admin account already present, skipping")
		} else {
			log.Fatalf("seed admin: %v", err)
		}
	}

	demo := []model.Car{
		{Brand: "Toyota", Model: "Corolla", Group: "Economy", EngineSize: 1600, Doors: 4, Passengers: 5, FuelType: "Gasoline", Gearbox: "Automatic", HasAC: true, ElectricWindows: true, DailyPrice: 39.90},
		{Brand: "Volkswagen", Model: "Golf", Group: "Compact", EngineSize: 1400, Doors: 4, Passengers: 5, FuelType: "Gasoline", Gearbox: "Manual", HasAC: true, ElectricWindows: true, DailyPrice: 44.50},
		{Brand: "Tesla", Model: "Model 3", Group: "Electric", EngineSize: 0, Doors: 4, Passengers: 5, FuelType: "Electric", Gearbox: "Automatic", HasAC: true, ElectricWindows: true, DailyPrice: 89.00},
		{Brand: "BMW", Model: "X5", Group: "SUV", EngineSize: 3000, Doors: 5, Passengers: 5, FuelType: "Diesel", Gearbox: "Automatic", HasAC: true, ElectricWindows: true, DailyPrice: 120.00},
		{Brand: "Fiat", Model: "500", Group: "Mini", EngineSize: 900, Doors: 2, Passengers: 4, FuelType: "Gasoline", Gearbox: "Manual", HasAC: true, ElectricWindows: false, DailyPrice: 29.90},
		{Brand: "Mercedes-Benz", Model: "E-Class", Group: "Luxury", EngineSize: 2000, Doors: 4, Passengers: 5, FuelType: "Diesel", Gearbox: "Automatic", HasAC: true, ElectricWindows: true, DailyPrice: 140.00},
	}
	for i := range demo {
		if err := cars.Create(ctx, &demo[i]); err != nil {
			log.Fatalf("seed car %s %s: %v", demo[i].Brand, demo[i].Model, err)
		}
	}

	coupons := []struct {
		code     string
		discount uint32
		days     int
	}{
		{"WELCOME10", 10, 90},
		{"SUMMER25", 25, 30},
		{"VIP50", 50, 365},
	}
	for _, cp := range coupons {
		expires := time.Now().UTC().AddDate(0, 0, cp.days)
		if _, err := db.ExecContext(ctx,
			"INSERT INTO coupons (code, discount_percentage, expires_at, used) VALUES (?,?,?,0)",
			cp.code, cp.discount, expires); err != nil {
			log.Printf("seed coupon %s: %v (skipping)", cp.code, err)
		}
	}

	log.Printf("seeded %d cars and %d coupons", len(demo), len(coupons))
}
