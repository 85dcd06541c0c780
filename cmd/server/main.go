// Command server runs the car rental HTTP API.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-rental-reservation/internal/config"
	"github.com/iliyamo/car-rental-reservation/internal/database"
	"github.com/iliyamo/car-rental-reservation/internal/handler"
	"github.com/iliyamo/car-rental-reservation/internal/queue"
	"github.com/iliyamo/car-rental-reservation/internal/repository"
	"github.com/iliyamo/car-rental-reservation/internal/router"
	"github.com/iliyamo/car-rental-reservation/internal/service"
	"github.com/iliyamo/car-rental-reservation/internal/utils"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the auth rate limiter. A nil
	// client downgrades both middlewares to pass-through.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	cipher, err := utils.NewCardCipher(cfg.CryptoKey, cfg.CryptoIV)
	if err != nil {
		log.Fatalf("card cipher: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	carRepo := repository.NewCarRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	cardRepo := repository.NewCreditCardRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	engine := service.NewReservationEngine(reservationRepo, userRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	carHandler := handler.NewCarHandler(carRepo)
	reservationHandler := handler.NewReservationHandler(engine, reservationRepo)
	reviewHandler := handler.NewReviewHandler(reviewRepo, userRepo)
	couponHandler := handler.NewCouponHandler(couponRepo)
	cardHandler := handler.NewCreditCardHandler(cardRepo, cipher)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo, reservationRepo)
	statsHandler := handler.NewStatsHandler(statsRepo, carRepo)
	adminHandler := handler.NewAdminHandler(userRepo, carRepo, reservationRepo)

	e := echo.New()
	router.RegisterRoutes(e, carHandler, reviewHandler, statsHandler, cacheCfg, rdb)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterCustomer(e, reservationHandler, reviewHandler, couponHandler, cardHandler, invoiceHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// The finalized-reservation consumer runs for the life of the process
	// and reconnects on broker failures.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
