package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/vuxducgiang/restaurant-pos/internal/config"
	"github.com/vuxducgiang/restaurant-pos/internal/database"
	"github.com/vuxducgiang/restaurant-pos/internal/handler"
	"github.com/vuxducgiang/restaurant-pos/internal/middleware"
	"github.com/vuxducgiang/restaurant-pos/internal/queue"
	"github.com/vuxducgiang/restaurant-pos/internal/router"
	"github.com/vuxducgiang/restaurant-pos/internal/service"
	"github.com/vuxducgiang/restaurant-pos/internal/store/mysql"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	st := mysql.NewStore(db)

	publisher := queue.NewPublisher(cfg.RabbitURL)
	go queue.StartKitchenConsumer(cfg.RabbitURL)

	orders := service.NewOrderService(st, publisher, cfg.TableLockWait)
	rooms := service.NewRoomTableService(st, cfg.RoomLimits)
	reservations := service.NewReservationService(st)
	auth := service.NewAuthService(st, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost)

	// Redis is optional: without it both middlewares pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, router.Handlers{
		Auth:          handler.NewAuthHandler(auth),
		Cashier:       handler.NewCashierHandler(orders),
		RoomTable:     handler.NewRoomTableHandler(rooms),
		Reservation:   handler.NewReservationHandler(reservations),
		JWTSecret:     cfg.JWTSecret,
		RateLimiter:   middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		ResponseCache: middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
