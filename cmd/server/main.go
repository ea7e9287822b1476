package main

import (
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/cineplaza/cinema-booking/internal/config"
    "github.com/cineplaza/cinema-booking/internal/database"
    "github.com/cineplaza/cinema-booking/internal/handler"
    appmw "github.com/cineplaza/cinema-booking/internal/middleware"
    "github.com/cineplaza/cinema-booking/internal/queue"
    "github.com/cineplaza/cinema-booking/internal/repository"
    "github.com/cineplaza/cinema-booking/internal/router"
    "github.com/cineplaza/cinema-booking/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments set the vars

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer func() { _ = db.Close() }()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable: response cache and rate limiting disabled")
    }

    locks := repository.NewSeatLockRepo(db)
    bookings := repository.NewBookingRepo(db)
    showtimes := repository.NewShowtimeRepo(db)
    rooms := repository.NewRoomRepo(db)
    movies := repository.NewMovieRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    engine := service.NewReservationEngine(locks, bookings, showtimes, rooms, service.NewRabbitPublisher())
    engine.SetHoldTTL(time.Duration(cfg.HoldTTLSec) * time.Second)

    // Background consumer mirrors confirmed bookings to logs/booking.log.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking-consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    var cacheMW echo.MiddlewareFunc
    if rdb != nil {
        cacheMW = appmw.NewRedisCache(config.LoadCacheConfig(), rdb)
    }
    limiter := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterPublic(e, handler.NewBrowseHandler(movies, showtimes, engine), cacheMW)
    router.RegisterBooking(e, handler.NewBookingHandler(engine, bookings), cfg.JWTSecret, limiter)
    router.RegisterAuth(e, handler.NewAuthHandler(users, tokens, engine, cfg), cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
