// Command server runs the restaurant ordering API.
package main

import (
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"qrmenu-backend/internal/businessday"
	"qrmenu-backend/internal/config"
	"qrmenu-backend/internal/database"
	"qrmenu-backend/internal/handler"
	"qrmenu-backend/internal/logger"
	"qrmenu-backend/internal/media"
	"qrmenu-backend/internal/queue"
	"qrmenu-backend/internal/repository"
	"qrmenu-backend/internal/router"
	"qrmenu-backend/internal/service"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.L()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	menu := repository.NewMenuRepo(db)
	tables := repository.NewTableRepo(db)
	orders := repository.NewOrderRepo(db)
	reservations := repository.NewReservationRepo(db)
	discounts := repository.NewDiscountRepo(db)

	days := businessday.New(cfg.TZOffsetHours)
	publisher := service.NewAMQPPublisher()
	orderSvc := service.NewOrderService(orders, tables, menu, days, publisher)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := &handler.PublicHandler{
		Categories: categories, Menu: menu, Tables: tables,
		Discounts: discounts, Days: days, DefaultCutoff: cfg.DiscountCutoff,
	}
	publicOrderH := &handler.PublicOrderHandler{Svc: orderSvc, Orders: orders, Tables: tables}
	staffOrderH := &handler.StaffOrderHandler{Svc: orderSvc, Orders: orders, Days: days}
	staffTableH := &handler.StaffTableHandler{Tables: tables}
	reservationH := &handler.ReservationHandler{Reservations: reservations}
	categoryH := &handler.AdminCategoryHandler{Categories: categories}
	menuH := &handler.AdminMenuHandler{Menu: menu, Images: media.NewClient(cfg.MediaHostKey)}
	tableH := &handler.AdminTableHandler{Tables: tables}
	discountH := &handler.AdminDiscountHandler{Discounts: discounts, DefaultCutoff: cfg.DiscountCutoff}
	purgeH := &handler.AdminPurgeHandler{Reservations: reservations, Orders: orders}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, publicOrderH, rdb,
		config.LoadCacheConfig(), config.LoadRateLimitConfig())
	router.RegisterStaff(e, cfg.JWTSecret, staffOrderH, staffTableH, reservationH)
	router.RegisterAdmin(e, cfg.JWTSecret, authH, categoryH, menuH, tableH, discountH, purgeH)

	// The kitchen display consumer lives in-process for now; it reconnects
	// on broker failure and never takes the API down with it.
	go queue.StartKitchenConsumer(service.BrokerURL())

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
