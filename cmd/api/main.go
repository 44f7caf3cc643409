package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-cinema-ticket-booking/internal/api"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/api/handler"
	custommw "github.com/sanosuguru/go-cinema-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/application"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/config"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-cinema-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-cinema-ticket-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Get()
	defer logger.Sync()

	// PostgreSQL 接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatal("データベース接続に失敗", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション実行
	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := postgres.RunMigrations(db.DB, migrationsPath); err != nil {
		log.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	// Redis 接続
	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()
	if err := redisinfra.Ping(context.Background(), redisClient); err != nil {
		log.Fatal("Redis接続に失敗", zap.Error(err))
	}

	// メトリクス
	m := metrics.Init()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	showRepo := postgres.NewShowRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	// インフラサービス
	lockManager := redisinfra.NewLockManager(redisClient)
	availabilityCache := redisinfra.NewAvailabilityCache(redisClient)

	// アプリケーションサービス
	lifecycle := application.NewLifecycle()
	availability := application.NewAvailabilityChecker(ledgerRepo, bookingRepo, availabilityCache)
	seatLocks := application.NewSeatLockManager(txManager, ledgerRepo, bookingRepo, showRepo, lifecycle, m)
	snapshots := application.NewSnapshotBuilder(catalogRepo)

	bookingService := application.NewBookingService(application.BookingServiceConfig{
		TxManager:    txManager,
		BookingRepo:  bookingRepo,
		ShowRepo:     showRepo,
		Availability: availability,
		SeatLocks:    seatLocks,
		Snapshots:    snapshots,
		Lifecycle:    lifecycle,
		LockManager:  lockManager,
		Cache:        availabilityCache,
		Metrics:      m,
		HoldTTL:      cfg.Booking.HoldTTL,
		Currency:     cfg.Booking.Currency,
	})
	showService := application.NewShowService(txManager, showRepo, ledgerRepo, catalogRepo, availabilityCache)
	ledgerService := application.NewLedgerService(ledgerRepo, availability)

	// 期限切れ予約クリーナー
	cleanerCtx, cleanerCancel := context.WithCancel(context.Background())
	defer cleanerCancel()
	cleaner := worker.NewExpiredBookingCleaner(bookingService, cfg.Booking.CleanerInterval)
	go cleaner.Start(cleanerCtx)

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommw.SetupMiddleware(e)
	e.Use(custommw.PrometheusMiddleware(m))

	// ハンドラー
	healthHandler := handler.NewHealthHandler()
	showHandler := handler.NewShowHandler(showService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	bookingHandler := handler.NewBookingHandler(bookingService)

	// ルーティング
	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)

	v1.POST("/shows", showHandler.Schedule)
	v1.GET("/shows", showHandler.List)
	v1.GET("/shows/:id", showHandler.GetByID)
	v1.POST("/shows/:id/close", showHandler.Close)
	v1.DELETE("/shows/:id", showHandler.Delete)

	v1.GET("/shows/:id/seating", ledgerHandler.GetByShow)
	v1.GET("/shows/:id/seating/count", ledgerHandler.CountSeats)
	v1.GET("/seating/:id", ledgerHandler.GetEntry)

	v1.POST("/bookings", bookingHandler.Checkout)
	v1.GET("/bookings", bookingHandler.GetUserBookings)
	v1.GET("/bookings/:id", bookingHandler.GetByID)
	v1.POST("/bookings/:id/pay", bookingHandler.Pay)
	v1.POST("/bookings/:id/cancel", bookingHandler.Cancel)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommw.MetricsBasicAuth())

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("サーバーをシャットダウンしています")

	cleanerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
