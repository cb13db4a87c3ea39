package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/api/handler"
	"github.com/sanosuguru/go-train-ticket-booking/internal/application"
	"github.com/sanosuguru/go-train-ticket-booking/internal/config"
	"github.com/sanosuguru/go-train-ticket-booking/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-train-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-train-ticket-booking/internal/server"
	"github.com/sanosuguru/go-train-ticket-booking/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	log := logger.Init(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	version, err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath)
	if err != nil {
		log.Fatal("マイグレーションエラー", zap.Error(err))
	}
	log.Info("マイグレーション適用済み", zap.Uint("version", version))

	redisClient := redisinfra.NewClient(&cfg.Redis)
	defer redisClient.Close()
	if err := redisinfra.Ping(ctx, redisClient); err != nil {
		// キャッシュと冪等キーは Redis なしでも縮退動作する
		log.Warn("Redisに接続できません", zap.Error(err))
	}

	m := metrics.Init()

	txManager := postgres.NewTxManager(db)
	tripRepo := postgres.NewTripRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	seatCache := redisinfra.NewSeatCache(redisClient)

	bookingService := application.NewBookingService(txManager, tripRepo, ticketRepo, seatCache, m)
	cancellationService := application.NewCancellationService(txManager, tripRepo, ticketRepo, seatCache, m)
	tripService := application.NewTripService(tripRepo, seatCache, m)
	ticketService := application.NewTicketService(ticketRepo)

	e := server.NewRouter(server.Handlers{
		Tickets: handler.NewTicketHandler(bookingService, cancellationService, ticketService),
		Trips:   handler.NewTripHandler(tripService, ticketService),
		Health: handler.NewHealthHandler(map[string]handler.Checker{
			"postgres": postgres.HealthCheck(db),
			"redis":    redisinfra.HealthCheck(redisClient),
		}),
	}, server.RouterOptions{
		Metrics:     m,
		MetricsAuth: cfg.Metrics,
		Idempotency: redisinfra.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL),
	})

	auditor := worker.NewSeatLedgerAuditor(tripService, cfg.Worker.AuditInterval)

	if err := server.New(e, cfg.Server, auditor).Run(ctx); err != nil {
		log.Fatal("サーバーエラー", zap.Error(err))
	}
	log.Info("サーバーが正常にシャットダウンしました")
}
