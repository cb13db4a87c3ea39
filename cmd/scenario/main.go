// scenario は検証用データを投入し、購入と取消の代表的なケースを順に実行して結果を OK/MAL で出力する
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/application"
	"github.com/sanosuguru/go-train-ticket-booking/internal/config"
	"github.com/sanosuguru/go-train-ticket-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
)

func main() {
	reset := flag.Bool("reset", true, "実行前に検証用データを投入し直す")
	flag.Parse()

	cfg := config.MustLoad()
	log := logger.Init(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	if _, err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("マイグレーションエラー", zap.Error(err))
	}
	if *reset {
		if err := resetFixtures(ctx, db); err != nil {
			log.Fatal("検証データ投入エラー", zap.Error(err))
		}
	}

	txManager := postgres.NewTxManager(db)
	tripRepo := postgres.NewTripRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)

	r := &runner{
		booking:      application.NewBookingService(txManager, tripRepo, ticketRepo, nil, nil),
		cancellation: application.NewCancellationService(txManager, tripRepo, ticketRepo, nil, nil),
		tickets:      application.NewTicketService(ticketRepo),
		audit:        application.NewTripService(tripRepo, nil, nil),
		log:          log,
	}

	failed := r.run(ctx)
	log.Info("シナリオ終了", zap.Int("failed", failed))
	if failed > 0 {
		_ = logger.Sync()
		db.Close()
		os.Exit(1)
	}
}
