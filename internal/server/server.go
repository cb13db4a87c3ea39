package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-train-ticket-booking/internal/api"
	"github.com/sanosuguru/go-train-ticket-booking/internal/api/handler"
	"github.com/sanosuguru/go-train-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-train-ticket-booking/internal/config"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// Handlers はルーティングに登録するハンドラー群
type Handlers struct {
	Tickets *handler.TicketHandler
	Trips   *handler.TripHandler
	Health  *handler.HealthHandler
}

// RouterOptions はルーターの付帯設定
type RouterOptions struct {
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	MetricsAuth config.MetricsConfig
	// nil の場合は Idempotency-Key を無視する
	Idempotency middleware.IdempotencyStore
}

// NewRouter はAPIルーティングを設定した Echo を返す
func NewRouter(h Handlers, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, opts.Metrics)

	e.GET("/health", h.Health.Check)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics",
		echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(opts.MetricsAuth),
	)

	v1 := e.Group("/api/v1")

	purchase := []echo.MiddlewareFunc{}
	if opts.Idempotency != nil {
		purchase = append(purchase, middleware.Idempotency(opts.Idempotency))
	}
	v1.POST("/tickets", h.Tickets.Purchase, purchase...)
	v1.GET("/tickets/:id", h.Tickets.GetByID)
	v1.POST("/tickets/:id/cancel", h.Tickets.Cancel)

	v1.GET("/trips", h.Trips.Search)
	v1.GET("/trips/:id/availability", h.Trips.Availability)
	v1.GET("/trips/:id/tickets", h.Trips.ListTickets)

	return e
}

// BackgroundWorker は ctx がキャンセルされるまでブロックするワーカー
type BackgroundWorker interface {
	Start(ctx context.Context)
}

// Server はHTTPサーバーとバックグラウンドワーカーをまとめて起動する
type Server struct {
	echo    *echo.Echo
	cfg     config.ServerConfig
	workers []BackgroundWorker
}

func New(e *echo.Echo, cfg config.ServerConfig, workers ...BackgroundWorker) *Server {
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout
	return &Server{echo: e, cfg: cfg, workers: workers}
}

// Run は ctx がキャンセルされるまでサーバーを動かし、終了時にグレースフルシャットダウンする
func (s *Server) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	for _, w := range s.workers {
		g.Go(func() error {
			w.Start(runCtx)
			return nil
		})
	}

	g.Go(func() error {
		addr := ":" + s.cfg.Port
		logger.Info("HTTPサーバー起動", zap.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPサーバー起動エラー: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()
		logger.Info("サーバーをシャットダウンしています...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
		}
		return nil
	})

	return g.Wait()
}
