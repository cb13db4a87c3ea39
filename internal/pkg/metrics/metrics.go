package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 購入・取消結果のラベル値
const (
	StatusSuccess        = "success"
	StatusTripNotFound   = "trip_not_found"
	StatusNoSeats        = "no_available_seats"
	StatusTicketNotFound = "ticket_not_found"
	StatusExceeds        = "exceeds_reserved_quantity"
	StatusDeparted       = "trip_already_departed"
	StatusInvalid        = "invalid"
	StatusError          = "error"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 購入の総数（status）
	BookingsTotal *prometheus.CounterVec

	// 取消の総数（status）
	CancellationsTotal *prometheus.CounterVec

	// 取消で空席に戻した座席数
	SeatsReleasedTotal prometheus.Counter

	// 直近の監査で見つかった座席台帳の不整合便数
	SeatLedgerMismatches prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of ticket purchase attempts",
			},
			[]string{"status"},
		),
		CancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cancellations_total",
				Help: "Total number of ticket cancellation attempts",
			},
			[]string{"status"},
		),
		SeatsReleasedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seats_released_total",
				Help: "Total number of seats returned to trips by cancellations",
			},
		),
		SeatLedgerMismatches: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "seat_ledger_mismatches",
				Help: "Number of trips whose free seats plus ticketed seats differ from capacity",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.CancellationsTotal,
		m.SeatsReleasedTotal,
		m.SeatLedgerMismatches,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す（未初期化なら nil）
func Get() *Metrics {
	return defaultMetrics
}
