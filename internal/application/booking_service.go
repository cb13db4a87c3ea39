package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/metrics"
)

// BookingService は便の座席を確保してチケットを発行する
type BookingService struct {
	txManager  transaction.Manager
	tripRepo   trip.Repository
	ticketRepo ticket.Repository
	cache      SeatCache
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewBookingService は BookingService を作成する。cache と m は nil でもよい
func NewBookingService(txm transaction.Manager, tr trip.Repository, tk ticket.Repository, cache SeatCache, m *metrics.Metrics) *BookingService {
	return &BookingService{
		txManager: txm, tripRepo: tr, ticketRepo: tk,
		cache: cache, metrics: m, now: time.Now,
	}
}

type PurchaseInput struct {
	Origin        string
	Destination   string
	Date          time.Time
	DepartureTime trip.TimeOfDay
	Quantity      int
}

func (in PurchaseInput) criteria() trip.SearchCriteria {
	return trip.SearchCriteria{
		Origin: in.Origin, Destination: in.Destination,
		Date: in.Date, DepartureTime: in.DepartureTime,
	}
}

func (in PurchaseInput) Validate() error {
	if in.Quantity <= 0 {
		return trip.ErrInvalidQuantity
	}
	return in.criteria().Validate()
}

// Purchase は条件に一致する便から quantity 席を確保し、チケットを作成する。
// 便がない・運行済みなら ErrTripNotFound、空席不足なら ErrNoAvailableSeats、
// それ以外の失敗は ErrStorageFailure を返す。いずれの失敗でも状態は変わらない。
func (s *BookingService) Purchase(ctx context.Context, in PurchaseInput) (*ticket.Ticket, error) {
	log := logger.FromContext(ctx).With(
		zap.String("origin", in.Origin),
		zap.String("destination", in.Destination),
		zap.String("date", in.Date.Format(time.DateOnly)),
		zap.Stringer("departure_time", in.DepartureTime),
		zap.Int("quantity", in.Quantity),
	)

	if err := in.Validate(); err != nil {
		s.observe(err)
		return nil, err
	}

	var issued *ticket.Ticket
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		tr, err := s.tripRepo.FindTrip(ctx, tx, in.criteria())
		if err != nil {
			return passOrStorageFailure("便検索", err, trip.ErrTripNotFound)
		}
		// 運行済みの便は予約対象外
		if !tr.IsBookable() {
			return trip.ErrTripNotFound
		}

		remaining, err := s.tripRepo.ReserveSeats(ctx, tx, tr.ID, in.Quantity)
		if err != nil {
			return passOrStorageFailure("座席確保", err, trip.ErrNoAvailableSeats)
		}
		tr.FreeSeats = remaining

		tk := ticket.NewTicket(tr, in.Quantity, s.now())
		if err := s.ticketRepo.Create(ctx, tx, tk); err != nil {
			return transaction.StorageFailure("チケット作成", err)
		}
		issued = tk
		return nil
	})
	s.observe(err)
	if err != nil {
		if IsBusinessError(err) {
			log.Info("チケット購入不可", zap.Error(err))
		} else {
			log.Error("チケット購入に失敗", zap.Error(err))
		}
		return nil, err
	}

	invalidateFreeSeats(ctx, s.cache, issued.TripID)
	log.Info("チケット購入完了",
		zap.Int64("ticket_id", issued.ID),
		zap.Int64("trip_id", issued.TripID),
		zap.Int("total_price", issued.TotalPrice),
	)
	return issued, nil
}

func (s *BookingService) observe(err error) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(statusLabel(err)).Inc()
	}
}
