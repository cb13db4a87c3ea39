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

// CancellationService はチケットの座席を取り消して便に戻す
type CancellationService struct {
	txManager  transaction.Manager
	tripRepo   trip.Repository
	ticketRepo ticket.Repository
	cache      SeatCache
	metrics    *metrics.Metrics
}

// NewCancellationService は CancellationService を作成する。cache と m は nil でもよい
func NewCancellationService(txm transaction.Manager, tr trip.Repository, tk ticket.Repository, cache SeatCache, m *metrics.Metrics) *CancellationService {
	return &CancellationService{txManager: txm, tripRepo: tr, ticketRepo: tk, cache: cache, metrics: m}
}

// CancelInput の便指定（Origin 以降）は照合用で、空の場合は照合しない
type CancelInput struct {
	TicketID      int64
	Origin        string
	Destination   string
	Date          time.Time
	DepartureTime trip.TimeOfDay
	Quantity      int
}

func (in CancelInput) Validate() error {
	if in.TicketID <= 0 {
		return ticket.ErrInvalidTicketID
	}
	if in.Quantity <= 0 {
		return ticket.ErrInvalidQuantity
	}
	return nil
}

func (in CancelInput) hasTripReference() bool {
	return in.Origin != "" || in.Destination != "" || !in.Date.IsZero()
}

func (in CancelInput) criteria() trip.SearchCriteria {
	return trip.SearchCriteria{
		Origin: in.Origin, Destination: in.Destination,
		Date: in.Date, DepartureTime: in.DepartureTime,
	}
}

// CancelResult は取消の結果
type CancelResult struct {
	TicketID          int64
	TripID            int64
	CancelledQuantity int
	RemainingQuantity int
	TicketDeleted     bool
	RefundAmount      int
	FreeSeats         int
	TripMismatch      bool
}

// Cancel はチケットから quantity 席を取り消し、同数の空席を便に戻す。
// 全席取り消した場合はチケットを削除する。
func (s *CancellationService) Cancel(ctx context.Context, in CancelInput) (*CancelResult, error) {
	log := logger.FromContext(ctx).With(
		zap.Int64("ticket_id", in.TicketID),
		zap.Int("quantity", in.Quantity),
	)

	if err := in.Validate(); err != nil {
		s.observe(err, 0)
		return nil, err
	}

	var result *CancelResult
	err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		tk, err := s.ticketRepo.FindByID(ctx, tx, in.TicketID)
		if err != nil {
			return passOrStorageFailure("チケット取得", err, ticket.ErrTicketNotFound)
		}
		if err := tk.CanCancel(in.Quantity); err != nil {
			return err
		}
		if tk.IsTripDeparted() {
			return trip.ErrTripAlreadyDeparted
		}

		// チケットの便が正。指定された便と異なる場合は記録のみ
		mismatch := in.hasTripReference() && tk.Trip != nil && !tk.Trip.Matches(in.criteria())
		if mismatch {
			log.Warn("指定された便とチケットの便が一致しません",
				zap.Int64("trip_id", tk.TripID),
				zap.String("origin", in.Origin),
				zap.String("destination", in.Destination),
			)
		}

		freeSeats, err := s.tripRepo.ReleaseSeats(ctx, tx, tk.TripID, in.Quantity)
		if err != nil {
			return transaction.StorageFailure("座席解放", err)
		}
		deleted, err := s.ticketRepo.ReduceOrDelete(ctx, tx, tk.ID, in.Quantity)
		if err != nil {
			return transaction.StorageFailure("チケット更新", err)
		}

		result = &CancelResult{
			TicketID:          tk.ID,
			TripID:            tk.TripID,
			CancelledQuantity: in.Quantity,
			RemainingQuantity: tk.Quantity - in.Quantity,
			TicketDeleted:     deleted,
			RefundAmount:      tk.UnitPrice() * in.Quantity,
			FreeSeats:         freeSeats,
			TripMismatch:      mismatch,
		}
		return nil
	})
	if err != nil {
		s.observe(err, 0)
		if IsBusinessError(err) {
			log.Info("チケット取消不可", zap.Error(err))
		} else {
			log.Error("チケット取消に失敗", zap.Error(err))
		}
		return nil, err
	}

	s.observe(nil, result.CancelledQuantity)
	invalidateFreeSeats(ctx, s.cache, result.TripID)
	log.Info("チケット取消完了",
		zap.Int64("trip_id", result.TripID),
		zap.Int("remaining", result.RemainingQuantity),
		zap.Bool("deleted", result.TicketDeleted),
	)
	return result, nil
}

func (s *CancellationService) observe(err error, released int) {
	if s.metrics == nil {
		return
	}
	s.metrics.CancellationsTotal.WithLabelValues(statusLabel(err)).Inc()
	if released > 0 {
		s.metrics.SeatsReleasedTotal.Add(float64(released))
	}
}
