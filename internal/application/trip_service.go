package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/domain/trip"
	redisinfra "github.com/sanosuguru/go-train-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/metrics"
)

// TripService は便の参照と座席台帳の監査を行う
type TripService struct {
	tripRepo trip.Repository
	cache    SeatCache
	metrics  *metrics.Metrics
}

func NewTripService(tr trip.Repository, cache SeatCache, m *metrics.Metrics) *TripService {
	return &TripService{tripRepo: tr, cache: cache, metrics: m}
}

// SearchTrip は条件に一致する便を返す（ロックなし）
func (s *TripService) SearchTrip(ctx context.Context, criteria trip.SearchCriteria) (*trip.Trip, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	t, err := s.tripRepo.SearchTrip(ctx, criteria)
	if err != nil {
		return nil, passOrStorageFailure("便検索", err, trip.ErrTripNotFound)
	}
	return t, nil
}

// Availability は便の空席状況
type Availability struct {
	TripID    int64
	FreeSeats int
	Cached    bool
}

// GetAvailability は便の空席数を返す。キャッシュになければDBから読んで保存する
func (s *TripService) GetAvailability(ctx context.Context, tripID int64) (*Availability, error) {
	log := logger.FromContext(ctx)

	if s.cache != nil {
		count, err := s.cache.GetFreeSeats(ctx, tripID)
		if err == nil {
			log.Debug("キャッシュヒット", zap.Int64("trip_id", tripID), zap.Int("free_seats", count))
			return &Availability{TripID: tripID, FreeSeats: count, Cached: true}, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			log.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	// 読み取り中にコミットされた購入・取消の古い値を書き戻さないよう、DBより先に世代を取る
	var gen int64
	cacheable := s.cache != nil
	if cacheable {
		var err error
		if gen, err = s.cache.Generation(ctx, tripID); err != nil {
			log.Warn("キャッシュ世代取得エラー", zap.Error(err))
			cacheable = false
		}
	}

	t, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, passOrStorageFailure("便取得", err, trip.ErrTripNotFound)
	}

	if cacheable {
		stored, err := s.cache.SetFreeSeats(ctx, tripID, gen, t.FreeSeats, freeSeatsCacheTTL)
		switch {
		case err != nil:
			log.Warn("キャッシュ保存エラー", zap.Error(err))
		case !stored:
			log.Debug("無効化済みのためキャッシュ保存を省略", zap.Int64("trip_id", tripID))
		}
	}
	return &Availability{TripID: tripID, FreeSeats: t.FreeSeats}, nil
}

// AuditSeatLedger は空席数と発券数の合計が総座席数と一致しない便を探す
// 見つかった件数はゲージに反映する
func (s *TripService) AuditSeatLedger(ctx context.Context) ([]trip.LedgerMismatch, error) {
	mismatches, err := s.tripRepo.FindLedgerMismatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("座席台帳の監査に失敗: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SeatLedgerMismatches.Set(float64(len(mismatches)))
	}
	for _, m := range mismatches {
		logger.FromContext(ctx).Error("座席台帳の不整合",
			zap.Int64("trip_id", m.TripID),
			zap.Int("total_seats", m.TotalSeats),
			zap.Int("free_seats", m.FreeSeats),
			zap.Int("reserved_seats", m.ReservedSeats),
		)
	}
	return mismatches, nil
}
