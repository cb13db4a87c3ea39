package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
)

const freeSeatsCacheTTL = 30 * time.Second

// SeatCache は便の空席数キャッシュ
type SeatCache interface {
	GetFreeSeats(ctx context.Context, tripID int64) (int, error)
	Generation(ctx context.Context, tripID int64) (int64, error)
	SetFreeSeats(ctx context.Context, tripID int64, gen int64, count int, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context, tripID int64) error
}

// invalidateFreeSeats はコミット後にキャッシュを破棄する。失敗しても処理結果は変えない
func invalidateFreeSeats(ctx context.Context, cache SeatCache, tripID int64) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, tripID); err != nil {
		logger.FromContext(ctx).Warn("キャッシュ無効化エラー", zap.Int64("trip_id", tripID), zap.Error(err))
	}
}
