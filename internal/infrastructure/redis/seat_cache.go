package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("キャッシュが見つかりません")

// 世代が読み取り時から変わっていない場合だけ空席数を保存する
var setIfGenerationScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// SeatCache は便ごとの空席数キャッシュ
// 正は常に trips.free_seats で、購入・取消のコミット後に無効化される。
// 無効化のたびに便ごとの世代を進め、無効化より前に読んだ値は書き戻さない
type SeatCache struct {
	client redis.Cmdable
}

func NewSeatCache(client redis.Cmdable) *SeatCache {
	return &SeatCache{client: client}
}

// GetFreeSeats は便の空席数をキャッシュから取得する
func (c *SeatCache) GetFreeSeats(ctx context.Context, tripID int64) (int, error) {
	val, err := c.client.Get(ctx, freeSeatsKey(tripID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// Generation は便の現在の世代を返す。一度も無効化されていなければ 0
// DBを読む前に取得し、SetFreeSeats に渡す
func (c *SeatCache) Generation(ctx context.Context, tripID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(tripID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("キャッシュ世代の取得に失敗: %w", err)
	}
	return gen, nil
}

// SetFreeSeats は世代が gen のままなら空席数を ttl 付きで保存する
// 途中で無効化されていた場合は保存せず false を返す
func (c *SeatCache) SetFreeSeats(ctx context.Context, tripID int64, gen int64, count int, ttl time.Duration) (bool, error) {
	keys := []string{freeSeatsKey(tripID), generationKey(tripID)}
	stored, err := setIfGenerationScript.Run(ctx, c.client, keys, gen, count, ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return stored == 1, nil
}

// Invalidate は便の世代を進めてから空席数キャッシュを削除する
func (c *SeatCache) Invalidate(ctx context.Context, tripID int64) error {
	var errs []error
	if err := c.client.Incr(ctx, generationKey(tripID)).Err(); err != nil {
		errs = append(errs, err)
	}
	if err := c.client.Del(ctx, freeSeatsKey(tripID)).Err(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func freeSeatsKey(tripID int64) string {
	return fmt.Sprintf("trips:free_seats:%d", tripID)
}

func generationKey(tripID int64) string {
	return fmt.Sprintf("trips:free_seats_gen:%d", tripID)
}
