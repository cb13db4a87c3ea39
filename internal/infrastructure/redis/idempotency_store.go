package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRequestInProgress は同じ冪等キーのリクエストが処理中であることを表す
var ErrRequestInProgress = errors.New("同じ冪等キーのリクエストを処理中です")

const inProgressMarker = "in_progress"

// StoredResponse は冪等キーに紐づけて保存するレスポンス
type StoredResponse struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// IdempotencyStore は Idempotency-Key ごとのレスポンスを保存する
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Begin はキーを処理中として確保する
// 保存済みレスポンスがあればそれを返し、処理中なら ErrRequestInProgress を返す
func (s *IdempotencyStore) Begin(ctx context.Context, key string) (*StoredResponse, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKey(key), inProgressMarker, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("冪等キーの確保に失敗: %w", err)
	}
	if ok {
		return nil, nil
	}

	val, err := s.client.Get(ctx, idempotencyKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRequestInProgress
		}
		return nil, fmt.Errorf("冪等キーの取得に失敗: %w", err)
	}
	if val == inProgressMarker {
		return nil, ErrRequestInProgress
	}

	var res StoredResponse
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, fmt.Errorf("保存済みレスポンスの復元に失敗: %w", err)
	}
	return &res, nil
}

// Complete は処理結果を保存する
func (s *IdempotencyStore) Complete(ctx context.Context, key string, res *StoredResponse) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("レスポンスのエンコードに失敗: %w", err)
	}
	if err := s.client.Set(ctx, idempotencyKey(key), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("レスポンスの保存に失敗: %w", err)
	}
	return nil
}

// Abort は処理中の確保を解除し、同じキーで再試行できるようにする
func (s *IdempotencyStore) Abort(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("冪等キーの解除に失敗: %w", err)
	}
	return nil
}

func idempotencyKey(key string) string {
	return "idempotency:purchase:" + key
}
