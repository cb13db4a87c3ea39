package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	redisinfra "github.com/sanosuguru/go-train-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-train-ticket-booking/internal/pkg/logger"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// IdempotencyStore は冪等キーごとのレスポンス保存先
type IdempotencyStore interface {
	Begin(ctx context.Context, key string) (*redisinfra.StoredResponse, error)
	Complete(ctx context.Context, key string, res *redisinfra.StoredResponse) error
	Abort(ctx context.Context, key string) error
}

// Idempotency は Idempotency-Key ヘッダー付きのリクエストを一度だけ処理する
// 成功レスポンスのみ保存し、同じキーの再送には保存済みレスポンスを返す
// ストアに到達できない場合は冪等性なしで処理を続ける
func Idempotency(store IdempotencyStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(HeaderIdempotencyKey)
			if key == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			log := logger.FromContext(ctx).With(zap.String("idempotency_key", key))

			stored, err := store.Begin(ctx, key)
			switch {
			case errors.Is(err, redisinfra.ErrRequestInProgress):
				return echo.NewHTTPError(http.StatusConflict, err.Error())
			case err != nil:
				log.Warn("冪等キーを確保できないため通常処理を続行", zap.Error(err))
				return next(c)
			case stored != nil:
				log.Info("保存済みレスポンスを返却", zap.Int("status", stored.StatusCode))
				c.Response().Header().Set(HeaderIdempotentReplayed, "true")
				return c.Blob(stored.StatusCode, stored.ContentType, stored.Body)
			}

			res := c.Response()
			rec := &bodyRecorder{ResponseWriter: res.Writer}
			res.Writer = rec

			err = next(c)

			// 応答後もキーの後始末はキャンセルさせない
			bg := context.WithoutCancel(ctx)
			if err != nil || res.Status < 200 || res.Status >= 300 {
				if abortErr := store.Abort(bg, key); abortErr != nil {
					log.Warn("冪等キーの解除に失敗", zap.Error(abortErr))
				}
				return err
			}

			if err := store.Complete(bg, key, &redisinfra.StoredResponse{
				StatusCode:  res.Status,
				ContentType: res.Header().Get(echo.HeaderContentType),
				Body:        rec.body.Bytes(),
			}); err != nil {
				log.Warn("レスポンスの保存に失敗", zap.Error(err))
			}
			return nil
		}
	}
}

type bodyRecorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
